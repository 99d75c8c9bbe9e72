package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/host/hosttest"
)

const hostTheme = `{
	"darkModeEnabled": false,
	"background": {"imageUrl": "https://img.example/sky.jpg", "collectionId": "nature"},
	"colors": {"colorId": 3, "color": [10, 20, 30, 255]},
	"customized": true
}`

func TestThemeWithoutHost(t *testing.T) {
	t.Parallel()

	th := NewThemeAPI(nil, host.Environment{}, nil)
	assert.False(t, th.HasThemeAPI())

	called := false
	th.AddThemeObserver(func(Theme) { called = true })
	th.PreviewBackgroundImage("c", nil)
	th.CommitPendingChanges()
	th.RevertPendingChanges()
	th.ShowOrHideCustomizeMenu()

	assert.False(t, called)
	assert.Nil(t, th.Colors())
	assert.Equal(t, ThemeStateCommitted, th.State())
}

func TestThemeDefaults(t *testing.T) {
	t.Parallel()

	th := NewThemeAPI(nil, host.Environment{}, nil)
	assert.Equal(t, BackgroundImage{ImageAlignment: "center center", ImageTiling: "no-repeat"}, th.DefaultBackground())
	assert.Equal(t, ThemeColors{ColorID: -1}, th.DefaultColors())
}

func TestThemeObserverWithThemeAPI(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	h.SetTheme(hostTheme)
	th := NewThemeAPI(h, host.Environment{}, nil)
	require.True(t, th.HasThemeAPI())
	require.True(t, h.Installed("theme.onThemeChanged"))
	assert.False(t, h.Installed("onDarkModeChanged"))

	var got []Theme
	th.AddThemeObserver(func(t Theme) { got = append(got, t) })
	require.Len(t, got, 1, "observers receive the current theme right away")

	bg := got[0].Background
	assert.Equal(t, "https://img.example/sky.jpg", bg.ImageURL)
	assert.Equal(t, "nature", bg.CollectionID)
	assert.Equal(t, "center center", bg.ImageAlignment)
	assert.Equal(t, "no-repeat", bg.ImageTiling)
	assert.Equal(t, 3, got[0].Colors.ColorID)
	assert.Equal(t, host.RGBA{10, 20, 30, 255}, got[0].Colors.Color)
	assert.Equal(t, host.RGBA{}, got[0].Colors.ColorDark)
	assert.Equal(t, Extra{"customized": true}, got[0].Extra)

	h.SetTheme(`{"darkModeEnabled": true, "background": {}, "colors": {}}`)
	h.Fire("theme.onThemeChanged")
	require.Len(t, got, 2)
	assert.True(t, got[1].DarkModeEnabled)
	assert.Equal(t, th.DefaultBackground(), got[1].Background)
}

func TestThemeObserverWithoutThemeAPI(t *testing.T) {
	t.Parallel()

	h := hosttest.New(hosttest.WithoutTheme())
	h.SetDarkMode(true)
	th := NewThemeAPI(h, host.Environment{}, nil)
	require.True(t, h.Installed("onDarkModeChanged"))

	var got []Theme
	th.AddThemeObserver(func(t Theme) { got = append(got, t) })
	require.Len(t, got, 1)
	assert.Equal(t, Theme{
		DarkModeEnabled: true,
		Background:      th.DefaultBackground(),
		Colors:          th.DefaultColors(),
	}, got[0])

	h.SetDarkMode(false)
	h.Fire("onDarkModeChanged")
	require.Len(t, got, 2)
	assert.False(t, got[1].DarkModeEnabled)
}

func TestThemeObserverPrefersDarkColorScheme(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	env := host.Environment{PrefersDarkColorScheme: null.BoolFrom(true)}
	th := NewThemeAPI(h, env, nil)

	var got []Theme
	th.AddThemeObserver(func(t Theme) { got = append(got, t) })
	require.Len(t, got, 1)
	assert.True(t, got[0].DarkModeEnabled, "the system preference enables dark mode")

	h.Fire("theme.onThemeChanged")
	require.Len(t, got, 2)
	assert.False(t, got[1].DarkModeEnabled, "only the first theme consults the system preference")
}

func TestThemePreviewCommit(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	th := NewThemeAPI(h, host.Environment{}, nil)

	var got []Theme
	th.AddThemeObserver(func(t Theme) { got = append(got, t) })

	th.PreviewBackgroundImage("space", &PartialBackgroundImage{
		ImageURL:    null.StringFrom("https://img.example/moon.jpg"),
		ImageTiling: null.StringFrom("repeat"),
	})
	assert.Equal(t, ThemeStatePreviewing, th.State())
	require.Len(t, got, 2, "previews notify the observers")
	assert.Equal(t, "https://img.example/moon.jpg", got[1].Background.ImageURL)
	assert.Equal(t, "space", got[1].Background.CollectionID)
	assert.Equal(t, "repeat", got[1].Background.ImageTiling)
	assert.Equal(t, "center center", got[1].Background.ImageAlignment)
	assert.Empty(t, h.CallsTo("theme.setBackground"))

	th.CommitPendingChanges()
	assert.Equal(t, ThemeStateCommitted, th.State())
	assert.Len(t, got, 2, "the browser notifies about committed changes")

	calls := h.CallsTo("theme.setBackground")
	require.Len(t, calls, 1)
	assert.Equal(t, host.BackgroundImage{
		CollectionID:   "space",
		ImageURL:       "https://img.example/moon.jpg",
		ImageAlignment: "center center",
		ImageTiling:    "repeat",
	}, calls[0].Args[0])
	assert.Len(t, h.CallsTo("theme.commitColor"), 1)

	th.CommitPendingChanges()
	assert.Len(t, h.CallsTo("theme.setBackground"), 1, "nothing left to persist")
}

func TestThemePreviewRevert(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	h.SetTheme(hostTheme)
	th := NewThemeAPI(h, host.Environment{}, nil)

	var got []Theme
	th.AddThemeObserver(func(t Theme) { got = append(got, t) })

	th.PreviewBackgroundImage("", nil)
	require.Len(t, got, 2)
	assert.Equal(t, th.DefaultBackground(), got[1].Background, "a nil image previews the default background")

	th.RevertPendingChanges()
	assert.Equal(t, ThemeStateCommitted, th.State())
	require.Len(t, got, 3)
	assert.Equal(t, "https://img.example/sky.jpg", got[2].Background.ImageURL)
	assert.Len(t, h.CallsTo("theme.revertColor"), 1)

	th.RevertPendingChanges()
	assert.Len(t, got, 3, "reverting without a pending image does not notify")
	assert.Empty(t, h.CallsTo("theme.setBackground"))
}

func TestThemePreviewColor(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	th := NewThemeAPI(h, host.Environment{}, nil)

	th.PreviewColor(7, host.RGBA{1, 2, 3, 4})
	assert.Equal(t, ThemeStatePreviewing, th.State())

	calls := h.CallsTo("theme.previewColor")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{7, host.RGBA{1, 2, 3, 4}}, calls[0].Args)

	th.RevertPendingChanges()
	assert.Equal(t, ThemeStateCommitted, th.State())
}

func TestThemeShowOrHideCustomizeMenu(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	NewThemeAPI(h, host.Environment{}, nil).ShowOrHideCustomizeMenu()
	assert.Len(t, h.CallsTo("theme.showOrHideCustomizeMenu"), 1)

	h = hosttest.New(hosttest.WithoutTheme())
	NewThemeAPI(h, host.Environment{}, nil).ShowOrHideCustomizeMenu()
	assert.Empty(t, h.Calls())
}

func TestThemeColors(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	h.SetColors(`[{"colorId": 1, "color": [255, 0, 0, 255], "label": "Red", "icon": "chrome://theme/red.svg"}]`)
	colors := NewThemeAPI(h, host.Environment{}, nil).Colors()

	require.Len(t, colors, 1)
	assert.Equal(t, Color{
		ColorID: 1,
		Color:   host.RGBA{255, 0, 0, 255},
		Label:   "Red",
		Icon:    "chrome://theme/red.svg",
	}, colors[0])
}

func TestMergeThemeIdempotent(t *testing.T) {
	t.Parallel()

	complete := Theme{
		DarkModeEnabled: true,
		Background:      NewDefaultBackgroundImage(),
		Colors:          ThemeColors{ColorID: 2, Color: host.RGBA{1, 2, 3, 4}},
	}
	complete.Background.ImageURL = "https://img.example/a.jpg"

	b, err := complete.MarshalJSON()
	require.NoError(t, err)
	var p PartialTheme
	require.NoError(t, p.UnmarshalJSON(b))

	assert.Equal(t, complete, MergeTheme(p, NewDefaultBackgroundImage(), NewDefaultThemeColors()))
}

func TestMergeThemeNullFields(t *testing.T) {
	t.Parallel()

	var p PartialTheme
	require.NoError(t, p.UnmarshalJSON([]byte(`{"background": {"imageTiling": null}, "colors": null}`)))

	got := MergeTheme(p, NewDefaultBackgroundImage(), NewDefaultThemeColors())
	assert.Equal(t, "no-repeat", got.Background.ImageTiling)
	assert.Equal(t, NewDefaultThemeColors(), got.Colors)
}
