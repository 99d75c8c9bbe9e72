package gojahost

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/keyboard"
	"github.com/rebel-browser/browser-api/log"
)

// rebelScript defines a window.rebel object recording every call in
// window.calls.
const rebelScript = `
var window = this;
var calls = [];
function record(name) {
	return function () {
		calls.push(name + "(" + JSON.stringify(Array.prototype.slice.call(arguments)) + ")");
	};
}
window.navigator = { userAgent: "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36" };
window.matchMedia = function (query) {
	return { matches: query === "(prefers-color-scheme: dark)" };
};
window.rebel = {
	darkModeEnabled: false,
	ntpTilesAvailable: true,
	ntpTiles: [{ url: "https://example.com", title: "Example", favicon_url: "" }],
	loadInternalUrl: record("loadInternalUrl"),
	addCustomTile: record("addCustomTile"),
	removeCustomTile: record("removeCustomTile"),
	editCustomTile: record("editCustomTile"),
	search: {
		autocompleteResult: { input: "", matches: [] },
		queryAutocomplete: record("queryAutocomplete"),
		stopAutocomplete: record("stopAutocomplete"),
		openAutocompleteMatch: record("openAutocompleteMatch"),
	},
	network: {
		wiFiStatus: { ssid: "home", connectionState: "Connected", rssi: -50 },
		updateWiFiStatus: function () {
			this.wiFiStatus = [this.wiFiStatus, { ssid: "cafe", connectionState: "NotConnected" }];
			this.onWiFiStatusChanged();
		},
	},
	platformInfo: { version: "80.1.2.3", platform: "Windows" },
	theme: {
		theme: { darkModeEnabled: false, background: { imageUrl: "https://img.example/a.jpg" }, colors: { colorId: 2 } },
		colors: [{ colorId: 2, color: [0, 0, 255, 255], label: "Blue", icon: "" }],
		showOrHideCustomizeMenu: record("showOrHideCustomizeMenu"),
		setBackground: record("setBackground"),
		previewColor: record("previewColor"),
		commitColor: record("commitColor"),
		revertColor: record("revertColor"),
	},
};
`

func newRuntime(t *testing.T, script string) *goja.Runtime {
	t.Helper()

	rt := goja.New()
	_, err := rt.RunString(script)
	require.NoError(t, err)
	return rt
}

func calls(t *testing.T, rt *goja.Runtime) []string {
	t.Helper()

	var c []string
	require.NoError(t, rt.ExportTo(rt.Get("calls"), &c))
	return c
}

func TestFromWindowWithoutHost(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromWindow(goja.New(), nil))
	assert.Nil(t, FromWindow(newRuntime(t, `var window = { rebel: null };`), nil))
	assert.Nil(t, FromWindow(newRuntime(t, `var rebel = 42;`), nil))
	assert.NotNil(t, FromWindow(newRuntime(t, `var rebel = {};`), nil), "the global object stands in for window")
}

func TestEnvironment(t *testing.T) {
	t.Parallel()

	env := Environment(newRuntime(t, rebelScript))
	assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36", env.UserAgent.ValueOrZero())
	assert.True(t, env.PrefersDarkColorScheme.Valid)
	assert.True(t, env.PrefersDarkColorScheme.Bool)

	env = Environment(goja.New())
	assert.False(t, env.UserAgent.Valid)
	assert.False(t, env.PrefersDarkColorScheme.Valid)
}

func TestNamespaces(t *testing.T) {
	t.Parallel()

	h := FromWindow(newRuntime(t, `var rebel = { network: {} };`), nil)
	require.NotNil(t, h)

	caps := host.Probe(h)
	assert.True(t, caps.Network)
	assert.False(t, caps.Search)
	assert.False(t, caps.Theme)
	assert.False(t, caps.PlatformInfo)
	assert.Nil(t, h.Search())
}

func TestBrowserAPI(t *testing.T) {
	t.Parallel()

	rt := newRuntime(t, rebelScript)
	b := common.NewBrowserAPI(FromWindow(rt, log.NewNullLogger()), Environment(rt), nil)

	t.Run("platform", func(t *testing.T) {
		p := b.Platform()
		assert.True(t, p.IsWindows())
		assert.Equal(t, "80.1.2.3", p.Version())
		assert.True(t, p.Is64BitSystem())
		assert.True(t, p.Is32BitBrowser())
	})

	t.Run("network", func(t *testing.T) {
		var all [][]common.WiFiStatus
		b.Network().AddAllWiFiStatusObserver(func(s []common.WiFiStatus) { all = append(all, s) })
		b.Network().UpdateWiFiStatus()

		require.Len(t, all, 2)
		assert.Len(t, all[0], 1)
		require.Len(t, all[1], 2)
		assert.Equal(t, "cafe", all[1][1].SSID)
		assert.Equal(t, -1.0, all[1][1].RSSI)
	})

	t.Run("theme", func(t *testing.T) {
		var themes []common.Theme
		b.Theme().AddThemeObserver(func(th common.Theme) { themes = append(themes, th) })
		require.Len(t, themes, 1)
		assert.True(t, themes[0].DarkModeEnabled, "the page prefers a dark color scheme")
		assert.Equal(t, "https://img.example/a.jpg", themes[0].Background.ImageURL)
		assert.Equal(t, "no-repeat", themes[0].Background.ImageTiling)
		assert.Equal(t, 2, themes[0].Colors.ColorID)

		colors := b.Theme().Colors()
		require.Len(t, colors, 1)
		assert.Equal(t, "Blue", colors[0].Label)

		b.Theme().PreviewColor(2, host.RGBA{0, 0, 255, 255})
		b.Theme().CommitPendingChanges()
	})

	t.Run("tiles_and_search", func(t *testing.T) {
		var tiles []common.Tile
		b.Tiles().AddObserver(func(ts []common.Tile) { tiles = ts })
		require.Len(t, tiles, 1)
		assert.Equal(t, "Example", tiles[0].Title)

		b.Tiles().AddTile("rebel.io", "Rebel")
		b.Autocomplete().Query("reb", false)
		b.Autocomplete().OpenMatch(0, "https://rebel.io/", false, keyboard.ModifierKeyMeta)
		assert.True(t, b.LoadInternalURL("chrome://settings"))
	})

	assert.Equal(t, []string{
		`previewColor([2,[0,0,255,255]])`,
		`commitColor([])`,
		`addCustomTile(["https://rebel.io","Rebel"])`,
		`queryAutocomplete(["reb",false])`,
		`openAutocompleteMatch([0,"https://rebel.io/",false,false,false,true,false])`,
		`loadInternalUrl(["chrome://settings"])`,
	}, calls(t, rt))
}
