/*
 *
 * browser-api - native Rebel browser features for Go and JavaScript
 * Copyright (C) 2021 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package common

import (
	"encoding/json"
	"sync"

	"gopkg.in/guregu/null.v3"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

// BackgroundImage is the New Tab Page background.
type BackgroundImage struct {
	CollectionID        string `json:"collectionId"`
	ImageURL            string `json:"imageUrl"`
	ImageAlignment      string `json:"imageAlignment"`
	ImageTiling         string `json:"imageTiling"`
	ThumbnailURL        string `json:"thumbnailUrl"`
	AttributionLine1    string `json:"attributionLine1"`
	AttributionLine2    string `json:"attributionLine2"`
	AttributionURL      string `json:"attributionUrl"`
	AttributionImageURL string `json:"attributionImageUrl"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes b together with its extra fields.
func (b BackgroundImage) MarshalJSON() ([]byte, error) {
	type alias BackgroundImage
	return marshalWithExtra(alias(b), b.Extra)
}

func (b BackgroundImage) toHost() host.BackgroundImage {
	return host.BackgroundImage{
		CollectionID:        b.CollectionID,
		ImageURL:            b.ImageURL,
		ImageAlignment:      b.ImageAlignment,
		ImageTiling:         b.ImageTiling,
		ThumbnailURL:        b.ThumbnailURL,
		AttributionLine1:    b.AttributionLine1,
		AttributionLine2:    b.AttributionLine2,
		AttributionURL:      b.AttributionURL,
		AttributionImageURL: b.AttributionImageURL,
	}
}

// PartialBackgroundImage is a BackgroundImage where any field may be missing.
type PartialBackgroundImage struct {
	CollectionID        null.String `json:"collectionId"`
	ImageURL            null.String `json:"imageUrl"`
	ImageAlignment      null.String `json:"imageAlignment"`
	ImageTiling         null.String `json:"imageTiling"`
	ThumbnailURL        null.String `json:"thumbnailUrl"`
	AttributionLine1    null.String `json:"attributionLine1"`
	AttributionLine2    null.String `json:"attributionLine2"`
	AttributionURL      null.String `json:"attributionUrl"`
	AttributionImageURL null.String `json:"attributionImageUrl"`

	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (p *PartialBackgroundImage) UnmarshalJSON(data []byte) error {
	type alias PartialBackgroundImage
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*p = PartialBackgroundImage(a)
	return nil
}

// NewDefaultBackgroundImage returns the background used for missing fields.
func NewDefaultBackgroundImage() BackgroundImage {
	return BackgroundImage{
		ImageAlignment: "center center",
		ImageTiling:    "no-repeat",
	}
}

// MergeBackgroundImage fills the fields missing from p with the ones from def.
func MergeBackgroundImage(p PartialBackgroundImage, def BackgroundImage) BackgroundImage {
	return BackgroundImage{
		CollectionID:        stringOr(p.CollectionID, def.CollectionID),
		ImageURL:            stringOr(p.ImageURL, def.ImageURL),
		ImageAlignment:      stringOr(p.ImageAlignment, def.ImageAlignment),
		ImageTiling:         stringOr(p.ImageTiling, def.ImageTiling),
		ThumbnailURL:        stringOr(p.ThumbnailURL, def.ThumbnailURL),
		AttributionLine1:    stringOr(p.AttributionLine1, def.AttributionLine1),
		AttributionLine2:    stringOr(p.AttributionLine2, def.AttributionLine2),
		AttributionURL:      stringOr(p.AttributionURL, def.AttributionURL),
		AttributionImageURL: stringOr(p.AttributionImageURL, def.AttributionImageURL),
		Extra:               p.Extra.clone(),
	}
}

// ThemeColors is the color selection of the current theme.
type ThemeColors struct {
	ColorID    int       `json:"colorId"`
	Color      host.RGBA `json:"color"`
	ColorDark  host.RGBA `json:"colorDark"`
	ColorLight host.RGBA `json:"colorLight"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes c together with its extra fields.
func (c ThemeColors) MarshalJSON() ([]byte, error) {
	type alias ThemeColors
	return marshalWithExtra(alias(c), c.Extra)
}

// PartialThemeColors is a ThemeColors where any field may be missing.
type PartialThemeColors struct {
	ColorID    null.Int `json:"colorId"`
	Color      []int    `json:"color"`
	ColorDark  []int    `json:"colorDark"`
	ColorLight []int    `json:"colorLight"`

	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (p *PartialThemeColors) UnmarshalJSON(data []byte) error {
	type alias PartialThemeColors
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*p = PartialThemeColors(a)
	return nil
}

// NewDefaultThemeColors returns the colors used for missing fields.
func NewDefaultThemeColors() ThemeColors {
	return ThemeColors{ColorID: -1}
}

// MergeThemeColors fills the fields missing from p with the ones from def.
func MergeThemeColors(p PartialThemeColors, def ThemeColors) ThemeColors {
	return ThemeColors{
		ColorID:    intOr(p.ColorID, def.ColorID),
		Color:      rgbaOr(p.Color, def.Color),
		ColorDark:  rgbaOr(p.ColorDark, def.ColorDark),
		ColorLight: rgbaOr(p.ColorLight, def.ColorLight),
		Extra:      p.Extra.clone(),
	}
}

func rgbaOr(v []int, d host.RGBA) host.RGBA {
	if v == nil {
		return d
	}
	var c host.RGBA
	copy(c[:], v)
	return c
}

// Theme is the current New Tab Page theme.
type Theme struct {
	DarkModeEnabled bool            `json:"darkModeEnabled"`
	Background      BackgroundImage `json:"background"`
	Colors          ThemeColors     `json:"colors"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes t together with its extra fields.
func (t Theme) MarshalJSON() ([]byte, error) {
	type alias Theme
	return marshalWithExtra(alias(t), t.Extra)
}

// PartialTheme is a Theme as reported by the host.
type PartialTheme struct {
	DarkModeEnabled null.Bool               `json:"darkModeEnabled"`
	Background      *PartialBackgroundImage `json:"background"`
	Colors          *PartialThemeColors     `json:"colors"`

	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (p *PartialTheme) UnmarshalJSON(data []byte) error {
	type alias PartialTheme
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*p = PartialTheme(a)
	return nil
}

// MergeTheme completes p with the default background and colors.
func MergeTheme(p PartialTheme, bg BackgroundImage, colors ThemeColors) Theme {
	t := Theme{
		DarkModeEnabled: p.DarkModeEnabled.ValueOrZero(),
		Background:      MergeBackgroundImage(PartialBackgroundImage{}, bg),
		Colors:          MergeThemeColors(PartialThemeColors{}, colors),
		Extra:           p.Extra.clone(),
	}
	if p.Background != nil {
		t.Background = MergeBackgroundImage(*p.Background, bg)
	}
	if p.Colors != nil {
		t.Colors = MergeThemeColors(*p.Colors, colors)
	}

	return t
}

// Color is one of the theme colors offered for selection.
type Color struct {
	ColorID int       `json:"colorId"`
	Color   host.RGBA `json:"color"`
	Label   string    `json:"label"`
	// Icon is the URL of the image shown for the color.
	Icon string `json:"icon"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes c together with its extra fields.
func (c Color) MarshalJSON() ([]byte, error) {
	type alias Color
	return marshalWithExtra(alias(c), c.Extra)
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (c *Color) UnmarshalJSON(data []byte) error {
	type alias Color
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*c = Color(a)
	return nil
}

// ThemeState tells whether a background image or color is being previewed.
type ThemeState int

// Theme states.
const (
	ThemeStateCommitted ThemeState = iota
	ThemeStatePreviewing
)

func (s ThemeState) String() string {
	if s == ThemeStatePreviewing {
		return "previewing"
	}
	return "committed"
}

// ThemeAPI exposes the New Tab Page theme and its customization.
//
// Background images are previewed locally: observers see the pending image
// until it is committed, which persists it in the browser, or reverted.
// Colors are previewed by the browser itself.
type ThemeAPI struct {
	handle host.Handle
	theme  host.Theme
	env    host.Environment
	logger *log.Logger

	defaultBackground BackgroundImage
	defaultColors     ThemeColors

	observers observerRegistry[func(Theme)]

	mu                sync.Mutex
	pendingBackground *PartialBackgroundImage
	pendingColor      bool
}

// NewThemeAPI returns the theme adapter for h, which may be nil.
func NewThemeAPI(h host.Handle, env host.Environment, logger *log.Logger) *ThemeAPI {
	t := &ThemeAPI{
		env:               env,
		logger:            logger,
		defaultBackground: NewDefaultBackgroundImage(),
		defaultColors:     NewDefaultThemeColors(),
	}

	caps := host.Probe(h)
	if !caps.Handle {
		return t
	}
	t.handle = h
	if caps.Theme {
		t.theme = h.Theme()
		t.theme.SetOnThemeChanged(t.notifyAboutTheme)
	} else {
		h.SetOnDarkModeChanged(t.notifyAboutTheme)
	}

	return t
}

// HasThemeAPI reports whether the host has a theme namespace.
func (t *ThemeAPI) HasThemeAPI() bool {
	return t.theme != nil
}

// DefaultBackground returns the background used for missing fields.
func (t *ThemeAPI) DefaultBackground() BackgroundImage {
	return t.defaultBackground
}

// DefaultColors returns the colors used for missing fields.
func (t *ThemeAPI) DefaultColors() ThemeColors {
	return t.defaultColors
}

// AddThemeObserver registers fn to receive the theme whenever it changes and
// calls it right away with the current theme. The first theme also counts
// the environment's dark color scheme preference.
func (t *ThemeAPI) AddThemeObserver(fn func(Theme)) func() {
	if t.handle == nil || fn == nil {
		return noop
	}

	theme := t.createTheme()
	if t.env.PrefersDarkColorScheme.Valid {
		theme.DarkModeEnabled = theme.DarkModeEnabled || t.env.PrefersDarkColorScheme.Bool
	}

	remove := t.observers.add(fn)
	fn(theme)

	return remove
}

// ShowOrHideCustomizeMenu toggles the browser's customization menu.
func (t *ThemeAPI) ShowOrHideCustomizeMenu() {
	if t.theme == nil {
		return
	}

	t.logger.Debugf("Theme:showOrHideCustomizeMenu", "")
	t.theme.ShowOrHideCustomizeMenu()
}

// PreviewBackgroundImage shows image to the observers without persisting it.
// A nil image previews the default background.
func (t *ThemeAPI) PreviewBackgroundImage(collectionID string, image *PartialBackgroundImage) {
	if t.theme == nil {
		return
	}

	var pending PartialBackgroundImage
	if image != nil {
		pending = *image
		pending.Extra = image.Extra.clone()
	}
	pending.CollectionID = null.StringFrom(collectionID)

	t.logger.Debugf("Theme:previewBackgroundImage", "collectionId:%q imageUrl:%q",
		collectionID, pending.ImageURL.ValueOrZero())

	t.mu.Lock()
	t.pendingBackground = &pending
	t.mu.Unlock()

	t.notifyAboutTheme()
}

// PreviewColor asks the browser to tentatively apply a theme color.
func (t *ThemeAPI) PreviewColor(colorID int, color host.RGBA) {
	if t.theme == nil {
		return
	}

	t.logger.Debugf("Theme:previewColor", "colorId:%d", colorID)

	t.mu.Lock()
	t.pendingColor = true
	t.mu.Unlock()

	t.theme.PreviewColor(colorID, color)
}

// CommitPendingChanges persists the previewed background image, if any, and
// the previewed color. Observers are notified by the browser.
func (t *ThemeAPI) CommitPendingChanges() {
	if t.theme == nil {
		return
	}

	t.mu.Lock()
	pending := t.pendingBackground
	t.pendingBackground = nil
	t.pendingColor = false
	t.mu.Unlock()

	if pending != nil {
		bg := MergeBackgroundImage(*pending, t.defaultBackground)
		t.logger.Debugf("Theme:commitPendingChanges", "collectionId:%q imageUrl:%q", bg.CollectionID, bg.ImageURL)
		t.theme.SetBackground(bg.toHost())
	}
	t.theme.CommitColor()
}

// RevertPendingChanges drops the previewed background image and color.
// Observers are notified if a background image was being previewed.
func (t *ThemeAPI) RevertPendingChanges() {
	if t.theme == nil {
		return
	}

	t.mu.Lock()
	hadPending := t.pendingBackground != nil
	t.pendingBackground = nil
	t.pendingColor = false
	t.mu.Unlock()

	t.logger.Debugf("Theme:revertPendingChanges", "pendingBackground:%t", hadPending)
	if hadPending {
		t.notifyAboutTheme()
	}
	t.theme.RevertColor()
}

// State tells whether a background image or color is being previewed.
func (t *ThemeAPI) State() ThemeState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pendingBackground != nil || t.pendingColor {
		return ThemeStatePreviewing
	}
	return ThemeStateCommitted
}

// Colors returns the colors offered for selection, or nil if the host has no
// theme namespace.
func (t *ThemeAPI) Colors() []Color {
	if t.theme == nil {
		return nil
	}

	var colors []Color
	if data := t.theme.Colors(); !isNullJSON(data) {
		if err := jsonc.Unmarshal(data, &colors); err != nil {
			t.logger.Errorf("Theme:colors", "decoding colors: %v", err)
			return nil
		}
	}

	return colors
}

func (t *ThemeAPI) notifyAboutTheme() {
	theme := t.createTheme()
	for _, fn := range t.observers.snapshot() {
		fn(theme)
	}
}

func (t *ThemeAPI) createTheme() Theme {
	if t.theme == nil {
		return Theme{
			DarkModeEnabled: t.handle.DarkModeEnabled(),
			Background:      t.DefaultBackground(),
			Colors:          t.DefaultColors(),
		}
	}

	p, err := decodeTheme(t.theme.Theme())
	if err != nil {
		t.logger.Errorf("Theme:createTheme", "decoding theme: %v", err)
	}

	t.mu.Lock()
	if t.pendingBackground != nil {
		pending := *t.pendingBackground
		p.Background = &pending
	}
	t.mu.Unlock()

	return MergeTheme(p, t.defaultBackground, t.defaultColors)
}

func decodeTheme(data json.RawMessage) (PartialTheme, error) {
	var p PartialTheme
	if isNullJSON(data) {
		return p, nil
	}
	if err := jsonc.Unmarshal(data, &p); err != nil {
		return PartialTheme{}, err //nolint:wrapcheck
	}

	return p, nil
}
