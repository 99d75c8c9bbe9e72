// Package hosttest provides an in-memory host.Handle for tests.
package hosttest

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rebel-browser/browser-api/host"
)

// Call is a command received by the host.
type Call struct {
	Method string
	Args   []any
}

// Option configures a Host.
type Option func(*Host)

// WithoutSearch removes the search namespace.
func WithoutSearch() Option { return func(h *Host) { h.search = nil } }

// WithoutNetwork removes the network namespace.
func WithoutNetwork() Option { return func(h *Host) { h.network = nil } }

// WithoutTheme removes the theme namespace, as in older browser versions.
func WithoutTheme() Option { return func(h *Host) { h.theme = nil } }

// WithoutPlatformInfo removes the platformInfo namespace.
func WithoutPlatformInfo() Option { return func(h *Host) { h.platform = nil } }

// WithPlatform sets the platform name and version reported by the host.
func WithPlatform(name, version string) Option {
	return func(h *Host) {
		if h.platform != nil {
			h.platform.name, h.platform.version = name, version
		}
	}
}

// WithArchitecture makes the host report explicit bitness.
func WithArchitecture(system, browser int) Option {
	return func(h *Host) {
		if h.platform != nil {
			h.platform.system, h.platform.browser, h.platform.hasArch = system, browser, true
		}
	}
}

// Host is a scriptable host. All namespaces are present unless removed with
// an Option. It is safe for concurrent use.
type Host struct {
	mu    sync.Mutex
	calls []Call
	slots map[string]func()

	darkMode       bool
	tilesAvailable bool
	tiles          json.RawMessage

	search   *search
	network  *network
	platform *platformInfo
	theme    *theme
}

var _ host.Handle = &Host{}

// New returns a host with every namespace present.
func New(opts ...Option) *Host {
	h := &Host{
		slots: make(map[string]func()),
		tiles: json.RawMessage("[]"),
	}
	h.search = &search{h: h, result: json.RawMessage(`{"input":"","matches":[]}`)}
	h.network = &network{h: h, status: json.RawMessage("null")}
	h.platform = &platformInfo{}
	h.theme = &theme{h: h, theme: json.RawMessage(`{"darkModeEnabled":false,"background":{},"colors":{}}`), colors: json.RawMessage("[]")}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) record(method string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, Call{Method: method, Args: args})
}

func (h *Host) install(slot string, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.slots[slot] = fn
}

// Fire invokes the callback installed into slot, e.g.
// "network.onWiFiStatusChanged". It panics if the slot is empty.
func (h *Host) Fire(slot string) {
	h.mu.Lock()
	fn := h.slots[slot]
	h.mu.Unlock()
	if fn == nil {
		panic(fmt.Sprintf("hosttest: no callback installed in %q", slot))
	}
	fn()
}

// Installed reports whether a callback was installed into slot.
func (h *Host) Installed(slot string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.slots[slot] != nil
}

// Calls returns the commands received so far.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// CallsTo returns the commands received for method.
func (h *Host) CallsTo(method string) []Call {
	var calls []Call
	for _, c := range h.Calls() {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

// Search implements host.Handle.
func (h *Host) Search() host.Search {
	if h.search == nil {
		return nil
	}
	return h.search
}

// Network implements host.Handle.
func (h *Host) Network() host.Network {
	if h.network == nil {
		return nil
	}
	return h.network
}

// PlatformInfo implements host.Handle.
func (h *Host) PlatformInfo() host.PlatformInfo {
	if h.platform == nil {
		return nil
	}
	return h.platform
}

// Theme implements host.Handle.
func (h *Host) Theme() host.Theme {
	if h.theme == nil {
		return nil
	}
	return h.theme
}

// LoadInternalURL implements host.Handle.
func (h *Host) LoadInternalURL(url string) { h.record("loadInternalUrl", url) }

// SetDarkMode sets the value reported by DarkModeEnabled.
func (h *Host) SetDarkMode(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.darkMode = enabled
}

// DarkModeEnabled implements host.Handle.
func (h *Host) DarkModeEnabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.darkMode
}

// SetOnDarkModeChanged implements host.Handle.
func (h *Host) SetOnDarkModeChanged(fn func()) { h.install("onDarkModeChanged", fn) }

// SetTiles sets the tiles and their availability.
func (h *Host) SetTiles(available bool, tiles string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tilesAvailable, h.tiles = available, json.RawMessage(tiles)
}

// NTPTilesAvailable implements host.Handle.
func (h *Host) NTPTilesAvailable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tilesAvailable
}

// NTPTiles implements host.Handle.
func (h *Host) NTPTiles() json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tiles
}

// SetOnNTPTilesChanged implements host.Handle.
func (h *Host) SetOnNTPTilesChanged(fn func()) { h.install("onNtpTilesChanged", fn) }

// AddCustomTile implements host.Handle.
func (h *Host) AddCustomTile(url, title string) { h.record("addCustomTile", url, title) }

// RemoveCustomTile implements host.Handle.
func (h *Host) RemoveCustomTile(url string) { h.record("removeCustomTile", url) }

// EditCustomTile implements host.Handle.
func (h *Host) EditCustomTile(oldURL, newURL, newTitle string) {
	h.record("editCustomTile", oldURL, newURL, newTitle)
}

type search struct {
	h      *Host
	result json.RawMessage
}

// SetAutocompleteResult sets the JSON object reported as the autocomplete result.
func (h *Host) SetAutocompleteResult(result string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.search.result = json.RawMessage(result)
}

func (s *search) QueryAutocomplete(input string, preventInlineAutocomplete bool) {
	s.h.record("search.queryAutocomplete", input, preventInlineAutocomplete)
}

func (s *search) StopAutocomplete() { s.h.record("search.stopAutocomplete") }

func (s *search) OpenAutocompleteMatch(index int, url string, middleButton, altKey, ctrlKey, metaKey, shiftKey bool) {
	s.h.record("search.openAutocompleteMatch", index, url, middleButton, altKey, ctrlKey, metaKey, shiftKey)
}

func (s *search) AutocompleteResult() json.RawMessage {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return s.result
}

func (s *search) SetOnAutocompleteResultChanged(fn func()) {
	s.h.install("search.onAutocompleteResultChanged", fn)
}

type network struct {
	h      *Host
	status json.RawMessage
}

// SetWiFiStatus sets the JSON value reported as the WiFi status.
func (h *Host) SetWiFiStatus(status string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.network.status = json.RawMessage(status)
}

func (n *network) UpdateWiFiStatus() { n.h.record("network.updateWiFiStatus") }

func (n *network) WiFiStatus() json.RawMessage {
	n.h.mu.Lock()
	defer n.h.mu.Unlock()
	return n.status
}

func (n *network) SetOnWiFiStatusChanged(fn func()) {
	n.h.install("network.onWiFiStatusChanged", fn)
}

type platformInfo struct {
	name, version   string
	system, browser int
	hasArch         bool
}

func (p *platformInfo) Version() string  { return p.version }
func (p *platformInfo) Platform() string { return p.name }

func (p *platformInfo) Architecture() (int, int, bool) {
	return p.system, p.browser, p.hasArch
}

type theme struct {
	h      *Host
	theme  json.RawMessage
	colors json.RawMessage
}

// SetTheme sets the JSON object reported as the current theme.
func (h *Host) SetTheme(theme string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.theme.theme = json.RawMessage(theme)
}

// SetColors sets the JSON array reported as the available colors.
func (h *Host) SetColors(colors string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.theme.colors = json.RawMessage(colors)
}

func (t *theme) Theme() json.RawMessage {
	t.h.mu.Lock()
	defer t.h.mu.Unlock()
	return t.theme
}

func (t *theme) Colors() json.RawMessage {
	t.h.mu.Lock()
	defer t.h.mu.Unlock()
	return t.colors
}

func (t *theme) SetOnThemeChanged(fn func()) { t.h.install("theme.onThemeChanged", fn) }

func (t *theme) ShowOrHideCustomizeMenu() { t.h.record("theme.showOrHideCustomizeMenu") }

func (t *theme) SetBackground(bg host.BackgroundImage) { t.h.record("theme.setBackground", bg) }

func (t *theme) PreviewColor(colorID int, color host.RGBA) {
	t.h.record("theme.previewColor", colorID, color)
}

func (t *theme) CommitColor() { t.h.record("theme.commitColor") }

func (t *theme) RevertColor() { t.h.record("theme.revertColor") }
