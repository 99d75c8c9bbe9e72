// Package gojahost adapts a host object living in a goja runtime, such as
// the window.rebel object of a page, to host.Handle.
package gojahost

import (
	"encoding/json"

	"github.com/dop251/goja"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Host is a host.Handle backed by a JS object. It must only be used from the
// goroutine running its runtime.
type Host struct {
	rt     *goja.Runtime
	obj    *goja.Object
	logger *log.Logger
}

var _ host.Handle = &Host{}

// New returns the host backed by obj.
func New(rt *goja.Runtime, obj *goja.Object, logger *log.Logger) *Host {
	return &Host{rt: rt, obj: obj, logger: logger}
}

// FromWindow returns the host injected as window.rebel, or nil when the
// runtime has none. The global object stands in for window when the runtime
// does not define one.
func FromWindow(rt *goja.Runtime, logger *log.Logger) host.Handle {
	obj := member(rt, window(rt), "rebel")
	if obj == nil {
		return nil
	}
	return New(rt, obj, logger)
}

// Environment reads the user agent and the dark color scheme preference of
// the runtime's window, when it has them.
func Environment(rt *goja.Runtime) host.Environment {
	var env host.Environment
	w := window(rt)

	if nav := member(rt, w, "navigator"); nav != nil {
		if ua := nav.Get("userAgent"); exists(ua) {
			env = env.WithUserAgent(ua.String())
		}
	}
	if matchMedia, ok := goja.AssertFunction(w.Get("matchMedia")); ok {
		mql, err := matchMedia(w, rt.ToValue("(prefers-color-scheme: dark)"))
		if err == nil && exists(mql) {
			env.PrefersDarkColorScheme.SetValid(boolMember(mql.ToObject(rt), "matches"))
		}
	}

	return env
}

func window(rt *goja.Runtime) *goja.Object {
	if w := rt.Get("window"); exists(w) {
		return w.ToObject(rt)
	}
	return rt.GlobalObject()
}

// member returns the object stored in obj[name], or nil if there is none.
func member(rt *goja.Runtime, obj *goja.Object, name string) *goja.Object {
	if obj == nil {
		return nil
	}
	v := obj.Get(name)
	if !exists(v) {
		return nil
	}
	if _, isObject := v.(*goja.Object); !isObject {
		return nil
	}
	return v.ToObject(rt)
}

func boolMember(obj *goja.Object, name string) bool {
	v := obj.Get(name)
	return v != nil && v.ToBoolean()
}

func exists(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// call invokes obj[name](args...). Failures are logged and otherwise
// ignored, as the host interface has no way to report them.
func (h *Host) call(obj *goja.Object, name string, args ...any) {
	fn, ok := goja.AssertFunction(obj.Get(name))
	if !ok {
		h.logger.Warnf("gojahost:call", "%s is not a function", name)
		return
	}

	jsArgs := make([]goja.Value, len(args))
	for i, a := range args {
		jsArgs[i] = h.rt.ToValue(a)
	}
	if _, err := fn(obj, jsArgs...); err != nil {
		h.logger.Errorf("gojahost:call", "%v", errors.Wrapf(err, "calling %s", name))
	}
}

// json returns obj[name] encoded as JSON, or null when it is missing.
func (h *Host) json(obj *goja.Object, name string) json.RawMessage {
	v := obj.Get(name)
	if !exists(v) {
		return json.RawMessage("null")
	}

	b, err := v.ToObject(h.rt).MarshalJSON()
	if err != nil {
		h.logger.Errorf("gojahost:json", "%v", errors.Wrapf(err, "encoding %s", name))
		return json.RawMessage("null")
	}
	return b
}

// toJS converts v to a plain JS object through its JSON shape.
func (h *Host) toJS(v any) goja.Value {
	b, err := jsonc.Marshal(v)
	if err != nil {
		h.logger.Errorf("gojahost:toJS", "encoding %T: %v", v, err)
		return goja.Undefined()
	}

	parse, _ := goja.AssertFunction(h.rt.Get("JSON").ToObject(h.rt).Get("parse"))
	val, err := parse(goja.Undefined(), h.rt.ToValue(string(b)))
	if err != nil {
		h.logger.Errorf("gojahost:toJS", "parsing %T: %v", v, err)
		return goja.Undefined()
	}
	return val
}

func (h *Host) setCallback(obj *goja.Object, name string, fn func()) {
	if err := obj.Set(name, fn); err != nil {
		h.logger.Errorf("gojahost:setCallback", "%v", errors.Wrapf(err, "setting %s", name))
	}
}

// Search implements host.Handle.
func (h *Host) Search() host.Search {
	obj := member(h.rt, h.obj, "search")
	if obj == nil {
		return nil
	}
	return &search{h: h, obj: obj}
}

// Network implements host.Handle.
func (h *Host) Network() host.Network {
	obj := member(h.rt, h.obj, "network")
	if obj == nil {
		return nil
	}
	return &network{h: h, obj: obj}
}

// PlatformInfo implements host.Handle.
func (h *Host) PlatformInfo() host.PlatformInfo {
	obj := member(h.rt, h.obj, "platformInfo")
	if obj == nil {
		return nil
	}
	return &platformInfo{obj: obj}
}

// Theme implements host.Handle.
func (h *Host) Theme() host.Theme {
	obj := member(h.rt, h.obj, "theme")
	if obj == nil {
		return nil
	}
	return &theme{h: h, obj: obj}
}

// LoadInternalURL implements host.Handle.
func (h *Host) LoadInternalURL(url string) { h.call(h.obj, "loadInternalUrl", url) }

// DarkModeEnabled implements host.Handle.
func (h *Host) DarkModeEnabled() bool { return boolMember(h.obj, "darkModeEnabled") }

// SetOnDarkModeChanged implements host.Handle.
func (h *Host) SetOnDarkModeChanged(fn func()) { h.setCallback(h.obj, "onDarkModeChanged", fn) }

// NTPTilesAvailable implements host.Handle.
func (h *Host) NTPTilesAvailable() bool { return boolMember(h.obj, "ntpTilesAvailable") }

// NTPTiles implements host.Handle.
func (h *Host) NTPTiles() json.RawMessage { return h.json(h.obj, "ntpTiles") }

// SetOnNTPTilesChanged implements host.Handle.
func (h *Host) SetOnNTPTilesChanged(fn func()) { h.setCallback(h.obj, "onNtpTilesChanged", fn) }

// AddCustomTile implements host.Handle.
func (h *Host) AddCustomTile(url, title string) { h.call(h.obj, "addCustomTile", url, title) }

// RemoveCustomTile implements host.Handle.
func (h *Host) RemoveCustomTile(url string) { h.call(h.obj, "removeCustomTile", url) }

// EditCustomTile implements host.Handle.
func (h *Host) EditCustomTile(oldURL, newURL, newTitle string) {
	h.call(h.obj, "editCustomTile", oldURL, newURL, newTitle)
}

type search struct {
	h   *Host
	obj *goja.Object
}

func (s *search) QueryAutocomplete(input string, preventInlineAutocomplete bool) {
	s.h.call(s.obj, "queryAutocomplete", input, preventInlineAutocomplete)
}

func (s *search) StopAutocomplete() { s.h.call(s.obj, "stopAutocomplete") }

func (s *search) OpenAutocompleteMatch(index int, url string, middleButton, altKey, ctrlKey, metaKey, shiftKey bool) {
	s.h.call(s.obj, "openAutocompleteMatch", index, url, middleButton, altKey, ctrlKey, metaKey, shiftKey)
}

func (s *search) AutocompleteResult() json.RawMessage { return s.h.json(s.obj, "autocompleteResult") }

func (s *search) SetOnAutocompleteResultChanged(fn func()) {
	s.h.setCallback(s.obj, "onAutocompleteResultChanged", fn)
}

type network struct {
	h   *Host
	obj *goja.Object
}

func (n *network) UpdateWiFiStatus() { n.h.call(n.obj, "updateWiFiStatus") }

func (n *network) WiFiStatus() json.RawMessage { return n.h.json(n.obj, "wiFiStatus") }

func (n *network) SetOnWiFiStatusChanged(fn func()) {
	n.h.setCallback(n.obj, "onWiFiStatusChanged", fn)
}

type platformInfo struct {
	obj *goja.Object
}

func (p *platformInfo) Version() string {
	if v := p.obj.Get("version"); exists(v) {
		return v.String()
	}
	return ""
}

func (p *platformInfo) Platform() string {
	if v := p.obj.Get("platform"); exists(v) {
		return v.String()
	}
	return ""
}

func (p *platformInfo) Architecture() (int, int, bool) {
	system, browser := p.obj.Get("systemArch"), p.obj.Get("browserArch")
	if system == nil || browser == nil || goja.IsUndefined(system) || goja.IsUndefined(browser) {
		return 0, 0, false
	}
	return int(system.ToInteger()), int(browser.ToInteger()), true
}

type theme struct {
	h   *Host
	obj *goja.Object
}

func (t *theme) Theme() json.RawMessage { return t.h.json(t.obj, "theme") }

func (t *theme) Colors() json.RawMessage { return t.h.json(t.obj, "colors") }

func (t *theme) SetOnThemeChanged(fn func()) { t.h.setCallback(t.obj, "onThemeChanged", fn) }

func (t *theme) ShowOrHideCustomizeMenu() { t.h.call(t.obj, "showOrHideCustomizeMenu") }

func (t *theme) SetBackground(bg host.BackgroundImage) {
	t.h.call(t.obj, "setBackground", t.h.toJS(bg))
}

func (t *theme) PreviewColor(colorID int, color host.RGBA) {
	t.h.call(t.obj, "previewColor", colorID, t.h.toJS(color))
}

func (t *theme) CommitColor() { t.h.call(t.obj, "commitColor") }

func (t *theme) RevertColor() { t.h.call(t.obj, "revertColor") }
