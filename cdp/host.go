package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto"
	cdpr "github.com/chromedp/cdproto/runtime"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// ErrNoHost is returned by Attach when the page has no window.rebel object,
// i.e. it is not running inside the Rebel browser.
var ErrNoHost = errors.New("page has no window.rebel host object")

const (
	hostObject = "window.rebel"

	probeExpr = `(function (r) {
	if (typeof r !== "object" || r === null) { return null; }
	var has = function (n) { return typeof r[n] === "object" && r[n] !== null; };
	return { search: has("search"), network: has("network"), platformInfo: has("platformInfo"), theme: has("theme") };
})(window.rebel)`

	architectureExpr = `(function (p) {
	if (p.systemArch === undefined || p.browserArch === undefined) { return null; }
	return [p.systemArch, p.browserArch];
})(window.rebel.platformInfo)`

	environmentExpr = `({
	userAgent: typeof navigator === "object" ? navigator.userAgent : null,
	prefersDark: typeof matchMedia === "function" ? matchMedia("(prefers-color-scheme: dark)").matches : null
})`
)

type namespaces struct {
	Search       bool `json:"search"`
	Network      bool `json:"network"`
	PlatformInfo bool `json:"platformInfo"`
	Theme        bool `json:"theme"`
}

// Host is a host.Handle backed by the window.rebel object of a page reached
// over CDP. Every member access is a Runtime.evaluate round trip; failures
// are logged and reported as zero values. Callbacks installed by the
// adapters run on a dispatch goroutine owned by the Host.
type Host struct {
	ctx     context.Context
	client  *Client
	timeout time.Duration
	logger  *log.Logger

	namespaces namespaces
	binding    string

	mu          sync.Mutex
	callbacks   map[string]func()
	unsubscribe func()
}

var _ host.Handle = &Host{}

// Attach returns the host of the page that ctx routes to, as returned by
// Client.AttachToPage. Each command sent to the page times out after timeout.
// It returns ErrNoHost when the page has no host object.
func Attach(ctx context.Context, c *Client, timeout time.Duration, logger *log.Logger) (*Host, error) {
	h := &Host{
		ctx:       ctx,
		client:    c,
		timeout:   timeout,
		logger:    logger,
		binding:   "__rebel_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		callbacks: make(map[string]func()),
	}

	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.Runtime.Enable(sctx); err != nil {
		return nil, err
	}
	probe, err := c.Runtime.Evaluate(sctx, probeExpr)
	if err != nil {
		return nil, errors.Wrap(err, "probing host object")
	}
	if isNull(probe) {
		return nil, ErrNoHost
	}
	if err := jsonc.Unmarshal(probe, &h.namespaces); err != nil {
		return nil, errors.Wrap(err, "decoding host namespaces")
	}

	if err := c.Runtime.AddBinding(sctx, h.binding); err != nil {
		return nil, err
	}
	events, unsubscribe := c.Subscribe(cdproto.EventRuntimeBindingCalled)
	h.unsubscribe = unsubscribe
	go h.dispatch(events)

	logger.Debugf("cdp:Attach", "sid:%v binding:%s namespaces:%+v", GetSessionID(ctx), h.binding, h.namespaces)

	return h, nil
}

// Environment reads the user agent and the dark color scheme preference of
// the page that ctx routes to. The user agent falls back to the one the
// browser reports.
func Environment(ctx context.Context, c *Client) (host.Environment, error) {
	var (
		env host.Environment
		raw struct {
			UserAgent   null.String `json:"userAgent"`
			PrefersDark null.Bool   `json:"prefersDark"`
		}
	)

	v, err := c.Runtime.Evaluate(ctx, environmentExpr)
	if err != nil {
		return env, err
	}
	if err := jsonc.Unmarshal(v, &raw); err != nil {
		return env, errors.Wrap(err, "decoding page environment")
	}
	env.UserAgent, env.PrefersDarkColorScheme = raw.UserAgent, raw.PrefersDark

	if !env.UserAgent.Valid || env.UserAgent.String == "" {
		_, _, _, ua, _, err := c.Browser.GetVersion(WithSessionID(ctx, ""))
		if err != nil {
			return env, err
		}
		env = env.WithUserAgent(ua)
	}

	return env, nil
}

// Close stops dispatching host callbacks.
func (h *Host) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

func (h *Host) dispatch(events <-chan *Event) {
	sid := GetSessionID(h.ctx)
	for evt := range events {
		called, ok := evt.Data.(*cdpr.EventBindingCalled)
		if !ok || called.Name != h.binding || evt.SessionID != sid {
			continue
		}

		h.mu.Lock()
		fn := h.callbacks[called.Payload]
		h.mu.Unlock()
		if fn == nil {
			h.logger.Debugf("cdp:dispatch", "no callback for %q", called.Payload)
			continue
		}
		fn()
	}
}

func (h *Host) evaluate(expr string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
	defer cancel()

	v, err := h.client.Runtime.Evaluate(ctx, expr)
	return json.RawMessage(v), err
}

// call invokes the host function at path with args encoded as JSON.
func (h *Host) call(path string, args ...any) {
	encoded := make([]string, len(args))
	for i, a := range args {
		b, err := jsonc.Marshal(a)
		if err != nil {
			h.logger.Errorf("cdp:call", "encoding argument %d of %s: %v", i, path, err)
			return
		}
		encoded[i] = string(b)
	}

	expr := fmt.Sprintf("%s.%s(%s)", hostObject, path, strings.Join(encoded, ", "))
	if _, err := h.evaluate(expr); err != nil {
		h.logger.Errorf("cdp:call", "%v", errors.Wrapf(err, "calling %s", path))
	}
}

// json returns the member at path encoded as JSON, or null when it is missing.
func (h *Host) json(path string) json.RawMessage {
	v, err := h.evaluate(hostObject + "." + path)
	if err != nil {
		h.logger.Errorf("cdp:json", "%v", errors.Wrapf(err, "reading %s", path))
		return json.RawMessage("null")
	}
	return v
}

func (h *Host) boolMember(path string) bool {
	v, err := h.evaluate("!!" + hostObject + "." + path)
	if err != nil {
		h.logger.Errorf("cdp:boolMember", "%v", errors.Wrapf(err, "reading %s", path))
		return false
	}
	var b bool
	if err := jsonc.Unmarshal(v, &b); err != nil {
		h.logger.Errorf("cdp:boolMember", "decoding %s: %v", path, err)
	}
	return b
}

func (h *Host) stringMember(path string) string {
	var s null.String
	if err := jsonc.Unmarshal(h.json(path), &s); err != nil {
		h.logger.Debugf("cdp:stringMember", "decoding %s: %v", path, err)
	}
	return s.ValueOrZero()
}

// setCallback installs a host function at slot that reports its calls
// through the page binding.
func (h *Host) setCallback(slot string, fn func()) {
	h.mu.Lock()
	h.callbacks[slot] = fn
	h.mu.Unlock()

	expr := fmt.Sprintf("%s.%s = function () { window.%s(%q); }", hostObject, slot, h.binding, slot)
	if _, err := h.evaluate(expr); err != nil {
		h.logger.Errorf("cdp:setCallback", "%v", errors.Wrapf(err, "setting %s", slot))
	}
}

func isNull(v []byte) bool {
	return len(v) == 0 || string(v) == "null"
}

// Search implements host.Handle.
func (h *Host) Search() host.Search {
	if !h.namespaces.Search {
		return nil
	}
	return &search{h}
}

// Network implements host.Handle.
func (h *Host) Network() host.Network {
	if !h.namespaces.Network {
		return nil
	}
	return &network{h}
}

// PlatformInfo implements host.Handle.
func (h *Host) PlatformInfo() host.PlatformInfo {
	if !h.namespaces.PlatformInfo {
		return nil
	}
	return &platformInfo{h}
}

// Theme implements host.Handle.
func (h *Host) Theme() host.Theme {
	if !h.namespaces.Theme {
		return nil
	}
	return &theme{h}
}

// LoadInternalURL implements host.Handle.
func (h *Host) LoadInternalURL(url string) { h.call("loadInternalUrl", url) }

// DarkModeEnabled implements host.Handle.
func (h *Host) DarkModeEnabled() bool { return h.boolMember("darkModeEnabled") }

// SetOnDarkModeChanged implements host.Handle.
func (h *Host) SetOnDarkModeChanged(fn func()) { h.setCallback("onDarkModeChanged", fn) }

// NTPTilesAvailable implements host.Handle.
func (h *Host) NTPTilesAvailable() bool { return h.boolMember("ntpTilesAvailable") }

// NTPTiles implements host.Handle.
func (h *Host) NTPTiles() json.RawMessage { return h.json("ntpTiles") }

// SetOnNTPTilesChanged implements host.Handle.
func (h *Host) SetOnNTPTilesChanged(fn func()) { h.setCallback("onNtpTilesChanged", fn) }

// AddCustomTile implements host.Handle.
func (h *Host) AddCustomTile(url, title string) { h.call("addCustomTile", url, title) }

// RemoveCustomTile implements host.Handle.
func (h *Host) RemoveCustomTile(url string) { h.call("removeCustomTile", url) }

// EditCustomTile implements host.Handle.
func (h *Host) EditCustomTile(oldURL, newURL, newTitle string) {
	h.call("editCustomTile", oldURL, newURL, newTitle)
}

type search struct{ h *Host }

func (s *search) QueryAutocomplete(input string, preventInlineAutocomplete bool) {
	s.h.call("search.queryAutocomplete", input, preventInlineAutocomplete)
}

func (s *search) StopAutocomplete() { s.h.call("search.stopAutocomplete") }

func (s *search) OpenAutocompleteMatch(index int, url string, middleButton, altKey, ctrlKey, metaKey, shiftKey bool) {
	s.h.call("search.openAutocompleteMatch", index, url, middleButton, altKey, ctrlKey, metaKey, shiftKey)
}

func (s *search) AutocompleteResult() json.RawMessage { return s.h.json("search.autocompleteResult") }

func (s *search) SetOnAutocompleteResultChanged(fn func()) {
	s.h.setCallback("search.onAutocompleteResultChanged", fn)
}

type network struct{ h *Host }

func (n *network) UpdateWiFiStatus() { n.h.call("network.updateWiFiStatus") }

func (n *network) WiFiStatus() json.RawMessage { return n.h.json("network.wiFiStatus") }

func (n *network) SetOnWiFiStatusChanged(fn func()) {
	n.h.setCallback("network.onWiFiStatusChanged", fn)
}

type platformInfo struct{ h *Host }

func (p *platformInfo) Version() string { return p.h.stringMember("platformInfo.version") }

func (p *platformInfo) Platform() string { return p.h.stringMember("platformInfo.platform") }

func (p *platformInfo) Architecture() (int, int, bool) {
	v, err := p.h.evaluate(architectureExpr)
	if err != nil {
		p.h.logger.Errorf("cdp:Architecture", "%v", err)
		return 0, 0, false
	}
	var arch []int
	if err := jsonc.Unmarshal(v, &arch); err != nil || len(arch) != 2 {
		return 0, 0, false
	}
	return arch[0], arch[1], true
}

type theme struct{ h *Host }

func (t *theme) Theme() json.RawMessage { return t.h.json("theme.theme") }

func (t *theme) Colors() json.RawMessage { return t.h.json("theme.colors") }

func (t *theme) SetOnThemeChanged(fn func()) { t.h.setCallback("theme.onThemeChanged", fn) }

func (t *theme) ShowOrHideCustomizeMenu() { t.h.call("theme.showOrHideCustomizeMenu") }

func (t *theme) SetBackground(bg host.BackgroundImage) { t.h.call("theme.setBackground", bg) }

func (t *theme) PreviewColor(colorID int, color host.RGBA) {
	t.h.call("theme.previewColor", colorID, color)
}

func (t *theme) CommitColor() { t.h.call("theme.commitColor") }

func (t *theme) RevertColor() { t.h.call("theme.revertColor") }
