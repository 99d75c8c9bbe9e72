package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel-browser/browser-api/cdp/cdptest"
	"github.com/rebel-browser/browser-api/common"
)

const pageScript = `
window.navigator = { userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36" };
var opened = [];
window.rebel = {
	darkModeEnabled: false,
	ntpTilesAvailable: true,
	ntpTiles: [{ url: "https://example.com", title: "Example", favicon_url: "" }],
	loadInternalUrl: function (url) { opened.push(url); },
	addCustomTile: function (url, title) {
		this.ntpTiles = this.ntpTiles.concat([{ url: url, title: title, favicon_url: "" }]);
		this.onNtpTilesChanged();
	},
	removeCustomTile: function () {},
	editCustomTile: function () {},
	search: {
		autocompleteResult: { input: "", matches: [] },
		queryAutocomplete: function (input) {
			this.autocompleteResult = { input: input, matches: [
				{ contents: "rebel.io", destinationUrl: "https://rebel.io/", type: "history" },
				{ contents: "reb", destinationUrl: "https://search.example/?q=reb", isSearchType: true }
			] };
			this.onAutocompleteResultChanged();
		},
		stopAutocomplete: function () {},
		openAutocompleteMatch: function (index, url) { opened.push(index + " " + url); },
	},
	network: {
		wiFiStatus: [
			{ ssid: "home", connectionState: "Connected", rssi: -50, frequency: 5180, linkSpeed: 866 },
			{ ssid: "cafe", connectionState: "NotConnected" }
		],
		updateWiFiStatus: function () {
			this.wiFiStatus = [{ ssid: "office", connectionState: "Connecting" }];
			this.onWiFiStatusChanged();
		},
	},
	platformInfo: { version: "80.1.2.3", platform: "Mac OS X", systemArch: 64, browserArch: 64 },
	theme: {
		theme: { darkModeEnabled: true, background: { imageUrl: "https://img.example/a.jpg", collectionId: "space" }, colors: { colorId: 2, color: [0, 0, 255, 255] } },
		colors: [{ colorId: 2, color: [0, 0, 255, 255], label: "Blue", icon: "" }],
		showOrHideCustomizeMenu: function () {},
		setBackground: function () {},
		previewColor: function (id) { opened.push("color " + id); },
		commitColor: function () { opened.push("commit"); },
		revertColor: function () {},
	},
};
`

func run(t *testing.T, fb *cdptest.Browser, args ...string) (string, error) {
	t.Helper()

	opts = rootOptions{}
	wifiOpts.all, wifiOpts.update = false, false
	autocompleteOpts.open, autocompleteOpts.preventInline, autocompleteOpts.backgroundTab = -1, false, false
	color.NoColor = true

	url := ""
	if fb != nil {
		url = fb.URL()
	}
	t.Setenv("REBEL_CDP_URL", url)
	t.Setenv("REBEL_CDP_TIMEOUT", "2s")
	t.Setenv("REBEL_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestMissingEndpoint(t *testing.T) {
	_, err := run(t, nil, "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REBEL_CDP_URL")
}

func TestInfo(t *testing.T) {
	out, err := run(t, cdptest.New(t, pageScript), "info")
	require.NoError(t, err)

	assert.Contains(t, out, "rebel host: yes")
	assert.Contains(t, out, "platform: macOS (desktop)")
	assert.Contains(t, out, "version: 80.1.2.3")
	assert.Contains(t, out, "architecture: 64-bit system, 64-bit browser")
}

func TestInfoWithoutHost(t *testing.T) {
	fb := cdptest.New(t, `window.navigator = { userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)" };`)
	out, err := run(t, fb, "info")
	require.NoError(t, err)

	assert.Contains(t, out, "rebel host: no")
	assert.Contains(t, out, "platform: Windows (desktop)", "the platform is inferred from the user agent")

	_, err = run(t, fb, "tiles")
	assert.ErrorIs(t, err, errNoHost)
}

func TestWiFi(t *testing.T) {
	fb := cdptest.New(t, pageScript)

	out, err := run(t, fb, "wifi")
	require.NoError(t, err)
	assert.Equal(t, "home  Connected  -50 dBm  5.18 GHz  866 Mbps\n", out)

	out, err = run(t, fb, "wifi", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "home  Connected")
	assert.Contains(t, out, "cafe  NotConnected")

	out, err = run(t, fb, "wifi", "--update")
	require.NoError(t, err)
	assert.Equal(t, "office  Connecting\n", out)
}

func TestWiFiSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, cdptest.New(t, pageScript), "wifi", "--all", "--output", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^wifi-\d{8}T\d{6}\.json$`, entries[0].Name())

	b, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	var snap struct {
		Kind string           `json:"kind"`
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(b, &snap))
	assert.Equal(t, "wifi", snap.Kind)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "cafe", snap.Data[1]["ssid"])
	assert.EqualValues(t, -1, snap.Data[1]["rssi"], "missing metrics are reported as unknown")
}

func TestTiles(t *testing.T) {
	fb := cdptest.New(t, pageScript)

	out, err := run(t, fb, "tiles")
	require.NoError(t, err)
	assert.Equal(t, " 1. Example  https://example.com\n", out)

	out, err = run(t, fb, "tiles", "add", "rebel.io", "Rebel")
	require.NoError(t, err)
	assert.Equal(t, " 1. Example  https://example.com\n 2. Rebel  https://rebel.io\n", out)
}

func TestTheme(t *testing.T) {
	fb := cdptest.New(t, pageScript)

	out, err := run(t, fb, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "dark mode: yes")
	assert.Contains(t, out, "background: https://img.example/a.jpg center center, no-repeat")
	assert.Contains(t, out, "collection space")
	assert.Contains(t, out, "color: 2 #0000ffff")

	out, err = run(t, fb, "theme", "colors")
	require.NoError(t, err)
	assert.Equal(t, "  2  #0000ffff  Blue\n", out)

	_, err = run(t, fb, "theme", "set-color", "2")
	require.NoError(t, err)
	_, err = run(t, fb, "theme", "set-color", "7")
	assert.Error(t, err)
	assert.JSONEq(t, `["color 2","commit"]`, fb.Export("opened"))
}

func TestAutocompleteAndOpen(t *testing.T) {
	fb := cdptest.New(t, pageScript)

	out, err := run(t, fb, "autocomplete", "reb", "--open", "0")
	require.NoError(t, err)
	assert.Contains(t, out, " 0. rebel.io  https://rebel.io/  [history]")
	assert.Contains(t, out, " 1. reb  https://search.example/?q=reb  [search]")
	assert.Contains(t, out, "opened https://rebel.io/")

	_, err = run(t, fb, "open", "rebel://settings")
	require.NoError(t, err)
	_, err = run(t, fb, "open", "https://rebel.io")
	assert.Error(t, err)

	assert.JSONEq(t, `["0 https://rebel.io/","rebel://settings"]`, fb.Export("opened"))
}

func TestFormatWiFiStatus(t *testing.T) {
	color.NoColor = true

	st := common.NewDefaultWiFiStatus()
	st.SSID, st.ConnectionState = "lab", common.ConnectionStateConnected
	st.SignalLevel, st.MaxSignalLevel = 3, 4
	st.RxMbps, st.TxMbps = 400, 200
	st.BSSID = "00:11:22:33:44:55"

	assert.Equal(t, "lab  Connected  signal 3/4  rx 400 Mbps tx 200 Mbps  00:11:22:33:44:55", formatWiFiStatus(st))
}

func TestEventPrinter(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	p := &eventPrinter{w: &buf, now: func() time.Time {
		return time.Date(2021, 10, 25, 10, 15, 0, 0, time.UTC)
	}}
	p.printf("wifi", "%s", "home")
	p.printf("autocomplete", "%q: %d matches", "reb", 2)

	assert.Equal(t, "10:15:00 wifi         home\n10:15:00 autocomplete \"reb\": 2 matches\n", buf.String())
}
