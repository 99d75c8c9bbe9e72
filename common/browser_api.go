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
	"net/url"
	"strings"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

// BrowserAPI gives access to every native feature of the browser. It is
// created once by the program and shared with its consumers.
type BrowserAPI struct {
	handle host.Handle
	logger *log.Logger

	autocomplete *AutocompleteAPI
	network      *NetworkAPI
	platform     *PlatformAPI
	theme        *ThemeAPI
	tiles        *TilesAPI
}

// NewBrowserAPI wires the feature adapters to h. A nil h yields an API on
// which every feature is unsupported: commands are ignored, observers are
// never called and defaults are reported.
func NewBrowserAPI(h host.Handle, env host.Environment, logger *log.Logger) *BrowserAPI {
	if logger == nil {
		logger = log.NewNullLogger()
	}

	caps := host.Probe(h)
	logger.Debugf("BrowserAPI:new", "host:%t search:%t network:%t platformInfo:%t theme:%t",
		caps.Handle, caps.Search, caps.Network, caps.PlatformInfo, caps.Theme)

	return &BrowserAPI{
		handle:       h,
		logger:       logger,
		autocomplete: NewAutocompleteAPI(h, logger),
		network:      NewNetworkAPI(h, logger),
		platform:     NewPlatformAPI(h, env, logger),
		theme:        NewThemeAPI(h, env, logger),
		tiles:        NewTilesAPI(h, logger),
	}
}

// HasHost reports whether the API runs inside the browser.
func (b *BrowserAPI) HasHost() bool { return b.handle != nil }

// Autocomplete returns the search suggestions feature.
func (b *BrowserAPI) Autocomplete() *AutocompleteAPI { return b.autocomplete }

// Network returns the WiFi status feature.
func (b *BrowserAPI) Network() *NetworkAPI { return b.network }

// Platform returns the platform description.
func (b *BrowserAPI) Platform() *PlatformAPI { return b.platform }

// Theme returns the theme customization feature.
func (b *BrowserAPI) Theme() *ThemeAPI { return b.theme }

// Tiles returns the New Tab Page tiles feature.
func (b *BrowserAPI) Tiles() *TilesAPI { return b.tiles }

// LoadInternalURL navigates to a chrome: or rebel: URL. It returns false for
// any other URL, which is not loaded. Leading and trailing spaces and control
// characters are ignored when checking the scheme, as browsers do.
func (b *BrowserAPI) LoadInternalURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimFunc(rawURL, isC0ControlOrSpace))
	if err != nil {
		return false
	}
	if u.Scheme != "chrome" && u.Scheme != "rebel" {
		return false
	}

	if b.handle != nil {
		b.logger.Debugf("BrowserAPI:loadInternalUrl", "url:%q", rawURL)
		b.handle.LoadInternalURL(rawURL)
	}

	return true
}

func isC0ControlOrSpace(r rune) bool {
	return r <= ' '
}
