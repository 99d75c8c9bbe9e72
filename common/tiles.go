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
	"github.com/dlclark/regexp2"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

// tileProtocol matches the URL schemes a tile may point to.
var tileProtocol = regexp2.MustCompile(`^(https?|chrome|rebel)://`, regexp2.IgnoreCase) //nolint:gochecknoglobals

// Tile is a New Tab Page tile.
type Tile struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	FaviconURL string `json:"favicon_url"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes t together with its extra fields.
func (t Tile) MarshalJSON() ([]byte, error) {
	type alias Tile
	return marshalWithExtra(alias(t), t.Extra)
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (t *Tile) UnmarshalJSON(data []byte) error {
	type alias Tile
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*t = Tile(a)
	return nil
}

// NormalizeTileURL prefixes url with https:// unless it already starts with
// one of the http, https, chrome or rebel schemes.
func NormalizeTileURL(url string) string {
	if ok, err := tileProtocol.MatchString(url); err == nil && ok {
		return url
	}
	return "https://" + url
}

// TilesAPI manages the New Tab Page tiles.
type TilesAPI struct {
	handle    host.Handle
	logger    *log.Logger
	observers observerRegistry[func([]Tile)]
}

// NewTilesAPI returns the tiles adapter for h, which may be nil.
func NewTilesAPI(h host.Handle, logger *log.Logger) *TilesAPI {
	t := &TilesAPI{logger: logger}
	if host.Probe(h).Handle {
		t.handle = h
		h.SetOnNTPTilesChanged(t.notify)
	}

	return t
}

// AddObserver registers fn to receive the tiles whenever they change. fn is
// called right away when the browser has the tiles available. The slice
// passed to fn is shared between observers and must not be modified. A nil
// fn registers nothing.
func (t *TilesAPI) AddObserver(fn func([]Tile)) func() {
	if t.handle == nil || fn == nil {
		return noop
	}

	remove := t.observers.add(fn)
	if t.handle.NTPTilesAvailable() {
		if tiles, ok := t.tiles(); ok {
			fn(tiles)
		}
	}

	return remove
}

// AddTile adds a custom tile.
func (t *TilesAPI) AddTile(url, title string) {
	if t.handle == nil {
		return
	}

	url = NormalizeTileURL(url)
	t.logger.Debugf("Tiles:addTile", "url:%q title:%q", url, title)
	t.handle.AddCustomTile(url, title)
}

// RemoveTile removes the custom tile pointing to url.
func (t *TilesAPI) RemoveTile(url string) {
	if t.handle == nil {
		return
	}

	t.logger.Debugf("Tiles:removeTile", "url:%q", url)
	t.handle.RemoveCustomTile(url)
}

// EditTile changes the URL and title of the custom tile pointing to oldURL.
// Nothing happens if any argument is empty. The browser keeps the URL of a
// tile when only its title changes.
func (t *TilesAPI) EditTile(oldURL, newURL, newTitle string) {
	if t.handle == nil {
		return
	}
	if oldURL == "" || newURL == "" || newTitle == "" {
		return
	}

	newURL = NormalizeTileURL(newURL)
	if oldURL == newURL {
		newURL = ""
	}

	t.logger.Debugf("Tiles:editTile", "oldUrl:%q newUrl:%q newTitle:%q", oldURL, newURL, newTitle)
	t.handle.EditCustomTile(oldURL, newURL, newTitle)
}

func (t *TilesAPI) notify() {
	if !t.handle.NTPTilesAvailable() {
		return
	}

	tiles, ok := t.tiles()
	if !ok {
		return
	}
	for _, fn := range t.observers.snapshot() {
		fn(tiles)
	}
}

func (t *TilesAPI) tiles() ([]Tile, bool) {
	tiles := []Tile{}
	if data := t.handle.NTPTiles(); !isNullJSON(data) {
		if err := jsonc.Unmarshal(data, &tiles); err != nil {
			t.logger.Errorf("Tiles:tiles", "decoding tiles: %v", err)
			return nil, false
		}
	}

	return tiles, true
}
