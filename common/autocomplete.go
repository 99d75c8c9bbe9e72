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
	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/keyboard"
	"github.com/rebel-browser/browser-api/log"
)

// AutocompleteStyle is a bitmask of the styles applied to a span of an
// autocomplete match.
type AutocompleteStyle int

// Autocomplete styles.
const (
	AutocompleteStyleNone  AutocompleteStyle = 0
	AutocompleteStyleURL   AutocompleteStyle = 1 << 1
	AutocompleteStyleMatch AutocompleteStyle = 1 << 2
	AutocompleteStyleDim   AutocompleteStyle = 1 << 3
)

// Has reports whether all the styles in o are set.
func (s AutocompleteStyle) Has(o AutocompleteStyle) bool {
	return s&o == o
}

// AutocompleteClassification styles the text of a match starting at Offset.
type AutocompleteClassification struct {
	Offset int               `json:"offset"`
	Style  AutocompleteStyle `json:"style"`
}

// AutocompleteMatch is a single suggestion for a query.
type AutocompleteMatch struct {
	Contents                string                       `json:"contents"`
	ContentsClass           []AutocompleteClassification `json:"contentsClass"`
	Description             string                       `json:"description"`
	DescriptionClass        []AutocompleteClassification `json:"descriptionClass"`
	DestinationURL          string                       `json:"destinationUrl"`
	Type                    string                       `json:"type"`
	IsSearchType            bool                         `json:"isSearchType"`
	FillIntoEdit            string                       `json:"fillIntoEdit"`
	InlineAutocompletion    string                       `json:"inlineAutocompletion"`
	AllowedToBeDefaultMatch bool                         `json:"allowedToBeDefaultMatch"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes m together with its extra fields.
func (m AutocompleteMatch) MarshalJSON() ([]byte, error) {
	type alias AutocompleteMatch
	return marshalWithExtra(alias(m), m.Extra)
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (m *AutocompleteMatch) UnmarshalJSON(data []byte) error {
	type alias AutocompleteMatch
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*m = AutocompleteMatch(a)
	return nil
}

// AutocompleteResult holds the matches generated for Input.
type AutocompleteResult struct {
	Input   string              `json:"input"`
	Matches []AutocompleteMatch `json:"matches"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes r together with its extra fields.
func (r AutocompleteResult) MarshalJSON() ([]byte, error) {
	type alias AutocompleteResult
	return marshalWithExtra(alias(r), r.Extra)
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (r *AutocompleteResult) UnmarshalJSON(data []byte) error {
	type alias AutocompleteResult
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*r = AutocompleteResult(a)
	return nil
}

// AutocompleteAPI queries the browser's omnibox suggestions.
type AutocompleteAPI struct {
	search    host.Search
	logger    *log.Logger
	observers observerRegistry[func(AutocompleteResult)]
}

// NewAutocompleteAPI returns the autocomplete adapter for h, which may be nil.
func NewAutocompleteAPI(h host.Handle, logger *log.Logger) *AutocompleteAPI {
	a := &AutocompleteAPI{logger: logger}
	if host.Probe(h).Search {
		a.search = h.Search()
		a.search.SetOnAutocompleteResultChanged(a.notify)
	}

	return a
}

// AddObserver registers fn to receive the results of every query. A nil fn
// registers nothing.
func (a *AutocompleteAPI) AddObserver(fn func(AutocompleteResult)) func() {
	if a.search == nil || fn == nil {
		return noop
	}
	return a.observers.add(fn)
}

// Query asks the browser for the matches of input. Observers are notified
// once they are available. preventInlineAutocomplete should be set when the
// user deleted text from the input.
func (a *AutocompleteAPI) Query(input string, preventInlineAutocomplete bool) {
	if a.search == nil {
		return
	}

	a.logger.Debugf("Autocomplete:query", "input:%q preventInline:%t", input, preventInlineAutocomplete)
	a.search.QueryAutocomplete(input, preventInlineAutocomplete)
}

// Stop cancels the ongoing query, if any. Observers may still be notified
// of its result.
func (a *AutocompleteAPI) Stop() {
	if a.search == nil {
		return
	}

	a.logger.Debugf("Autocomplete:stop", "")
	a.search.StopAutocomplete()
}

// OpenMatch navigates to the match at index. url must be the match's
// destination and guards against stale results. middleButton or the
// modifiers pressed by the user choose where the match is opened.
func (a *AutocompleteAPI) OpenMatch(index int, url string, middleButton bool, modifiers keyboard.ModifierKey) {
	if a.search == nil {
		return
	}

	a.logger.Debugf("Autocomplete:openMatch", "index:%d url:%q middleButton:%t modifiers:%s",
		index, url, middleButton, modifiers)
	a.search.OpenAutocompleteMatch(index, url, middleButton,
		modifiers.Alt(), modifiers.Control(), modifiers.Meta(), modifiers.Shift())
}

func (a *AutocompleteAPI) notify() {
	var result AutocompleteResult
	if err := jsonc.Unmarshal(a.search.AutocompleteResult(), &result); err != nil {
		a.logger.Errorf("Autocomplete:notify", "decoding autocomplete result: %v", err)
		return
	}

	for _, fn := range a.observers.snapshot() {
		fn(result)
	}
}
