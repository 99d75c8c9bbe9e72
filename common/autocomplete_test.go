package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel-browser/browser-api/host/hosttest"
	"github.com/rebel-browser/browser-api/keyboard"
)

const hostAutocompleteResult = `{
	"input": "rebel",
	"matches": [{
		"contents": "rebel.io",
		"contentsClass": [{"offset": 0, "style": 6}],
		"description": "Rebel",
		"descriptionClass": [{"offset": 0, "style": 8}],
		"destinationUrl": "https://rebel.io/",
		"type": "history-url",
		"isSearchType": false,
		"fillIntoEdit": "rebel.io",
		"inlineAutocompletion": ".io",
		"allowedToBeDefaultMatch": true,
		"relevance": 1400
	}]
}`

func TestAutocompleteWithoutHost(t *testing.T) {
	t.Parallel()

	a := NewAutocompleteAPI(nil, nil)

	called := false
	a.AddObserver(func(AutocompleteResult) { called = true })
	a.Query("rebel", false)
	a.Stop()
	a.OpenMatch(0, "https://rebel.io/", false, 0)

	assert.False(t, called)
}

func TestAutocompleteNilObserver(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	a := NewAutocompleteAPI(h, nil)
	a.AddObserver(nil)

	var got []string
	a.AddObserver(func(r AutocompleteResult) { got = append(got, r.Input) })
	h.SetAutocompleteResult(`{"input":"reb","matches":[]}`)
	assert.NotPanics(t, func() { h.Fire("search.onAutocompleteResultChanged") })
	assert.Equal(t, []string{"reb"}, got)
}

func TestAutocompleteWithoutSearchNamespace(t *testing.T) {
	t.Parallel()

	h := hosttest.New(hosttest.WithoutSearch())
	a := NewAutocompleteAPI(h, nil)
	a.Query("rebel", false)

	assert.Empty(t, h.Calls())
	assert.False(t, h.Installed("search.onAutocompleteResultChanged"))
}

func TestAutocompleteCommands(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	a := NewAutocompleteAPI(h, nil)

	a.Query("reb", true)
	a.Stop()
	a.OpenMatch(2, "https://rebel.io/", true, keyboard.ModifierKeyControl|keyboard.ModifierKeyShift)

	calls := h.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, hosttest.Call{Method: "search.queryAutocomplete", Args: []any{"reb", true}}, calls[0])
	assert.Equal(t, "search.stopAutocomplete", calls[1].Method)
	assert.Equal(t, hosttest.Call{
		Method: "search.openAutocompleteMatch",
		Args:   []any{2, "https://rebel.io/", true, false, true, false, true},
	}, calls[2])
}

func TestAutocompleteObserver(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	a := NewAutocompleteAPI(h, nil)

	var got []AutocompleteResult
	a.AddObserver(func(r AutocompleteResult) { got = append(got, r) })
	assert.Empty(t, got, "observers are only told about new results")

	h.SetAutocompleteResult(hostAutocompleteResult)
	h.Fire("search.onAutocompleteResultChanged")
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "rebel", r.Input)
	require.Len(t, r.Matches, 1)
	m := r.Matches[0]
	assert.Equal(t, "https://rebel.io/", m.DestinationURL)
	assert.True(t, m.AllowedToBeDefaultMatch)
	assert.True(t, m.ContentsClass[0].Style.Has(AutocompleteStyleURL|AutocompleteStyleMatch))
	assert.False(t, m.ContentsClass[0].Style.Has(AutocompleteStyleDim))
	assert.Equal(t, AutocompleteStyleDim, m.DescriptionClass[0].Style)
	assert.Equal(t, Extra{"relevance": float64(1400)}, m.Extra)

	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"relevance":1400`)
}

func TestAutocompleteRemoveObserver(t *testing.T) {
	t.Parallel()

	h := hosttest.New()
	a := NewAutocompleteAPI(h, nil)

	var first, second int
	remove := a.AddObserver(func(AutocompleteResult) { first++ })
	a.AddObserver(func(AutocompleteResult) { second++ })

	h.Fire("search.onAutocompleteResultChanged")
	remove()
	h.Fire("search.onAutocompleteResultChanged")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
