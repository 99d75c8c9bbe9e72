package browser

import (
	"github.com/dop251/goja"

	"github.com/rebel-browser/browser-api/api"
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/keyboard"
)

// mapAutocomplete to the JS module.
func mapAutocomplete(mr moduleRuntime, a api.AutocompleteAPI) mapping {
	return mapping{
		"addObserver": func(observer goja.Value) (func(), error) {
			return mr.addObserver("autocomplete.addObserver", mr.hasHost, observer, func(notify func(any)) func() {
				return a.AddObserver(func(r common.AutocompleteResult) { notify(r) })
			})
		},
		"query": a.Query,
		"stop":  a.Stop,
		"openMatch": func(index int, url string, middleButton, altKey, ctrlKey, metaKey, shiftKey bool) {
			a.OpenMatch(index, url, middleButton, keyboard.Modifiers(altKey, ctrlKey, metaKey, shiftKey))
		},
	}
}
