package api

import (
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/keyboard"
)

// AutocompleteAPI is the public interface of the search suggestions feature.
type AutocompleteAPI interface {
	AddObserver(fn func(common.AutocompleteResult)) func()
	OpenMatch(index int, url string, middleButton bool, modifiers keyboard.ModifierKey)
	Query(input string, preventInlineAutocomplete bool)
	Stop()
}
