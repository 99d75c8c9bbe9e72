// Package api defines the public surface of the browser API, as implemented
// by the common package and exposed to JavaScript by the browser package.
package api

// BrowserAPI is the public interface of the browser API facade. Its features
// are reached through AutocompleteAPI, NetworkAPI, PlatformAPI, ThemeAPI and
// TilesAPI.
type BrowserAPI interface {
	HasHost() bool
	LoadInternalURL(url string) bool
}
