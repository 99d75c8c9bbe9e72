// Package host describes the object the Rebel browser injects into its pages
// as window.rebel, through which the browser's native features are reached.
//
// Member names follow the host's own versioned contract. Older browser
// versions may lack whole namespaces (a nil namespace accessor) or individual
// fields of the objects they report, so loosely typed objects are handed over
// as raw JSON and normalized by the consumers.
package host

import (
	"encoding/json"
)

// Handle is the injected host object. A nil Handle means the code is not
// running inside the embedding browser.
type Handle interface {
	// Search returns the search namespace, or nil if unsupported.
	Search() Search
	// Network returns the network namespace, or nil if unsupported.
	Network() Network
	// PlatformInfo returns the platform namespace, or nil if unsupported.
	PlatformInfo() PlatformInfo
	// Theme returns the theme namespace, or nil if unsupported.
	Theme() Theme

	// LoadInternalURL loads a chrome:// or rebel:// URL.
	LoadInternalURL(url string)

	// DarkModeEnabled reports the system dark mode preference. It is the
	// fallback for browsers without a theme namespace.
	DarkModeEnabled() bool
	SetOnDarkModeChanged(fn func())

	// NTPTilesAvailable reports whether NTPTiles holds meaningful data.
	NTPTilesAvailable() bool
	// NTPTiles returns the New Tab Page tiles as a JSON array.
	NTPTiles() json.RawMessage
	SetOnNTPTilesChanged(fn func())
	AddCustomTile(url, title string)
	RemoveCustomTile(url string)
	EditCustomTile(oldURL, newURL, newTitle string)
}

// Search is the window.rebel.search namespace.
type Search interface {
	QueryAutocomplete(input string, preventInlineAutocomplete bool)
	StopAutocomplete()
	OpenAutocompleteMatch(index int, url string, middleButton, altKey, ctrlKey, metaKey, shiftKey bool)
	// AutocompleteResult returns the latest result as a JSON object.
	AutocompleteResult() json.RawMessage
	SetOnAutocompleteResultChanged(fn func())
}

// Network is the window.rebel.network namespace.
type Network interface {
	UpdateWiFiStatus()
	// WiFiStatus returns null, a single JSON object or a JSON array of
	// objects, depending on the browser version and the discovered networks.
	WiFiStatus() json.RawMessage
	SetOnWiFiStatusChanged(fn func())
}

// PlatformInfo is the window.rebel.platformInfo namespace.
type PlatformInfo interface {
	// Version is the browser's four-part version string.
	Version() string
	// Platform is the operating system name, e.g. "Mac OS X".
	Platform() string
	// Architecture returns the system and browser bitness. ok is false when
	// the browser does not report them.
	Architecture() (system, browser int, ok bool)
}

// Theme is the window.rebel.theme namespace.
type Theme interface {
	// Theme returns the current theme as a JSON object.
	Theme() json.RawMessage
	// Colors returns the colors available for selection as a JSON array.
	Colors() json.RawMessage
	SetOnThemeChanged(fn func())
	ShowOrHideCustomizeMenu()

	// SetBackground persists a background image.
	SetBackground(bg BackgroundImage)
	// PreviewColor tentatively applies a theme color. The browser tracks the
	// pending color itself until it is committed or reverted.
	PreviewColor(colorID int, color RGBA)
	CommitColor()
	RevertColor()
}

// BackgroundImage is the argument of Theme.SetBackground.
type BackgroundImage struct {
	CollectionID        string `json:"collectionId"`
	ImageURL            string `json:"imageUrl"`
	ImageAlignment      string `json:"imageAlignment"`
	ImageTiling         string `json:"imageTiling"`
	ThumbnailURL        string `json:"thumbnailUrl"`
	AttributionLine1    string `json:"attributionLine1"`
	AttributionLine2    string `json:"attributionLine2"`
	AttributionURL      string `json:"attributionUrl"`
	AttributionImageURL string `json:"attributionImageUrl"`
}

// RGBA is a color as its red, green, blue and alpha components.
type RGBA [4]int
