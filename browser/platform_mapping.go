package browser

import (
	"github.com/rebel-browser/browser-api/api"
)

// mapPlatform to the JS module. The platform does not change, so version is
// a plain property.
func mapPlatform(p api.PlatformAPI) mapping {
	return mapping{
		"version":                p.Version(),
		"isKnownPlatform":        p.IsKnownPlatform,
		"isWindows":              p.IsWindows,
		"isMacOS":                p.IsMacOS,
		"isLinux":                p.IsLinux,
		"isAndroid":              p.IsAndroid,
		"isIOS":                  p.IsIOS,
		"isDesktop":              p.IsDesktop,
		"isMobile":               p.IsMobile,
		"hasSystemArchitecture":  p.HasSystemArchitecture,
		"is32BitSystem":          p.Is32BitSystem,
		"is64BitSystem":          p.Is64BitSystem,
		"hasBrowserArchitecture": p.HasBrowserArchitecture,
		"is32BitBrowser":         p.Is32BitBrowser,
		"is64BitBrowser":         p.Is64BitBrowser,
	}
}
