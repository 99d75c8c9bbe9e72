package api

import "github.com/rebel-browser/browser-api/common"

// PlatformAPI is the public interface of the platform description.
type PlatformAPI interface {
	HasBrowserArchitecture() bool
	HasSystemArchitecture() bool
	Is32BitBrowser() bool
	Is32BitSystem() bool
	Is64BitBrowser() bool
	Is64BitSystem() bool
	IsAndroid() bool
	IsDesktop() bool
	IsIOS() bool
	IsKnownPlatform() bool
	IsLinux() bool
	IsMacOS() bool
	IsMobile() bool
	IsWindows() bool
	Type() common.PlatformType
	Version() string
}
