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
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

// PlatformType is the operating system the browser runs on.
type PlatformType int

// Platform types.
const (
	PlatformUnknown PlatformType = iota + 1
	PlatformWindows
	PlatformMacOS
	PlatformLinux
	PlatformAndroid
	PlatformIOS
)

func (p PlatformType) String() string {
	switch p {
	case PlatformWindows:
		return "Windows"
	case PlatformMacOS:
		return "macOS"
	case PlatformLinux:
		return "Linux"
	case PlatformAndroid:
		return "Android"
	case PlatformIOS:
		return "iOS"
	case PlatformUnknown:
	}
	return "Unknown"
}

// ParsePlatform maps a platform name reported by the host to its type.
func ParsePlatform(name string) PlatformType {
	switch name {
	case "Android":
		return PlatformAndroid
	case "iOS":
		return PlatformIOS
	case "Windows":
		return PlatformWindows
	case "Mac OS X":
		return PlatformMacOS
	case "Linux":
		return PlatformLinux
	}
	return PlatformUnknown
}

type userAgentRule struct {
	platform PlatformType
	re       *regexp2.Regexp
}

// userAgentRules are tried in order, the first match wins. The expressions
// use JavaScript syntax since the Linux one needs a negative look-ahead.
var userAgentRules = []userAgentRule{ //nolint:gochecknoglobals
	{PlatformAndroid, regexp2.MustCompile(`Android`, regexp2.ECMAScript)},
	{PlatformIOS, regexp2.MustCompile(`(iPhone|iPad|iPod)`, regexp2.ECMAScript)},
	{PlatformLinux, regexp2.MustCompile(`(Linux|X11(?!.*CrOS))`, regexp2.ECMAScript)},
	{PlatformMacOS, regexp2.MustCompile(`(Mac OS|Mac OS X|MacPPC|MacIntel|Mac_PowerPC|Macintosh)`, regexp2.ECMAScript)},
	{PlatformWindows, regexp2.MustCompile(`(Windows)`, regexp2.ECMAScript)},
}

// InferPlatform guesses the platform from a user agent string.
func InferPlatform(userAgent string) PlatformType {
	for _, r := range userAgentRules {
		if ok, err := r.re.MatchString(userAgent); err == nil && ok {
			return r.platform
		}
	}
	return PlatformUnknown
}

// InferWindowsArchitecture guesses the system and browser bitness from the
// user agent of a browser running on Windows.
func InferWindowsArchitecture(userAgent string) (system, browser int) {
	switch {
	case strings.Contains(userAgent, "WOW64"):
		return 64, 32
	case strings.Contains(userAgent, "Win64"):
		return 64, 64
	default:
		return 32, 32
	}
}

// PlatformAPI describes the platform and build of the browser. Its values
// are resolved once, at construction.
type PlatformAPI struct {
	version     string
	platform    PlatformType
	systemArch  int
	browserArch int
}

// NewPlatformAPI returns the platform adapter for h, which may be nil. The
// user agent from env is consulted when the host cannot tell.
func NewPlatformAPI(h host.Handle, env host.Environment, logger *log.Logger) *PlatformAPI {
	p := &PlatformAPI{
		platform:    PlatformUnknown,
		systemArch:  -1,
		browserArch: -1,
	}

	var info host.PlatformInfo
	if host.Probe(h).PlatformInfo {
		info = h.PlatformInfo()
		p.version = info.Version()
		p.platform = ParsePlatform(info.Platform())
	}
	if p.platform == PlatformUnknown && env.UserAgent.Valid {
		p.platform = InferPlatform(env.UserAgent.String)
	}
	if info != nil && p.platform != PlatformUnknown {
		p.systemArch, p.browserArch = p.parseArchitecture(info, env)
	}

	logger.Debugf("Platform:new", "version:%q platform:%s systemArch:%d browserArch:%d",
		p.version, p.platform, p.systemArch, p.browserArch)

	return p
}

func (p *PlatformAPI) parseArchitecture(info host.PlatformInfo, env host.Environment) (int, int) {
	if system, browser, ok := info.Architecture(); ok {
		return system, browser
	}
	if p.IsWindows() && env.UserAgent.Valid {
		return InferWindowsArchitecture(env.UserAgent.String)
	}
	return -1, -1
}

// Version is the browser's four-part version, or empty when unknown.
func (p *PlatformAPI) Version() string { return p.version }

// Type returns the platform type.
func (p *PlatformAPI) Type() PlatformType { return p.platform }

// IsKnownPlatform reports whether the platform could be determined.
func (p *PlatformAPI) IsKnownPlatform() bool { return p.platform != PlatformUnknown }

// IsWindows reports whether the browser runs on Windows.
func (p *PlatformAPI) IsWindows() bool { return p.platform == PlatformWindows }

// IsMacOS reports whether the browser runs on macOS.
func (p *PlatformAPI) IsMacOS() bool { return p.platform == PlatformMacOS }

// IsLinux reports whether the browser runs on Linux.
func (p *PlatformAPI) IsLinux() bool { return p.platform == PlatformLinux }

// IsAndroid reports whether the browser runs on Android.
func (p *PlatformAPI) IsAndroid() bool { return p.platform == PlatformAndroid }

// IsIOS reports whether the browser runs on iOS.
func (p *PlatformAPI) IsIOS() bool { return p.platform == PlatformIOS }

// IsDesktop reports whether the platform is Windows, macOS or Linux.
func (p *PlatformAPI) IsDesktop() bool { return p.IsWindows() || p.IsMacOS() || p.IsLinux() }

// IsMobile reports whether the platform is Android or iOS.
func (p *PlatformAPI) IsMobile() bool { return p.IsAndroid() || p.IsIOS() }

// HasSystemArchitecture reports whether the system bitness is known.
func (p *PlatformAPI) HasSystemArchitecture() bool { return p.systemArch != -1 }

// Is32BitSystem reports whether the operating system is 32-bit.
func (p *PlatformAPI) Is32BitSystem() bool { return p.systemArch == 32 }

// Is64BitSystem reports whether the operating system is 64-bit.
func (p *PlatformAPI) Is64BitSystem() bool { return p.systemArch == 64 }

// HasBrowserArchitecture reports whether the browser bitness is known.
func (p *PlatformAPI) HasBrowserArchitecture() bool { return p.browserArch != -1 }

// Is32BitBrowser reports whether the browser is a 32-bit build.
func (p *PlatformAPI) Is32BitBrowser() bool { return p.browserArch == 32 }

// Is64BitBrowser reports whether the browser is a 64-bit build.
func (p *PlatformAPI) Is64BitBrowser() bool { return p.browserArch == 64 }
