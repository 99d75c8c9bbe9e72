package host

import (
	"gopkg.in/guregu/null.v3"
)

// Capabilities lists the host features available to the adapters. It is
// computed once, when the adapters are constructed.
type Capabilities struct {
	Handle       bool
	Search       bool
	Network      bool
	PlatformInfo bool
	Theme        bool
	// Architecture is true when the host reports both the system and the
	// browser bitness.
	Architecture bool
}

// Probe computes the capabilities of h. h may be nil.
func Probe(h Handle) Capabilities {
	if h == nil {
		return Capabilities{}
	}

	c := Capabilities{
		Handle:  true,
		Search:  h.Search() != nil,
		Network: h.Network() != nil,
		Theme:   h.Theme() != nil,
	}
	if pi := h.PlatformInfo(); pi != nil {
		c.PlatformInfo = true
		_, _, c.Architecture = pi.Architecture()
	}

	return c
}

// Environment is the data the embedding environment (window.navigator and
// window.matchMedia in a page) provides next to the host object.
type Environment struct {
	UserAgent              null.String
	PrefersDarkColorScheme null.Bool
}

// WithUserAgent returns a copy of e reporting ua as the user agent.
func (e Environment) WithUserAgent(ua string) Environment {
	e.UserAgent = null.StringFrom(ua)
	return e
}
