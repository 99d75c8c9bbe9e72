package browser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"

	"github.com/rebel-browser/browser-api/api"
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/host/hosttest"
	"github.com/rebel-browser/browser-api/log"
)

// customMappings is a list of custom mappings for our module API.
// Some of them are getters named after their JS counterparts, such as
// theme.defaultColors to getDefaultColors; and others are not exposed.
func customMappings() map[string]string {
	return map[string]string{
		// renamed
		"BrowserAPI.loadInternalURL":          "loadInternalUrl",
		"NetworkAPI.addAllWiFiStatusObserver": "addWiFiStatusObserver",
		"NetworkAPI.defaultWiFiStatus":        "getDefaultWiFiStatus",
		"ThemeAPI.colors":                     "getColors",
		"ThemeAPI.defaultBackground":          "getDefaultBackground",
		"ThemeAPI.defaultColors":              "getDefaultColors",
		"ThemeAPI.state":                      "getState",
		// internal methods
		"PlatformAPI.type": "",
	}
}

// TestMappings tests that all the methods of the API (api/) are
// to the module. This is to ensure that we don't forget to map
// a new method to the module.
func TestMappings(t *testing.T) {
	t.Parallel()

	type test struct {
		apiInterface any
		mapp         func() mapping
	}

	var (
		h  = hosttest.New()
		b  = common.NewBrowserAPI(h, host.Environment{}, nil)
		mr = moduleRuntime{Runtime: goja.New(), logger: log.NewNullLogger()}

		customMappings = customMappings()
	)

	// testMapping tests that all the methods of an API are mapped
	// to the module. Nested objects are tested on their own.
	testMapping := func(t *testing.T, tt test) {
		t.Helper()

		var (
			typ    = reflect.TypeOf(tt.apiInterface).Elem()
			mapped = tt.mapp()
			tested = make(map[string]bool)
		)
		for i := 0; i < typ.NumMethod(); i++ {
			method := typ.Method(i)
			require.NotNil(t, method)

			// goja uses methods that starts with lowercase.
			// so we need to convert the first letter to lowercase.
			m := toFirstLetterLower(method.Name)

			cm, cmok := isCustomMapping(customMappings, typ.Name(), m)
			// if the method is a custom mapping, it should not be
			// mapped to the module under its own name.
			if _, ok := mapped[m]; cmok && ok {
				t.Errorf("method %q should not be mapped", m)
			}
			// a custom mapping with an empty string means that
			// the method should not exist on the API.
			if cmok && cm == "" {
				continue
			}
			if cmok {
				m = cm
			}
			if _, ok := mapped[m]; !ok {
				t.Errorf("method %q not found", m)
			}
			// to detect if a method is redundantly mapped.
			tested[m] = true
		}
		// detect redundant mappings.
		for m, v := range mapped {
			if _, ok := v.(mapping); ok {
				continue
			}
			if !tested[m] {
				t.Errorf("method %q is redundant", m)
			}
		}
	}

	for name, tt := range map[string]test{
		"browser": {
			apiInterface: (*api.BrowserAPI)(nil),
			mapp: func() mapping {
				return mapBrowserAPI(mr, b)
			},
		},
		"autocomplete": {
			apiInterface: (*api.AutocompleteAPI)(nil),
			mapp: func() mapping {
				return mapAutocomplete(mr, b.Autocomplete())
			},
		},
		"network": {
			apiInterface: (*api.NetworkAPI)(nil),
			mapp: func() mapping {
				return mapNetwork(mr, b.Network())
			},
		},
		"platform": {
			apiInterface: (*api.PlatformAPI)(nil),
			mapp: func() mapping {
				return mapPlatform(b.Platform())
			},
		},
		"theme": {
			apiInterface: (*api.ThemeAPI)(nil),
			mapp: func() mapping {
				return mapTheme(mr, b.Theme())
			},
		},
		"tiles": {
			apiInterface: (*api.TilesAPI)(nil),
			mapp: func() mapping {
				return mapTiles(mr, b.Tiles())
			},
		},
	} {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			testMapping(t, tt)
		})
	}
}

// toFirstLetterLower converts the first letter of the string to lower case.
func toFirstLetterLower(s string) string {
	// Special cases.
	// Instead of loading up an acronyms list, just do this.
	// Good enough for our purposes.
	special := map[string]string{
		"ID":  "id",
		"URL": "url",
	}
	if v, ok := special[s]; ok {
		return v
	}
	if s == "" {
		return ""
	}

	return strings.ToLower(s[:1]) + s[1:]
}

// isCustomMapping returns true if the method is a custom mapping
// and returns the name of the method to be called instead of the
// original one.
func isCustomMapping(customMappings map[string]string, typ, method string) (string, bool) {
	name := typ + "." + method

	if s, ok := customMappings[name]; ok {
		return s, ok
	}

	return "", false
}
