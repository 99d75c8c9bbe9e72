package browser

import (
	"github.com/dop251/goja"

	"github.com/rebel-browser/browser-api/api"
	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/log"
)

// mapping is a type of mapping between our API (api/) and the JS
// module. It acts like a bridge and allows adding wildcard methods
// and customization over our API.
type mapping = map[string]any

// moduleRuntime carries the runtime the mappings are installed in.
//
// Observers are called on the goroutine the host notifies from, which must
// be the goroutine running the runtime.
type moduleRuntime struct {
	*goja.Runtime
	logger  *log.Logger
	hasHost bool
}

var (
	_ api.BrowserAPI      = &common.BrowserAPI{}
	_ api.AutocompleteAPI = &common.AutocompleteAPI{}
	_ api.NetworkAPI      = &common.NetworkAPI{}
	_ api.PlatformAPI     = &common.PlatformAPI{}
	_ api.ThemeAPI        = &common.ThemeAPI{}
	_ api.TilesAPI        = &common.TilesAPI{}
)

// mapBrowserAPI to the JS module.
func mapBrowserAPI(mr moduleRuntime, b *common.BrowserAPI) mapping {
	return mapping{
		"autocomplete":    mapAutocomplete(mr, b.Autocomplete()),
		"network":         mapNetwork(mr, b.Network()),
		"platform":        mapPlatform(b.Platform()),
		"theme":           mapTheme(mr, b.Theme()),
		"tiles":           mapTiles(mr, b.Tiles()),
		"hasHost":         b.HasHost,
		"loadInternalUrl": b.LoadInternalURL,
	}
}

// toFrozenObject turns m into a JS object. Nested mappings become nested
// objects, and every object is frozen.
func (mr moduleRuntime) toFrozenObject(m mapping) *goja.Object {
	obj := mr.NewObject()
	for k, v := range m {
		if nested, ok := v.(mapping); ok {
			v = mr.toFrozenObject(nested)
		}
		if err := obj.Set(k, v); err != nil {
			mr.logger.Errorf("browser:toFrozenObject", "setting %q: %v", k, err)
		}
	}

	freeze, ok := goja.AssertFunction(mr.Get("Object").ToObject(mr.Runtime).Get("freeze"))
	if ok {
		if _, err := freeze(goja.Undefined(), obj); err != nil {
			mr.logger.Errorf("browser:toFrozenObject", "freezing: %v", err)
		}
	}

	return obj
}
