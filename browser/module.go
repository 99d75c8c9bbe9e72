// Package browser exposes the browser API to JavaScript code running in a
// goja runtime.
package browser

import (
	"sync"

	"github.com/dop251/goja"

	"github.com/rebel-browser/browser-api/common"
	"github.com/rebel-browser/browser-api/log"
)

const version = "0.7.0"

// RootModule holds the exports of a browser API for every runtime it is
// installed in.
type RootModule struct {
	api    *common.BrowserAPI
	logger *log.Logger

	mu      sync.Mutex
	exports map[*goja.Runtime]*goja.Object
}

// New returns a pointer to a new RootModule exposing api.
func New(api *common.BrowserAPI, logger *log.Logger) *RootModule {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &RootModule{
		api:     api,
		logger:  logger,
		exports: make(map[*goja.Runtime]*goja.Object),
	}
}

// Exports returns the frozen exports object for rt. The object is created
// on the first call and the same object is returned afterwards.
func (m *RootModule) Exports(rt *goja.Runtime) *goja.Object {
	m.mu.Lock()
	defer m.mu.Unlock()

	if obj, ok := m.exports[rt]; ok {
		return obj
	}

	mr := moduleRuntime{Runtime: rt, logger: m.logger, hasHost: m.api.HasHost()}
	mapped := mapBrowserAPI(mr, m.api)
	mapped["version"] = version
	obj := mr.toFrozenObject(mapped)
	m.exports[rt] = obj

	return obj
}

// Install makes the exports available to the scripts of rt as the global
// variable name.
func (m *RootModule) Install(rt *goja.Runtime, name string) error {
	return rt.Set(name, m.Exports(rt)) //nolint:wrapcheck
}
