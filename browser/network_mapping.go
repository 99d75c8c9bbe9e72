package browser

import (
	"github.com/dop251/goja"

	"github.com/rebel-browser/browser-api/api"
	"github.com/rebel-browser/browser-api/common"
)

// mapNetwork to the JS module.
func mapNetwork(mr moduleRuntime, n api.NetworkAPI) mapping {
	return mapping{
		"hasNetworkAPI": n.HasNetworkAPI,
		"getDefaultWiFiStatus": func() goja.Value {
			return mr.toJSValue(n.DefaultWiFiStatus())
		},
		"addWiFiStatusObserver": func(observer, notifyAll goja.Value) (func(), error) {
			return mr.addObserver("network.addWiFiStatusObserver", n.HasNetworkAPI(), observer, func(notify func(any)) func() {
				if isTrue(notifyAll) {
					return n.AddAllWiFiStatusObserver(func(s []common.WiFiStatus) { notify(s) })
				}
				return n.AddWiFiStatusObserver(func(s common.WiFiStatus) { notify(s) })
			})
		},
		"updateWiFiStatus": n.UpdateWiFiStatus,
	}
}
