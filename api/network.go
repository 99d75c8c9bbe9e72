package api

import "github.com/rebel-browser/browser-api/common"

// NetworkAPI is the public interface of the WiFi status feature.
type NetworkAPI interface {
	AddAllWiFiStatusObserver(fn func([]common.WiFiStatus)) func()
	AddWiFiStatusObserver(fn func(common.WiFiStatus)) func()
	DefaultWiFiStatus() common.WiFiStatus
	HasNetworkAPI() bool
	UpdateWiFiStatus()
}
