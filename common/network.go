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
	"bytes"
	"encoding/json"

	"gopkg.in/guregu/null.v3"

	"github.com/rebel-browser/browser-api/host"
	"github.com/rebel-browser/browser-api/log"
)

// WiFi connection states reported by the host.
const (
	ConnectionStateConnected    = "Connected"
	ConnectionStateConnecting   = "Connecting"
	ConnectionStateNotConnected = "NotConnected"
)

// WiFiStatus describes one WiFi network. Metrics are passed through as the
// host reports them, which may be fractional. Metrics the host does not
// report are -1 and strings it does not report are empty.
type WiFiStatus struct {
	SSID             string  `json:"ssid"`
	BSSID            string  `json:"bssid"`
	ConnectionState  string  `json:"connectionState"`
	RSSI             float64 `json:"rssi"`
	SignalLevel      float64 `json:"signalLevel"`
	MaxSignalLevel   float64 `json:"maxSignalLevel"`
	Frequency        float64 `json:"frequency"`
	LinkSpeed        float64 `json:"linkSpeed"`
	RxMbps           float64 `json:"rxMbps"`
	TxMbps           float64 `json:"txMbps"`
	MaxRxMbps        float64 `json:"maxRxMbps"`
	MaxTxMbps        float64 `json:"maxTxMbps"`
	NoiseMeasurement float64 `json:"noiseMeasurement"`

	Extra Extra `json:"-"`
}

// MarshalJSON encodes s together with its extra fields.
func (s WiFiStatus) MarshalJSON() ([]byte, error) {
	type alias WiFiStatus
	return marshalWithExtra(alias(s), s.Extra)
}

// IsConnected reports whether the connection state is anything other than
// NotConnected.
func (s WiFiStatus) IsConnected() bool {
	return s.ConnectionState != ConnectionStateNotConnected
}

// PartialWiFiStatus is a WiFiStatus as reported by the host, where any field
// may be missing.
type PartialWiFiStatus struct {
	SSID             null.String `json:"ssid"`
	BSSID            null.String `json:"bssid"`
	ConnectionState  null.String `json:"connectionState"`
	RSSI             null.Float  `json:"rssi"`
	SignalLevel      null.Float  `json:"signalLevel"`
	MaxSignalLevel   null.Float  `json:"maxSignalLevel"`
	Frequency        null.Float  `json:"frequency"`
	LinkSpeed        null.Float  `json:"linkSpeed"`
	RxMbps           null.Float  `json:"rxMbps"`
	TxMbps           null.Float  `json:"txMbps"`
	MaxRxMbps        null.Float  `json:"maxRxMbps"`
	MaxTxMbps        null.Float  `json:"maxTxMbps"`
	NoiseMeasurement null.Float  `json:"noiseMeasurement"`

	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes the known fields of a host object and keeps the rest
// in Extra.
func (p *PartialWiFiStatus) UnmarshalJSON(data []byte) error {
	type alias PartialWiFiStatus
	var a alias
	if err := unmarshalWithExtra(data, &a, &a.Extra); err != nil {
		return err
	}
	*p = PartialWiFiStatus(a)
	return nil
}

// NewDefaultWiFiStatus returns the WiFiStatus used for fields the host does
// not report.
func NewDefaultWiFiStatus() WiFiStatus {
	return WiFiStatus{
		RSSI:             -1,
		SignalLevel:      -1,
		MaxSignalLevel:   -1,
		Frequency:        -1,
		LinkSpeed:        -1,
		RxMbps:           -1,
		TxMbps:           -1,
		MaxRxMbps:        -1,
		MaxTxMbps:        -1,
		NoiseMeasurement: -1,
	}
}

// MergeWiFiStatus fills the fields missing from p with the ones from def.
func MergeWiFiStatus(p PartialWiFiStatus, def WiFiStatus) WiFiStatus {
	return WiFiStatus{
		SSID:             stringOr(p.SSID, def.SSID),
		BSSID:            stringOr(p.BSSID, def.BSSID),
		ConnectionState:  stringOr(p.ConnectionState, def.ConnectionState),
		RSSI:             floatOr(p.RSSI, def.RSSI),
		SignalLevel:      floatOr(p.SignalLevel, def.SignalLevel),
		MaxSignalLevel:   floatOr(p.MaxSignalLevel, def.MaxSignalLevel),
		Frequency:        floatOr(p.Frequency, def.Frequency),
		LinkSpeed:        floatOr(p.LinkSpeed, def.LinkSpeed),
		RxMbps:           floatOr(p.RxMbps, def.RxMbps),
		TxMbps:           floatOr(p.TxMbps, def.TxMbps),
		MaxRxMbps:        floatOr(p.MaxRxMbps, def.MaxRxMbps),
		MaxTxMbps:        floatOr(p.MaxTxMbps, def.MaxTxMbps),
		NoiseMeasurement: floatOr(p.NoiseMeasurement, def.NoiseMeasurement),
		Extra:            p.Extra.clone(),
	}
}

// DecodeWiFiStatusList decodes the host's WiFi status, which is null, a
// single object, or a list of objects, into a list.
func DecodeWiFiStatusList(data json.RawMessage) ([]PartialWiFiStatus, error) {
	if isNullJSON(data) {
		return nil, nil
	}

	if trimmed := bytes.TrimSpace(data); trimmed[0] == '[' {
		var list []PartialWiFiStatus
		if err := jsonc.Unmarshal(trimmed, &list); err != nil {
			return nil, err //nolint:wrapcheck
		}
		return list, nil
	}

	var single PartialWiFiStatus
	if err := jsonc.Unmarshal(data, &single); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return []PartialWiFiStatus{single}, nil
}

// firstConnected returns the first status that is connected.
func firstConnected(statuses []WiFiStatus) (WiFiStatus, bool) {
	for _, s := range statuses {
		if s.IsConnected() {
			return s, true
		}
	}
	return WiFiStatus{}, false
}

// wifiStatusObserver is either interested in every network (notifyAll) or
// in the first connected one.
type wifiStatusObserver struct {
	notifyAll bool
	all       func([]WiFiStatus)
	connected func(WiFiStatus)
}

// NetworkAPI exposes the WiFi status of the machine running the browser.
type NetworkAPI struct {
	network           host.Network
	logger            *log.Logger
	defaultWiFiStatus WiFiStatus
	observers         observerRegistry[wifiStatusObserver]
}

// NewNetworkAPI returns the network adapter for h, which may be nil.
func NewNetworkAPI(h host.Handle, logger *log.Logger) *NetworkAPI {
	n := &NetworkAPI{
		logger:            logger,
		defaultWiFiStatus: NewDefaultWiFiStatus(),
	}
	if host.Probe(h).Network {
		n.network = h.Network()
		n.network.SetOnWiFiStatusChanged(n.notifyAboutWiFiStatus)
	}

	return n
}

// HasNetworkAPI reports whether the host has a network namespace.
func (n *NetworkAPI) HasNetworkAPI() bool {
	return n.network != nil
}

// DefaultWiFiStatus returns the status used for missing fields.
func (n *NetworkAPI) DefaultWiFiStatus() WiFiStatus {
	d := n.defaultWiFiStatus
	d.Extra = d.Extra.clone()
	return d
}

// AddWiFiStatusObserver registers fn to receive the first connected network
// whenever the WiFi status changes. fn is called right away if a network is
// already connected. A nil fn registers nothing.
func (n *NetworkAPI) AddWiFiStatusObserver(fn func(WiFiStatus)) func() {
	if n.network == nil || fn == nil {
		return noop
	}

	n.logger.Debugf("Network:addWiFiStatusObserver", "notifyAll:false")

	remove := n.observers.add(wifiStatusObserver{connected: fn})
	if s, ok := firstConnected(n.createWiFiStatusList()); ok {
		fn(s)
	}

	return remove
}

// AddAllWiFiStatusObserver registers fn to receive every known network
// whenever the WiFi status changes. fn is called right away if any network
// is known. The slice passed to fn is shared between observers and must not
// be modified. A nil fn registers nothing.
func (n *NetworkAPI) AddAllWiFiStatusObserver(fn func([]WiFiStatus)) func() {
	if n.network == nil || fn == nil {
		return noop
	}

	n.logger.Debugf("Network:addWiFiStatusObserver", "notifyAll:true")

	remove := n.observers.add(wifiStatusObserver{notifyAll: true, all: fn})
	if statuses := n.createWiFiStatusList(); len(statuses) > 0 {
		fn(statuses)
	}

	return remove
}

// UpdateWiFiStatus asks the host to refresh the WiFi status. Observers are
// notified once the host reports the new status.
func (n *NetworkAPI) UpdateWiFiStatus() {
	if n.network == nil {
		return
	}

	n.logger.Debugf("Network:updateWiFiStatus", "")
	n.network.UpdateWiFiStatus()
}

func (n *NetworkAPI) notifyAboutWiFiStatus() {
	statuses := n.createWiFiStatusList()
	connected, hasConnected := firstConnected(statuses)

	for _, o := range n.observers.snapshot() {
		switch {
		case o.notifyAll:
			o.all(statuses)
		case hasConnected:
			o.connected(connected)
		}
	}
}

func (n *NetworkAPI) createWiFiStatusList() []WiFiStatus {
	partials, err := DecodeWiFiStatusList(n.network.WiFiStatus())
	if err != nil {
		n.logger.Errorf("Network:createWiFiStatusList", "decoding WiFi status: %v", err)
		return []WiFiStatus{}
	}

	statuses := make([]WiFiStatus, 0, len(partials))
	for _, p := range partials {
		statuses = append(statuses, MergeWiFiStatus(p, n.defaultWiFiStatus))
	}

	return statuses
}
