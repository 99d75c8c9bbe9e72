// Package keyboard describes the keyboard state accompanying user actions.
package keyboard

import "strings"

// ModifierKey is a key modifier like ALT, CTRL, or Shift.
type ModifierKey int64

const (
	// ModifierKeyAlt is the ALT key modifier.
	ModifierKeyAlt ModifierKey = 1 << iota
	// ModifierKeyControl is the CTRL key modifier.
	ModifierKeyControl
	// ModifierKeyMeta is the meta key modifier.
	ModifierKeyMeta
	// ModifierKeyShift is the Shift key modifier.
	ModifierKeyShift
)

// Modifiers builds a modifier set from the individual key states reported
// by a DOM mouse or keyboard event.
func Modifiers(alt, ctrl, meta, shift bool) ModifierKey {
	var m ModifierKey
	if alt {
		m |= ModifierKeyAlt
	}
	if ctrl {
		m |= ModifierKeyControl
	}
	if meta {
		m |= ModifierKeyMeta
	}
	if shift {
		m |= ModifierKeyShift
	}
	return m
}

// Has reports whether every modifier in k is pressed in m.
func (m ModifierKey) Has(k ModifierKey) bool {
	return m&k == k
}

// Alt reports whether the ALT key is pressed.
func (m ModifierKey) Alt() bool { return m.Has(ModifierKeyAlt) }

// Control reports whether the CTRL key is pressed.
func (m ModifierKey) Control() bool { return m.Has(ModifierKeyControl) }

// Meta reports whether the meta key is pressed.
func (m ModifierKey) Meta() bool { return m.Has(ModifierKeyMeta) }

// Shift reports whether the Shift key is pressed.
func (m ModifierKey) Shift() bool { return m.Has(ModifierKeyShift) }

func (m ModifierKey) String() string {
	var names []string
	for _, k := range []struct {
		key  ModifierKey
		name string
	}{
		{ModifierKeyAlt, "Alt"},
		{ModifierKeyControl, "Control"},
		{ModifierKeyMeta, "Meta"},
		{ModifierKeyShift, "Shift"},
	} {
		if m.Has(k.key) {
			names = append(names, k.name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "+")
}
