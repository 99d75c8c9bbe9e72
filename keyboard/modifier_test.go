package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifiers(t *testing.T) {
	t.Parallel()

	m := Modifiers(true, false, true, false)
	assert.True(t, m.Alt())
	assert.False(t, m.Control())
	assert.True(t, m.Meta())
	assert.False(t, m.Shift())
	assert.True(t, m.Has(ModifierKeyAlt|ModifierKeyMeta))
	assert.False(t, m.Has(ModifierKeyAlt|ModifierKeyShift))
	assert.Equal(t, "Alt+Meta", m.String())

	assert.Equal(t, ModifierKey(0), Modifiers(false, false, false, false))
	assert.Equal(t, "None", ModifierKey(0).String())
	assert.Equal(t, "Alt+Control+Meta+Shift", Modifiers(true, true, true, true).String())
}
