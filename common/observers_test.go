package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserverRegistryOrder(t *testing.T) {
	t.Parallel()

	var (
		r   observerRegistry[func(int)]
		got []string
	)
	r.add(func(int) { got = append(got, "a") })
	r.add(func(int) { got = append(got, "b") })
	r.add(func(int) { got = append(got, "c") })

	for _, fn := range r.snapshot() {
		fn(0)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestObserverRegistryRemove(t *testing.T) {
	t.Parallel()

	var r observerRegistry[func()]
	r.add(func() {})
	remove := r.add(func() {})
	r.add(func() {})
	assert.Equal(t, 3, r.len())

	remove()
	assert.Equal(t, 2, r.len())

	remove()
	assert.Equal(t, 2, r.len(), "removing twice must not remove another observer")
}

func TestObserverRegistryAddWhileNotifying(t *testing.T) {
	t.Parallel()

	var (
		r     observerRegistry[func()]
		calls int
	)
	r.add(func() {
		calls++
		r.add(func() { calls++ })
	})

	for _, fn := range r.snapshot() {
		fn()
	}
	assert.Equal(t, 1, calls, "observers added during a notification wait for the next one")
	assert.Equal(t, 2, r.len())
}
