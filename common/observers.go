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
	"sync"
)

// observerRegistry holds subscribers in registration order, which is also
// the order in which they are notified.
type observerRegistry[T any] struct {
	mu     sync.Mutex
	nextID uint64
	items  []registeredObserver[T]
}

type registeredObserver[T any] struct {
	id uint64
	fn T
}

// add appends fn and returns a function removing it again. The returned
// function is idempotent.
func (r *observerRegistry[T]) add(fn T) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.items = append(r.items, registeredObserver[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *observerRegistry[T]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.items {
		if o.id == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return
		}
	}
}

// snapshot returns the subscribers registered at the time of the call.
// Callers invoke them without holding the lock so that a subscriber may
// register or remove subscribers while being notified.
func (r *observerRegistry[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	fns := make([]T, len(r.items))
	for i, o := range r.items {
		fns[i] = o.fn
	}
	return fns
}

func (r *observerRegistry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// noop is returned as the unsubscribe function when nothing was registered.
func noop() {}
