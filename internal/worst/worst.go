// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package worst keeps the k largest items
// seen in a stream.
package worst

// Tracker retains the K largest items offered
// to it according to Less. The zero value
// retains nothing.
type Tracker[T any] struct {
	K    int
	Less func(a, b T) bool

	// min-heap on Less, so the smallest
	// retained item is evicted first
	h []T
}

// New returns a Tracker that retains k items.
func New[T any](k int, less func(a, b T) bool) *Tracker[T] {
	return &Tracker[T]{K: k, Less: less}
}

// Offer considers item for retention.
func (t *Tracker[T]) Offer(item T) {
	if t.K <= 0 {
		return
	}
	if len(t.h) < t.K {
		t.h = append(t.h, item)
		siftUp(t.h, len(t.h)-1, t.Less)
		return
	}
	if !t.Less(t.h[0], item) {
		return
	}
	t.h[0] = item
	siftDown(t.h, 0, t.Less)
}

// Len returns the number of retained items.
func (t *Tracker[T]) Len() int { return len(t.h) }

// Sorted returns the retained items, largest
// first. The Tracker is left empty.
func (t *Tracker[T]) Sorted() []T {
	out := make([]T, len(t.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = t.h[0]
		last := len(t.h) - 1
		t.h[0] = t.h[last]
		t.h = t.h[:last]
		if last > 0 {
			siftDown(t.h, 0, t.Less)
		}
	}
	return out
}

func siftUp[T any](x []T, index int, less func(x, y T) bool) {
	for index > 0 {
		p := (index - 1) / 2
		if less(x[p], x[index]) {
			break
		}
		x[p], x[index] = x[index], x[p]
		index = p
	}
}

func siftDown[T any](x []T, index int, less func(x, y T) bool) {
	for {
		left := (index * 2) + 1
		right := left + 1
		if left >= len(x) {
			break
		}
		c := left
		if len(x) > right && less(x[right], x[left]) {
			c = right
		}
		if less(x[index], x[c]) {
			break
		}
		x[c], x[index] = x[index], x[c]
		index = c
	}
}
