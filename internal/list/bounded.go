package list

import "iter"

// MaxCount is the default capacity of a Bounded list.
const MaxCount = 1024

// Bounded is an ordered sequence with a fixed maximum length.
//
// Bounded is not safe for concurrent use.
type Bounded[T comparable] struct {
	items []T
	limit int
}

// New creates an empty list that holds at most limit items.
// A non-positive limit selects MaxCount.
func New[T comparable](limit int) *Bounded[T] {
	if limit <= 0 {
		limit = MaxCount
	}
	return &Bounded[T]{limit: limit}
}

// Add appends item. It returns false when the list is full; the item is
// not stored in that case.
func (l *Bounded[T]) Add(item T) bool {
	if len(l.items) >= l.limit {
		return false
	}
	l.items = append(l.items, item)
	return true
}

// At returns the item at index i.
func (l *Bounded[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// TakeAt removes the item at index i and shifts every later item down by one.
func (l *Bounded[T]) TakeAt(i int) (T, bool) {
	item, ok := l.At(i)
	if !ok {
		return item, false
	}
	copy(l.items[i:], l.items[i+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return item, true
}

// Take removes the first item equal to item.
func (l *Bounded[T]) Take(item T) (T, bool) {
	for i, it := range l.items {
		if it == item {
			return l.TakeAt(i)
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of stored items.
func (l *Bounded[T]) Len() int { return len(l.items) }

// Cap returns the maximum number of items.
func (l *Bounded[T]) Cap() int { return l.limit }

// All iterates over the items in insertion order.
func (l *Bounded[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, it := range l.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// Clear removes every item.
func (l *Bounded[T]) Clear() {
	clear(l.items)
	l.items = l.items[:0]
}
