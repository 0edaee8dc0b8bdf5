package parallel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSequence is returned when an item arrives for a sequence number
	// that was already released.
	ErrInvalidSequence = errors.New("sequence number already released")
	// ErrDuplicateSequence is returned when two items carry the same sequence number.
	ErrDuplicateSequence = errors.New("duplicate sequence number")
)

// OrderedBuffer restores submission order: items are pushed in any order and
// popped strictly by consecutive sequence number.
type OrderedBuffer[T any] struct {
	next       uint64
	pending    map[uint64]T
	maxPending int
}

// NewOrderedBuffer creates a buffer whose first released item has sequence first.
func NewOrderedBuffer[T any](first uint64) *OrderedBuffer[T] {
	return &OrderedBuffer[T]{next: first, pending: make(map[uint64]T)}
}

// Push stores item until every earlier sequence number has been popped.
func (b *OrderedBuffer[T]) Push(seq uint64, item T) error {
	if seq < b.next {
		return fmt.Errorf("%w: %d < %d", ErrInvalidSequence, seq, b.next)
	}
	if _, ok := b.pending[seq]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateSequence, seq)
	}
	b.pending[seq] = item
	b.maxPending = max(b.maxPending, len(b.pending))
	return nil
}

// Pop releases the item for the next sequence number, if it has arrived.
func (b *OrderedBuffer[T]) Pop() (T, bool) {
	item, ok := b.pending[b.next]
	if !ok {
		var zero T
		return zero, false
	}
	delete(b.pending, b.next)
	b.next++
	return item, true
}

// Next returns the sequence number Pop is waiting for
func (b *OrderedBuffer[T]) Next() uint64 {
	return b.next
}

// Pending returns how many items are held back
func (b *OrderedBuffer[T]) Pending() int {
	return len(b.pending)
}

// MaxPending returns the largest number of items held back at once
func (b *OrderedBuffer[T]) MaxPending() int {
	return b.maxPending
}
