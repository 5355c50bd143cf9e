// Package oneshot provides a single-use, single-value channel.
//
// A oneshot pair carries at most one value from one Sender to one Receiver.
// The sender either delivers a value (Send) or gives up (Close); the receiver
// learns which by the error returned from Recv. Both halves are safe for
// concurrent use, and every operation after the first is rejected rather than
// blocking forever.
//
//	tx, rx := oneshot.New[string]()
//	go func() { _ = tx.Send("alice") }()
//	name, err := rx.Recv(ctx)
package oneshot

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrClosed is returned by Recv when the sender was closed, or dropped,
	// without delivering a value.
	ErrClosed = errors.New("oneshot: sender closed without a value")
	// ErrAlreadySent is returned by Send and Close once the sender is spent.
	ErrAlreadySent = errors.New("oneshot: sender already used")
	// ErrAlreadyReceived is returned by Recv once the receiver is spent.
	ErrAlreadyReceived = errors.New("oneshot: receiver already used")
)

// New returns the two halves of a fresh oneshot channel.
func New[T any]() (*Sender[T], *Receiver[T]) {
	ch := make(chan T, 1)
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}
}

// Sender is the sending half of a oneshot channel.
type Sender[T any] struct {
	ch   chan T
	used atomic.Bool
}

// Send delivers v. It never blocks.
func (s *Sender[T]) Send(v T) error {
	if !s.used.CompareAndSwap(false, true) {
		return ErrAlreadySent
	}
	s.ch <- v
	close(s.ch)
	return nil
}

// Close completes the channel without a value; the receiver gets ErrClosed.
func (s *Sender[T]) Close() error {
	if !s.used.CompareAndSwap(false, true) {
		return ErrAlreadySent
	}
	close(s.ch)
	return nil
}

// Used reports whether Send or Close has been called.
func (s *Sender[T]) Used() bool {
	return s.used.Load()
}

// Receiver is the receiving half of a oneshot channel.
type Receiver[T any] struct {
	ch   chan T
	used atomic.Bool
}

// Recv waits for the value. It returns ErrClosed if the sender closed without
// sending, or ctx.Err() if ctx is done first. Either way the receiver is spent.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	if !r.used.CompareAndSwap(false, true) {
		return zero, ErrAlreadyReceived
	}

	select {
	case v, ok := <-r.ch:
		if !ok {
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
