// Package events provides Subject, a minimal synchronous publish/subscribe
// stream used to hand row-change notifications to the application.
package events

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("subject closed")

// Subject fans a value out to every current subscriber. Publish calls the
// subscribers synchronously, in subscription order, on the publishing
// goroutine; a slow subscriber therefore delays the publisher.
type Subject[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
	closed bool
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe registers fn and returns a function that removes it. Subscribing
// to a closed subject is a no-op.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers v to all subscribers.
func (s *Subject[T]) Publish(v T) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	subs := s.subs
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
	return nil
}

// Close drops all subscribers. Idempotent.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = nil
	s.mu.Unlock()
}

// Len returns the number of current subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
