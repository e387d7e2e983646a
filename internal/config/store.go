package config

import (
	"context"
	"sync/atomic"

	"github.com/zjrosen/cursorword/internal/pubsub"
)

// Store holds the current Settings. Replace swaps the snapshot atomically
// and notifies subscribers, so readers never see a half-updated value.
type Store struct {
	current atomic.Pointer[Settings]
	broker  *pubsub.Broker[Settings]
}

// NewStore returns a Store holding initial.
func NewStore(initial Settings) *Store {
	s := &Store{broker: pubsub.NewBroker[Settings]()}
	s.current.Store(&initial)
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() Settings {
	return *s.current.Load()
}

// Replace installs next and publishes it as a ReloadedEvent.
func (s *Store) Replace(next Settings) {
	s.current.Store(&next)
	s.broker.Publish(pubsub.ReloadedEvent, next)
}

// Subscribe returns a channel of snapshots published after the call.
func (s *Store) Subscribe(ctx context.Context) <-chan pubsub.Event[Settings] {
	return s.broker.Subscribe(ctx)
}

// Broker exposes the underlying broker for Bubble Tea listeners.
func (s *Store) Broker() *pubsub.Broker[Settings] {
	return s.broker
}

// Close stops delivering snapshots.
func (s *Store) Close() {
	s.broker.Close()
}
