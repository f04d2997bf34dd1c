// Package session keeps one running game per player.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"EscapeThePaycheck/internal/engine"
	"EscapeThePaycheck/internal/model"
)

// ErrNoGame is returned when the player has no running game.
var ErrNoGame = errors.New("no game in progress")

// Factory builds a fresh engine for a new playthrough.
type Factory func() *engine.Engine

// Abandoner records runs that end without escaping.
type Abandoner interface {
	RecordAbandoned(ctx context.Context, summary model.VictorySummary)
}

type session struct {
	engine     *engine.Engine
	lastActive time.Time
}

// Registry maps usernames to their current engine. Idle sessions are evicted
// by Sweep after the configured TTL; a TTL of zero disables eviction.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  Factory
	abandon  Abandoner
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a Registry. abandon may be nil.
func NewRegistry(factory Factory, abandon Abandoner, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*session),
		factory:  factory,
		abandon:  abandon,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start begins a new game for username, replacing (and recording) any
// unfinished one.
func (r *Registry) Start(ctx context.Context, username, careerKey string) (model.Snapshot, error) {
	eng := r.factory()
	snap, err := eng.Start(username, careerKey)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("start game: %w", err)
	}

	r.mu.Lock()
	prev := r.sessions[username]
	r.sessions[username] = &session{engine: eng, lastActive: r.now()}
	r.mu.Unlock()

	if prev != nil {
		r.retire(ctx, prev.engine)
	}
	return snap, nil
}

// Get returns the player's engine and marks the session active.
func (r *Registry) Get(username string) (*engine.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[username]
	if !ok {
		return nil, ErrNoGame
	}
	s.lastActive = r.now()
	return s.engine, nil
}

// Reset ends the player's game.
func (r *Registry) Reset(ctx context.Context, username string) error {
	r.mu.Lock()
	s, ok := r.sessions[username]
	delete(r.sessions, username)
	r.mu.Unlock()

	if !ok {
		return ErrNoGame
	}
	r.retire(ctx, s.engine)
	return nil
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep(ctx context.Context) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	var idle []*engine.Engine
	r.mu.Lock()
	for user, s := range r.sessions {
		if s.lastActive.Before(cutoff) {
			idle = append(idle, s.engine)
			delete(r.sessions, user)
		}
	}
	r.mu.Unlock()

	for _, eng := range idle {
		r.retire(ctx, eng)
	}
	if len(idle) > 0 {
		log.Printf("[INFO] evicted %d idle sessions", len(idle))
	}
	return len(idle)
}

// Active is the number of live sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// retire records a run that ends without escaping. Escaped runs were already
// recorded by the victory hook; runs with no turns are not worth keeping.
func (r *Registry) retire(ctx context.Context, eng *engine.Engine) {
	summary, ok := eng.Summary()
	if !ok || summary.Escaped || summary.Turns == 0 || r.abandon == nil {
		return
	}
	r.abandon.RecordAbandoned(ctx, summary)
}
