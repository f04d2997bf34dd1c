// Package store persists finished runs and community profiles.
package store

import (
	"context"
	"errors"
	"time"

	"EscapeThePaycheck/internal/model"
)

// ErrNotFound is returned when a lookup has no match.
var ErrNotFound = errors.New("not found")

// MinProfileScore is the floor applied whenever a score delta is stored.
const MinProfileScore = 60

// Level thresholds, highest first.
var levels = []struct {
	Name string
	Min  int
}{
	{"Pro", 250},
	{"Intermediate", 130},
	{"Beginner", 20},
}

// LevelFor maps a profile score to its level name.
func LevelFor(score int) string {
	for _, l := range levels {
		if score >= l.Min {
			return l.Name
		}
	}
	return "Novice"
}

// nextProfile applies a score delta. The level follows the raw new score,
// while the stored score is floored at MinProfileScore.
func nextProfile(p model.Profile, delta int, now time.Time) model.Profile {
	score := p.ProfileScore + delta
	p.Level = LevelFor(score)
	p.ProfileScore = max(score, MinProfileScore)
	p.UpdatedAt = now
	return p
}

func newProfile(username string) model.Profile {
	return model.Profile{Username: username, Level: LevelFor(0)}
}

// Store persists history records and profiles.
type Store interface {
	AddHistory(ctx context.Context, rec model.HistoryRecord) error
	// ListHistory returns a user's records, newest first.
	ListHistory(ctx context.Context, username string, limit int) ([]model.HistoryRecord, error)
	// HistoryAfter returns every record inserted after seq, in insertion order.
	HistoryAfter(ctx context.Context, seq int64) ([]model.HistoryRecord, error)
	// TopEscapes returns escaped runs ranked by net worth.
	TopEscapes(ctx context.Context, limit int) ([]model.HistoryRecord, error)
	// GetProfile returns the profile, or a fresh Novice profile if none exists.
	GetProfile(ctx context.Context, username string) (model.Profile, error)
	ApplyScore(ctx context.Context, username string, delta int) (model.Profile, error)
	Close() error
}
