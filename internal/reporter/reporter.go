// Package reporter turns finished runs into durable records: local history,
// best-effort remote sync, profile score updates and shared victory posts.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"EscapeThePaycheck/internal/calculator"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/notifier"
)

var (
	// ErrNotEscaped is returned when sharing a run that has not escaped.
	ErrNotEscaped   = errors.New("game has not escaped")
	ErrFeedDisabled = errors.New("feed not configured")
)

// HistoryWriter is the primary history sink.
type HistoryWriter interface {
	AddHistory(ctx context.Context, rec model.HistoryRecord) error
}

// ProfileStore owns profile scores and levels.
type ProfileStore interface {
	ApplyScore(ctx context.Context, username string, delta int) (model.Profile, error)
}

// RemoteSync mirrors history to a remote backend.
type RemoteSync interface {
	SyncHistory(ctx context.Context, rec model.HistoryRecord) error
}

// FeedPoster publishes to the community feed.
type FeedPoster interface {
	CreatePost(ctx context.Context, post model.Post) error
}

const defaultSyncTimeout = 15 * time.Second

// Reporter implements the engine's victory hook. Only the history writer is
// required; nil optional collaborators are skipped. Local writes happen
// before the hook returns; remote sync runs in the background.
type Reporter struct {
	History     HistoryWriter
	Profiles    ProfileStore
	Remote      RemoteSync
	Feed        FeedPoster
	Now         func() time.Time
	NewID       func() string
	SyncTimeout time.Duration

	syncs sync.WaitGroup
}

// New creates a Reporter.
func New(history HistoryWriter, profiles ProfileStore, remote RemoteSync, feed FeedPoster) *Reporter {
	return &Reporter{
		History:     history,
		Profiles:    profiles,
		Remote:      remote,
		Feed:        feed,
		Now:         time.Now,
		NewID:       uuid.NewString,
		SyncTimeout: defaultSyncTimeout,
	}
}

// BuildRecord converts a run summary into a history record.
func (r *Reporter) BuildRecord(s model.VictorySummary) model.HistoryRecord {
	assets := make([]model.AssetSummary, 0, len(s.Assets))
	for _, a := range s.Assets {
		assets = append(assets, model.AssetSummary{
			Name:          a.Name,
			PassiveIncome: a.PassiveIncome,
			Value:         a.Value,
			Cost:          a.Cost,
			Financed:      a.Financed,
			Type:          a.Type,
		})
	}
	return model.HistoryRecord{
		ID:            r.NewID(),
		GameID:        s.GameID,
		Username:      s.Username,
		GameType:      model.GameTypeEscape,
		Career:        s.CareerKey,
		Salary:        s.Salary,
		PassiveIncome: s.PassiveIncome,
		Expenses:      s.Expenses,
		Debt:          s.Debt,
		Cash:          s.Cash,
		NetWorth:      s.NetWorth,
		Turns:         s.Turns,
		Escaped:       s.Escaped,
		Assets:        assets,
		CompletedAt:   r.Now(),
	}
}

// OnVictory records an escaped run and credits the player's profile. The
// victory fires once, so the writes ignore cancellation of ctx.
func (r *Reporter) OnVictory(ctx context.Context, s model.VictorySummary) {
	ctx = context.WithoutCancel(ctx)
	s.Escaped = true
	r.record(ctx, s)

	if r.Profiles == nil {
		return
	}
	delta := calculator.ScoreDelta(s.NetWorth)
	p, err := r.Profiles.ApplyScore(ctx, s.Username, delta)
	if err != nil {
		log.Printf("[WARN] profile update for %s failed: %v", s.Username, err)
		return
	}
	log.Printf("[INFO] profile %s: +%d -> %d (%s)", s.Username, delta, p.ProfileScore, p.Level)
}

// RecordAbandoned records a run replaced or reset before escaping.
func (r *Reporter) RecordAbandoned(ctx context.Context, s model.VictorySummary) {
	r.record(context.WithoutCancel(ctx), s)
}

// Wait blocks until pending remote syncs finish.
func (r *Reporter) Wait() {
	r.syncs.Wait()
}

func (r *Reporter) record(ctx context.Context, s model.VictorySummary) {
	rec := r.BuildRecord(s)
	if err := r.History.AddHistory(ctx, rec); err != nil {
		log.Printf("[ERROR] write history for game %s: %v", s.GameID, err)
	}

	if r.Remote == nil {
		return
	}
	timeout := r.SyncTimeout
	if timeout <= 0 {
		timeout = defaultSyncTimeout
	}
	r.syncs.Add(1)
	go func() {
		defer r.syncs.Done()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := r.Remote.SyncHistory(ctx, rec); err != nil {
			log.Printf("[WARN] remote history sync for game %s failed: %v", s.GameID, err)
		}
	}()
}

// ShareVictory posts the victory to the community feed. Unlike the other
// sinks, failure is returned because the player asked for it.
func (r *Reporter) ShareVictory(ctx context.Context, s model.VictorySummary) error {
	if !s.Escaped {
		return ErrNotEscaped
	}
	if r.Feed == nil {
		return ErrFeedDisabled
	}
	post := model.Post{
		Username: s.Username,
		Content:  notifier.FormatVictoryPost(s),
		Tags:     notifier.VictoryTags,
	}
	if err := r.Feed.CreatePost(ctx, post); err != nil {
		return fmt.Errorf("share victory: %w", err)
	}
	log.Printf("[INFO] victory shared for %s (game %s)", s.Username, s.GameID)
	return nil
}
