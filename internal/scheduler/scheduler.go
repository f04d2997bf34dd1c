package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/notifier"
)

// Sweeper evicts idle game sessions.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// ArchiveRunner exports new history.
type ArchiveRunner interface {
	Run(ctx context.Context) (int, error)
}

// Leaderboard ranks escaped runs.
type Leaderboard interface {
	TopEscapes(ctx context.Context, limit int) ([]model.HistoryRecord, error)
}

// FeedPoster publishes to the community feed.
type FeedPoster interface {
	CreatePost(ctx context.Context, post model.Post) error
}

// DigestSize is the number of runs in the leaderboard digest.
const DigestSize = 5

// DigestAuthor is the username leaderboard digests are posted under.
const DigestAuthor = "escape-the-paycheck"

// Scheduler manages all cron tasks. Nil collaborators disable their task.
type Scheduler struct {
	Cron        *cron.Cron
	Sessions    Sweeper
	Archiver    ArchiveRunner
	Leaderboard Leaderboard
	Feed        FeedPoster
	Ctx         context.Context
	Now         func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sessions Sweeper, archiver ArchiveRunner, board Leaderboard, feed FeedPoster) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Sessions:    sessions,
		Archiver:    archiver,
		Leaderboard: board,
		Feed:        feed,
		Ctx:         ctx,
		Now:         time.Now,
	}
}

// RegisterAll registers the sweep, archive and digest tasks. An empty
// schedule skips its task.
func (s *Scheduler) RegisterAll(sweepCron, archiveCron, digestCron string) error {
	tasks := []struct {
		name    string
		spec    string
		enabled bool
		run     func()
	}{
		{"sweep", sweepCron, s.Sessions != nil, s.sweepTask},
		{"archive", archiveCron, s.Archiver != nil, s.archiveTask},
		{"digest", digestCron, s.Leaderboard != nil && s.Feed != nil, s.digestTask},
	}
	for _, t := range tasks {
		if t.spec == "" || !t.enabled {
			log.Printf("[INFO] %s task disabled", t.name)
			continue
		}
		if _, err := s.Cron.AddFunc(t.spec, t.run); err != nil {
			return fmt.Errorf("register %s task: %w", t.name, err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunArchiveNow executes the archive task immediately (used on shutdown).
func (s *Scheduler) RunArchiveNow() {
	if s.Archiver != nil {
		s.archiveTask()
	}
}

func (s *Scheduler) sweepTask() {
	n := s.Sessions.Sweep(s.Ctx)
	if n > 0 {
		log.Printf("[INFO] session sweep removed %d", n)
	}
}

func (s *Scheduler) archiveTask() {
	log.Println("[INFO] running archive task")
	if _, err := s.Archiver.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] archive history: %v", err)
	}
}

func (s *Scheduler) digestTask() {
	log.Println("[INFO] running leaderboard digest")
	top, err := s.Leaderboard.TopEscapes(s.Ctx, DigestSize)
	if err != nil {
		log.Printf("[ERROR] load leaderboard: %v", err)
		return
	}
	if len(top) == 0 {
		log.Println("[INFO] leaderboard empty, digest skipped")
		return
	}
	post := model.Post{
		Username: DigestAuthor,
		Content:  notifier.FormatLeaderboardDigest(top, s.Now()),
		Tags:     notifier.VictoryTags,
	}
	if err := s.Feed.CreatePost(s.Ctx, post); err != nil {
		log.Printf("[ERROR] post leaderboard digest: %v", err)
	}
}
