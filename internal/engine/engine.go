// Package engine runs one playthrough: it owns the game state, advances the
// board, resolves tiles and detects the escape condition.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"EscapeThePaycheck/internal/calculator"
	"EscapeThePaycheck/internal/content"
	"EscapeThePaycheck/internal/dice"
	"EscapeThePaycheck/internal/events"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/notifier"
)

var (
	ErrNotStarted        = errors.New("game not started")
	ErrUnknownCareer     = errors.New("unknown career")
	ErrTurnInProgress    = errors.New("turn in progress")
	ErrNoPendingDecision = errors.New("no pending decision")
)

// Phase is the turn-level state.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingDecision Phase = "awaiting_decision"
)

// Status is the playthrough-level state. Escaped is absorbing but still playable.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusEscaped    Status = "escaped"
)

// Rules are the engine's tunable constants.
type Rules struct {
	GoalMultiplier decimal.Decimal
	MaxEventLog    int
	Events         events.Rules
}

// DefaultRules returns the stock game tuning.
func DefaultRules() Rules {
	return Rules{
		GoalMultiplier: decimal.NewFromInt(1),
		MaxEventLog:    6,
		Events:         events.DefaultRules(),
	}
}

// VictoryHook receives the summary of a run the moment it escapes.
type VictoryHook interface {
	OnVictory(ctx context.Context, summary model.VictorySummary)
}

// VictoryFunc adapts a function to VictoryHook.
type VictoryFunc func(ctx context.Context, summary model.VictorySummary)

func (f VictoryFunc) OnVictory(ctx context.Context, summary model.VictorySummary) { f(ctx, summary) }

// TurnResult is what a roll (or the decision completing it) produced.
type TurnResult struct {
	DieValue int                `json:"dieValue"`
	From     int                `json:"from"`
	Position int                `json:"position"`
	Tile     model.Tile         `json:"tile"`
	TurnInfo string             `json:"turnInfo"`
	Entries  []model.LogEntry   `json:"entries"`
	Pending  *model.PendingDeal `json:"pending,omitempty"`
	Victory  bool               `json:"victory"`
	State    model.Snapshot     `json:"state"`

	// VictoryMessage is the end-of-run summary, set on the escaping turn only.
	VictoryMessage string `json:"victoryMessage,omitempty"`
}

type turn struct {
	die  int
	from int
	tile model.Tile
}

// Engine owns a single playthrough. All methods are safe for concurrent use;
// turns are strictly sequential and overlapping requests are rejected.
type Engine struct {
	mu       sync.Mutex
	rules    Rules
	catalog  *content.Catalog
	resolver *events.Resolver
	src      dice.Source
	now      func() time.Time
	newID    func() string
	hook     VictoryHook

	state   *model.GameState
	career  model.Career
	phase   Phase
	busy    bool
	pending *model.PendingDeal
	current turn
	card    model.EventCard
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource injects the randomness source.
func WithSource(src dice.Source) Option { return func(e *Engine) { e.src = src } }

// WithClock injects the clock used for log and asset timestamps.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithVictoryHook registers the hook fired once when the run escapes.
func WithVictoryHook(h VictoryHook) Option { return func(e *Engine) { e.hook = h } }

// WithIDGenerator overrides game ID generation.
func WithIDGenerator(f func() string) Option { return func(e *Engine) { e.newID = f } }

// New creates an engine for the given content. No game is running until Start.
func New(cat *content.Catalog, rules Rules, opts ...Option) *Engine {
	e := &Engine{
		rules:   rules,
		catalog: cat,
		src:     dice.NewSource(),
		now:     time.Now,
		newID:   uuid.NewString,
		phase:   PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules.MaxEventLog <= 0 {
		e.rules.MaxEventLog = DefaultRules().MaxEventLog
	}
	e.resolver = events.NewResolver(e.rules.Events, cat.Pools, e.src)
	return e
}

// Start begins a fresh game for username, replacing any game in progress.
// An empty careerKey picks a career at random.
func (e *Engine) Start(username, careerKey string) (model.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return model.Snapshot{}, ErrTurnInProgress
	}

	var career model.Career
	if careerKey == "" {
		career = dice.Pick(e.src, e.catalog.Careers)
	} else {
		c, ok := e.catalog.Career(careerKey)
		if !ok {
			return model.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownCareer, careerKey)
		}
		career = c
	}

	e.career = career
	e.state = &model.GameState{
		ID:            e.newID(),
		Username:      username,
		CareerKey:     career.Key,
		Cash:          career.StartingCash,
		Salary:        career.Salary,
		Expenses:      career.Expenses,
		Debt:          career.Debt,
		PassiveIncome: career.PassiveIncome,
		StartedAt:     e.now(),
	}
	e.phase = PhaseIdle
	e.pending = nil
	e.current = turn{}
	e.card = model.EventCard{Title: "Ready?", Description: "Roll the dice to start your journey toward financial freedom."}
	e.recalculateLocked()

	log.Printf("[INFO] game %s started: user=%s career=%s", e.state.ID, username, career.Key)
	return e.snapshotLocked(), nil
}

// Roll plays one turn. If the landed tile is a deal, the result carries a
// pending decision and the turn completes on ResolveDeal.
func (e *Engine) Roll(ctx context.Context) (*TurnResult, error) {
	res, victory, err := e.roll()
	if err != nil {
		return nil, err
	}
	e.finish(ctx, victory)
	return res, nil
}

func (e *Engine) roll() (*TurnResult, *model.VictorySummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, nil, ErrNotStarted
	}
	if e.busy || e.phase != PhaseIdle {
		return nil, nil, ErrTurnInProgress
	}
	e.busy = true

	die := dice.RollD6(e.src)
	from := e.state.Position
	e.state.Position = calculator.Advance(from, die, e.catalog.Size())
	e.state.TurnCount++
	tile := e.catalog.Tile(e.state.Position)
	e.current = turn{die: die, from: from, tile: tile}

	var entries []model.LogEntry
	entries = e.applyLocked(events.Passive(e.state), entries)
	out := e.resolver.Resolve(e.state, tile)
	entries = e.applyLocked(out, entries)

	if out.Pending != nil {
		e.phase = PhaseAwaitingDecision
		e.pending = out.Pending
		e.recalculateLocked()
		res := e.resultLocked(entries, nil)
		return res, nil, nil
	}

	res, victory := e.completeLocked(entries)
	return res, victory, nil
}

// ResolveDeal completes a turn suspended on a deal decision.
func (e *Engine) ResolveDeal(ctx context.Context, accept bool) (*TurnResult, error) {
	res, victory, err := e.resolveDeal(accept)
	if err != nil {
		return nil, err
	}
	e.finish(ctx, victory)
	return res, nil
}

func (e *Engine) resolveDeal(accept bool) (*TurnResult, *model.VictorySummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, nil, ErrNotStarted
	}
	if e.busy {
		return nil, nil, ErrTurnInProgress
	}
	if e.phase != PhaseAwaitingDecision || e.pending == nil {
		return nil, nil, ErrNoPendingDecision
	}
	e.busy = true

	p := *e.pending
	var out events.Result
	if accept {
		out = events.AcceptDeal(e.state, p, e.now())
	} else {
		out = events.PassDeal(p)
	}
	e.pending = nil
	e.phase = PhaseIdle

	entries := e.applyLocked(out, nil)
	res, victory := e.completeLocked(entries)
	return res, victory, nil
}

// completeLocked runs the end-of-turn steps: escape check, then net worth.
func (e *Engine) completeLocked(entries []model.LogEntry) (*TurnResult, *model.VictorySummary) {
	var victory *model.VictorySummary
	goal := calculator.GoalIncome(e.state.Salary, e.rules.GoalMultiplier)
	if !e.state.Escaped && calculator.Escaped(e.state.PassiveIncome, goal) {
		e.state.Escaped = true
		entries = append(entries, e.pushLocked(model.Note{
			Message: "Passive income now exceeds salary! You escaped the paycheck!",
			Type:    model.LogVictory,
		}))
		e.recalculateLocked()
		s := e.summaryLocked()
		victory = &s
		log.Printf("[INFO] game %s escaped after %d turns: passive=%s salary=%s",
			e.state.ID, e.state.TurnCount, e.state.PassiveIncome, e.state.Salary)
	}
	e.recalculateLocked()
	return e.resultLocked(entries, victory), victory
}

// finish fires the victory hook outside the lock, then releases the turn.
func (e *Engine) finish(ctx context.Context, victory *model.VictorySummary) {
	if victory != nil && e.hook != nil {
		e.hook.OnVictory(ctx, *victory)
	}
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

func (e *Engine) resultLocked(entries []model.LogEntry, victory *model.VictorySummary) *TurnResult {
	res := &TurnResult{
		DieValue: e.current.die,
		From:     e.current.from,
		Position: e.state.Position,
		Tile:     e.current.tile,
		TurnInfo: fmt.Sprintf("Turn %d • Rolled a %d", e.state.TurnCount, e.current.die),
		Entries:  entries,
		Pending:  clonePending(e.pending),
		Victory:  victory != nil,
		State:    e.snapshotLocked(),
	}
	if victory != nil {
		res.VictoryMessage = notifier.FormatVictoryMessage(*victory)
	}
	return res
}

func (e *Engine) applyLocked(out events.Result, entries []model.LogEntry) []model.LogEntry {
	for _, n := range out.Notes {
		entries = append(entries, e.pushLocked(n))
	}
	if out.Card.Title != "" {
		e.card = out.Card
	}
	return entries
}

func (e *Engine) recalculateLocked() {
	e.state.NetWorth = calculator.NetWorth(e.state.Cash, e.state.Assets, e.state.Debt)
}

// State returns a read-only snapshot of the game.
func (e *Engine) State() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return model.Snapshot{Status: string(StatusNotStarted), Phase: string(PhaseIdle)}
	}
	return e.snapshotLocked()
}

// Summary returns the run summary for the current game, if one is running.
func (e *Engine) Summary() (model.VictorySummary, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return model.VictorySummary{}, false
	}
	return e.summaryLocked(), true
}

func (e *Engine) status() Status {
	switch {
	case e.state == nil:
		return StatusNotStarted
	case e.state.Escaped:
		return StatusEscaped
	}
	return StatusInProgress
}

func (e *Engine) snapshotLocked() model.Snapshot {
	goal := calculator.GoalIncome(e.state.Salary, e.rules.GoalMultiplier)
	progress := calculator.GoalProgress(e.state.PassiveIncome, goal)
	label := "Passive vs Salary"
	if progress >= 100 {
		label = "Goal achieved!"
	}
	return model.Snapshot{
		GameState:     e.state.Clone(),
		Career:        e.career,
		Status:        string(e.status()),
		Phase:         string(e.phase),
		Goal:          goal,
		Progress:      progress,
		ProgressLabel: label,
		RecentEvents:  recent(e.state.EventLog, e.rules.MaxEventLog),
		Card:          e.card,
		Pending:       clonePending(e.pending),
	}
}

func (e *Engine) summaryLocked() model.VictorySummary {
	s := e.state
	return model.VictorySummary{
		GameID:        s.ID,
		Username:      s.Username,
		CareerKey:     s.CareerKey,
		Salary:        s.Salary,
		PassiveIncome: s.PassiveIncome,
		Expenses:      s.Expenses,
		Debt:          s.Debt,
		Cash:          s.Cash,
		NetWorth:      s.NetWorth,
		Turns:         s.TurnCount,
		Escaped:       s.Escaped,
		Assets:        append([]model.Asset(nil), s.Assets...),
	}
}

func clonePending(p *model.PendingDeal) *model.PendingDeal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
