package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogType classifies event log entries for display.
type LogType string

const (
	LogInfo    LogType = "info"
	LogPassive LogType = "passive"
	LogIncome  LogType = "income"
	LogExpense LogType = "expense"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogNeutral LogType = "neutral"
	LogVictory LogType = "victory"
)

// Note is an unstamped log message produced by an event handler.
type Note struct {
	Message string
	Type    LogType
}

// LogEntry is a stamped event log line.
type LogEntry struct {
	Message   string    `json:"message"`
	Type      LogType   `json:"type"`
	Turn      int       `json:"turn"`
	Timestamp time.Time `json:"timestamp"`
}

// EventCard is the headline of the most recent event.
type EventCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Asset is an owned investment. Assets are never sold.
type Asset struct {
	Name          string          `json:"name"`
	PassiveIncome decimal.Decimal `json:"passiveIncome"`
	Value         decimal.Decimal `json:"value"`
	Cost          decimal.Decimal `json:"cost"`
	Financed      decimal.Decimal `json:"financed"`
	AcquiredAt    time.Time       `json:"acquiredAt"`
	Type          DealKind        `json:"type"`
}

// GameState is the financial and positional record of one playthrough.
// NetWorth is derived and recomputed after every change.
type GameState struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	CareerKey      string          `json:"careerKey"`
	Cash           decimal.Decimal `json:"cash"`
	Salary         decimal.Decimal `json:"salary"`
	Expenses       decimal.Decimal `json:"expenses"`
	Debt           decimal.Decimal `json:"debt"`
	PassiveIncome  decimal.Decimal `json:"passiveIncome"`
	NetWorth       decimal.Decimal `json:"netWorth"`
	Position       int             `json:"position"`
	TurnCount      int             `json:"turnCount"`
	DownsizedTurns int             `json:"downsizedTurns"`
	CharityTokens  int             `json:"charityTokens"`
	Escaped        bool            `json:"escaped"`
	Assets         []Asset         `json:"assets"`
	EventLog       []LogEntry      `json:"eventLog"`
	StartedAt      time.Time       `json:"startedAt"`
}

// Clone returns a deep copy of s.
func (s *GameState) Clone() GameState {
	c := *s
	c.Assets = append([]Asset(nil), s.Assets...)
	c.EventLog = append([]LogEntry(nil), s.EventLog...)
	return c
}

// PendingDeal is a deal offer waiting for an accept or pass decision.
type PendingDeal struct {
	Tile         Tile            `json:"tile"`
	Kind         DealKind        `json:"kind"`
	Deal         Deal            `json:"deal"`
	MaxFinancing decimal.Decimal `json:"maxFinancing"`
}

// Snapshot is a read-only view of a game for rendering.
type Snapshot struct {
	GameState
	Career        Career          `json:"career"`
	Status        string          `json:"status"`
	Phase         string          `json:"phase"`
	Goal          decimal.Decimal `json:"goal"`
	Progress      int             `json:"progress"`
	ProgressLabel string          `json:"progressLabel"`
	RecentEvents  []LogEntry      `json:"recentEvents"`
	Card          EventCard       `json:"card"`
	Pending       *PendingDeal    `json:"pending,omitempty"`
}

// VictorySummary is handed to the victory hook and the progress reporter.
type VictorySummary struct {
	GameID        string          `json:"gameId"`
	Username      string          `json:"username"`
	CareerKey     string          `json:"careerKey"`
	Salary        decimal.Decimal `json:"salary"`
	PassiveIncome decimal.Decimal `json:"passiveIncome"`
	Expenses      decimal.Decimal `json:"expenses"`
	Debt          decimal.Decimal `json:"debt"`
	Cash          decimal.Decimal `json:"cash"`
	NetWorth      decimal.Decimal `json:"netWorth"`
	Turns         int             `json:"turns"`
	Escaped       bool            `json:"escaped"`
	Assets        []Asset         `json:"assets"`
}
