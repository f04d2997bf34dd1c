package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameTypeEscape tags history records produced by this game.
const GameTypeEscape = "escape"

// AssetSummary is the persisted form of an Asset.
type AssetSummary struct {
	Name          string          `json:"name"`
	PassiveIncome decimal.Decimal `json:"passiveIncome"`
	Value         decimal.Decimal `json:"value"`
	Cost          decimal.Decimal `json:"cost"`
	Financed      decimal.Decimal `json:"financed"`
	Type          DealKind        `json:"type"`
}

// HistoryRecord is a completed (or abandoned) run.
type HistoryRecord struct {
	ID            string          `json:"id"`
	GameID        string          `json:"gameId"`
	Username      string          `json:"username"`
	GameType      string          `json:"gameType"`
	Career        string          `json:"career"`
	Salary        decimal.Decimal `json:"salary"`
	PassiveIncome decimal.Decimal `json:"passiveIncome"`
	Expenses      decimal.Decimal `json:"expenses"`
	Debt          decimal.Decimal `json:"debt"`
	Cash          decimal.Decimal `json:"cash"`
	NetWorth      decimal.Decimal `json:"netWorth"`
	Turns         int             `json:"turns"`
	Escaped       bool            `json:"escaped"`
	Assets        []AssetSummary  `json:"assets"`
	CompletedAt   time.Time       `json:"completedAt"`
	// Seq is the store's insertion order.
	Seq int64 `json:"-"`
}

// Profile is the community profile a victory feeds into.
type Profile struct {
	Username     string    `json:"username"`
	ProfileScore int       `json:"profileScore"`
	Level        string    `json:"level"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
