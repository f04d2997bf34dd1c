package model

import "github.com/shopspring/decimal"

// TileType identifies which event handler runs for a board tile.
type TileType string

const (
	TilePaycheck  TileType = "paycheck"
	TileDoodad    TileType = "doodad"
	TileSmallDeal TileType = "smallDeal"
	TileBigDeal   TileType = "bigDeal"
	TileCharity   TileType = "charity"
	TileDownsized TileType = "downsized"
	TileBonus     TileType = "bonus"
	TileBoost     TileType = "boost"
)

// Valid reports whether t is one of the known tile types.
func (t TileType) Valid() bool {
	switch t {
	case TilePaycheck, TileDoodad, TileSmallDeal, TileBigDeal,
		TileCharity, TileDownsized, TileBonus, TileBoost:
		return true
	}
	return false
}

// DealKind returns the deal size for deal tiles and false for everything else.
func (t TileType) DealKind() (DealKind, bool) {
	switch t {
	case TileSmallDeal:
		return DealSmall, true
	case TileBigDeal:
		return DealBig, true
	}
	return "", false
}

// DealKind separates small deals (never financed) from big deals.
type DealKind string

const (
	DealSmall DealKind = "small"
	DealBig   DealKind = "big"
)

// Career is a starting archetype. Chosen once per game.
type Career struct {
	Key           string          `json:"key" yaml:"key"`
	Label         string          `json:"label" yaml:"label"`
	Emoji         string          `json:"emoji" yaml:"emoji"`
	Summary       string          `json:"summary" yaml:"summary"`
	Salary        decimal.Decimal `json:"salary" yaml:"salary"`
	Expenses      decimal.Decimal `json:"expenses" yaml:"expenses"`
	PassiveIncome decimal.Decimal `json:"passiveIncome" yaml:"passiveIncome"`
	Debt          decimal.Decimal `json:"debt" yaml:"debt"`
	StartingCash  decimal.Decimal `json:"startingCash" yaml:"startingCash"`
}

// Tile is one position on the board.
type Tile struct {
	Type        TileType `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Icon        string   `json:"icon" yaml:"icon"`
	Description string   `json:"description" yaml:"description"`
}

// Deal is an investment offer. A zero DebtShare means no bank financing.
type Deal struct {
	Name          string          `json:"name" yaml:"name"`
	Cost          decimal.Decimal `json:"cost" yaml:"cost"`
	PassiveIncome decimal.Decimal `json:"passiveIncome" yaml:"passiveIncome"`
	Value         decimal.Decimal `json:"value" yaml:"value"`
	DebtShare     decimal.Decimal `json:"debtShare" yaml:"debtShare"`
	Summary       string          `json:"summary" yaml:"summary"`
}

// Financeable reports whether the deal offers bank financing.
func (d Deal) Financeable() bool { return d.DebtShare.IsPositive() }

// Doodad is a lifestyle expense.
type Doodad struct {
	Label string          `json:"label" yaml:"label"`
	Cost  decimal.Decimal `json:"cost" yaml:"cost"`
}

// Bonus is an unconditional cash windfall.
type Bonus struct {
	Label  string          `json:"label" yaml:"label"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Charity trades cash for a permanent passive income reward.
type Charity struct {
	Label  string          `json:"label" yaml:"label"`
	Cost   decimal.Decimal `json:"cost" yaml:"cost"`
	Reward decimal.Decimal `json:"reward" yaml:"reward"`
}
