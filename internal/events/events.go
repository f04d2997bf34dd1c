// Package events computes the financial effect of landing on each tile type.
// Handlers mutate the given state and describe what happened; stamping and
// trimming the event log is left to the engine.
package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"EscapeThePaycheck/internal/calculator"
	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/money"
)

// Rules are the tunable constants used by the handlers.
type Rules struct {
	DownsizeTurns int
	BoostRate     decimal.Decimal
	BoostFallback decimal.Decimal
}

// DefaultRules returns the stock game tuning.
func DefaultRules() Rules {
	return Rules{
		DownsizeTurns: 1,
		BoostRate:     decimal.RequireFromString("0.25"),
		BoostFallback: decimal.NewFromInt(60),
	}
}

// Result describes the outcome of one event.
type Result struct {
	Notes   []model.Note
	Card    model.EventCard
	Pending *model.PendingDeal
}

func (r *Result) note(t model.LogType, format string, args ...any) {
	r.Notes = append(r.Notes, model.Note{Message: fmt.Sprintf(format, args...), Type: t})
}

// Passive credits one turn of passive income. It is a no-op at zero.
func Passive(s *model.GameState) Result {
	var r Result
	if !s.PassiveIncome.IsPositive() {
		return r
	}
	s.Cash = s.Cash.Add(s.PassiveIncome)
	r.note(model.LogPassive, "Received %s in passive income.", money.Format(s.PassiveIncome))
	return r
}

// Paycheck pays salary minus expenses, unless a downsize is pending, in which
// case the downsize is consumed and nothing is paid.
func Paycheck(s *model.GameState) Result {
	var r Result
	if s.DownsizedTurns > 0 {
		s.DownsizedTurns--
		r.note(model.LogWarning, "Downsized this month. Salary skipped!")
		r.Card = model.EventCard{Title: "Downsized", Description: "You are still downsized this month. No salary received."}
		return r
	}
	takeHome := s.Salary.Sub(s.Expenses)
	s.Cash = s.Cash.Add(takeHome)
	r.note(model.LogIncome, "Collected salary %s and paid expenses %s. Net %s.",
		money.Format(s.Salary), money.Format(s.Expenses), money.Signed(takeHome))
	r.Card = model.EventCard{
		Title:       "Paycheck Day",
		Description: fmt.Sprintf("Salary %s - Expenses %s = Net %s.", money.Format(s.Salary), money.Format(s.Expenses), money.Signed(takeHome)),
	}
	return r
}

// Doodad spends on a lifestyle item. Cash is floored at zero; any shortfall
// is absorbed rather than carried as debt.
func Doodad(s *model.GameState, tile model.Tile, d model.Doodad) Result {
	var r Result
	s.Cash = calculator.SpendClamped(s.Cash, d.Cost)
	r.note(model.LogExpense, "Paid %s for %s.", money.Format(d.Cost), d.Label)
	r.Card = model.EventCard{Title: tile.Label, Description: fmt.Sprintf("Spent %s on %s. Lesson learned!", money.Format(d.Cost), d.Label)}
	return r
}

// Charity donates when cash allows. Insufficient cash leaves state untouched.
func Charity(s *model.GameState, tile model.Tile, c model.Charity) Result {
	var r Result
	if s.Cash.LessThan(c.Cost) {
		r.note(model.LogNeutral, "Wanted to donate to %s, but funds were too tight.", c.Label)
		r.Card = model.EventCard{Title: "Charity Missed", Description: "You need more cash to contribute this time."}
		return r
	}
	s.Cash = s.Cash.Sub(c.Cost)
	s.CharityTokens++
	s.PassiveIncome = s.PassiveIncome.Add(c.Reward)
	r.note(model.LogSuccess, "Donated %s to %s. Passive income +%s.", money.Format(c.Cost), c.Label, money.Format(c.Reward))
	r.Card = model.EventCard{Title: tile.Label, Description: fmt.Sprintf("Your generosity boosts goodwill! Passive income increased by %s.", money.Format(c.Reward))}
	return r
}

// Downsize arms the salary skip. Repeated downsizes overwrite, never stack.
func Downsize(s *model.GameState, tile model.Tile, rules Rules) Result {
	var r Result
	s.DownsizedTurns = rules.DownsizeTurns
	r.note(model.LogWarning, "Downsized! Your salary will be paused next turn.")
	r.Card = model.EventCard{Title: tile.Label, Description: tile.Description}
	return r
}

// Bonus is an unconditional windfall.
func Bonus(s *model.GameState, tile model.Tile, b model.Bonus) Result {
	var r Result
	s.Cash = s.Cash.Add(b.Amount)
	r.note(model.LogIncome, "Received a %s %s.", money.Format(b.Amount), b.Label)
	r.Card = model.EventCard{Title: tile.Label, Description: fmt.Sprintf("Unexpected %s adds %s to your cash.", strings.ToLower(b.Label), money.Format(b.Amount))}
	return r
}

// Boost grows passive income by the boost rate, with a fallback so that a
// player without passive income still progresses.
func Boost(s *model.GameState, tile model.Tile, rules Rules) Result {
	var r Result
	inc := calculator.Boost(s.PassiveIncome, rules.BoostRate, rules.BoostFallback)
	s.PassiveIncome = s.PassiveIncome.Add(inc)
	r.note(model.LogSuccess, "Investments flourished! Passive income increased by %s.", money.Format(inc))
	r.Card = model.EventCard{Title: tile.Label, Description: tile.Description}
	return r
}

// OfferDeal presents a deal for an accept or pass decision. State is untouched
// until the decision arrives.
func OfferDeal(tile model.Tile, kind model.DealKind, deal model.Deal) Result {
	p := &model.PendingDeal{Tile: tile, Kind: kind, Deal: deal, MaxFinancing: decimal.Zero}
	if kind == model.DealBig && deal.Financeable() {
		p.MaxFinancing = deal.Cost.Mul(deal.DebtShare)
	}
	desc := fmt.Sprintf("%s: cost %s, cashflow +%s, value %s.",
		deal.Name, money.Format(deal.Cost), money.Format(deal.PassiveIncome), money.Format(deal.Value))
	if p.MaxFinancing.IsPositive() {
		desc += fmt.Sprintf(" Bank financing up to %s available.", money.Percent(deal.DebtShare))
	}
	return Result{
		Card:    model.EventCard{Title: tile.Label, Description: desc},
		Pending: p,
	}
}

// AcceptDeal buys the offered deal. A player who can pay in full always does;
// only big deals fall back to financing, and only when cash alone is short.
func AcceptDeal(s *model.GameState, p model.PendingDeal, now time.Time) Result {
	var r Result
	deal := p.Deal
	financed, down := calculator.Financing(deal.Cost, deal.DebtShare, s.Cash, p.Kind == model.DealBig)
	if s.Cash.LessThan(down) {
		r.note(model.LogWarning, "Not enough cash to secure %s.", deal.Name)
		r.Card = model.EventCard{Title: "Deal Missed", Description: fmt.Sprintf("You needed %s cash on hand to secure %s.", money.Format(down), deal.Name)}
		return r
	}

	s.Cash = s.Cash.Sub(down)
	s.Debt = s.Debt.Add(financed)
	s.PassiveIncome = s.PassiveIncome.Add(deal.PassiveIncome)
	s.Assets = append(s.Assets, model.Asset{
		Name:          deal.Name,
		PassiveIncome: deal.PassiveIncome,
		Value:         deal.Value,
		Cost:          deal.Cost,
		Financed:      financed,
		AcquiredAt:    now,
		Type:          p.Kind,
	})
	r.note(model.LogSuccess, "Acquired %s! Passive income +%s.", deal.Name, money.Format(deal.PassiveIncome))
	r.Card = model.EventCard{Title: "Investment Acquired", Description: fmt.Sprintf("%s now pays you %s every turn.", deal.Name, money.Format(deal.PassiveIncome))}
	return r
}

// PassDeal declines the offered deal.
func PassDeal(p model.PendingDeal) Result {
	var r Result
	r.note(model.LogNeutral, "You passed on %s.", p.Deal.Name)
	r.Card = model.EventCard{Title: p.Tile.Label, Description: fmt.Sprintf("You skipped the %s deal.", p.Kind)}
	return r
}
