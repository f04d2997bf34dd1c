package calculator

import (
	"github.com/shopspring/decimal"

	"EscapeThePaycheck/internal/model"
)

// NetWorth returns cash plus the value of all assets minus debt.
func NetWorth(cash decimal.Decimal, assets []model.Asset, debt decimal.Decimal) decimal.Decimal {
	total := cash
	for _, a := range assets {
		total = total.Add(a.Value)
	}
	return total.Sub(debt)
}

// Financing splits a deal cost into the financed part and the cash down payment.
// Financing is only used when cash alone cannot cover the cost and the deal allows it.
func Financing(cost, debtShare, cash decimal.Decimal, allowFinancing bool) (financed, downPayment decimal.Decimal) {
	if cash.GreaterThanOrEqual(cost) || !allowFinancing || !debtShare.IsPositive() {
		return decimal.Zero, cost
	}
	financed = decimal.Min(cost.Mul(debtShare), cost.Sub(cash))
	return financed, cost.Sub(financed)
}

// Boost returns the passive income increase for a boost tile: rate*passive
// rounded to whole dollars, or fallback when that rounds to zero.
func Boost(passive, rate, fallback decimal.Decimal) decimal.Decimal {
	inc := passive.Mul(rate).Round(0)
	if inc.IsZero() {
		return fallback
	}
	return inc
}

// SpendClamped subtracts cost from cash without going below zero.
func SpendClamped(cash, cost decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, cash.Sub(cost))
}
