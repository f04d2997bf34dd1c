package calculator

import "github.com/shopspring/decimal"

// MinVictoryScore is the floor of the profile score awarded for a victory.
const MinVictoryScore = 40

var scoreDivisor = decimal.NewFromInt(800)

// GoalIncome is the passive income needed to escape.
func GoalIncome(salary, multiplier decimal.Decimal) decimal.Decimal {
	return salary.Mul(multiplier)
}

// Escaped reports whether passive income has reached the goal.
func Escaped(passive, goal decimal.Decimal) bool {
	return passive.GreaterThanOrEqual(goal)
}

// GoalProgress returns passive/goal as a whole percentage capped at 100.
func GoalProgress(passive, goal decimal.Decimal) int {
	if !goal.IsPositive() {
		return 100
	}
	pct := passive.Div(goal).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// ScoreDelta is the profile score awarded for escaping with the given net worth.
func ScoreDelta(netWorth decimal.Decimal) int {
	delta := int(netWorth.Div(scoreDivisor).Round(0).IntPart())
	if delta < MinVictoryScore {
		return MinVictoryScore
	}
	return delta
}

// Advance moves a board position forward by steps, wrapping at boardSize.
func Advance(position, steps, boardSize int) int {
	p := (position + steps) % boardSize
	if p < 0 {
		p += boardSize
	}
	return p
}
