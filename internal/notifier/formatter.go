package notifier

import (
	"fmt"
	"strings"
	"time"

	"EscapeThePaycheck/internal/model"
	"EscapeThePaycheck/internal/money"
)

// VictoryTags are attached to every shared victory post.
var VictoryTags = []string{"#escapeThePaycheck", "#financialFreedom"}

// FormatVictoryPost formats the community post for an escaped run.
func FormatVictoryPost(s model.VictorySummary) string {
	return fmt.Sprintf("🚀 I just escaped the paycheck trap in Escape the Paycheck! Passive income $%s vs salary $%s. Net worth now $%s. #escapeThePaycheck #EcoVest",
		s.PassiveIncome.StringFixed(0), s.Salary.StringFixed(0), s.NetWorth.StringFixed(0))
}

// FormatVictoryMessage formats the end-of-run summary shown to the player.
func FormatVictoryMessage(s model.VictorySummary) string {
	var b strings.Builder
	b.WriteString("🎉 You escaped the paycheck!\n\n")
	b.WriteString(fmt.Sprintf("Career: %s\n", s.CareerKey))
	b.WriteString(fmt.Sprintf("Turns: %d\n", s.Turns))
	b.WriteString(fmt.Sprintf("Passive income: %s vs salary %s\n", money.Format(s.PassiveIncome), money.Format(s.Salary)))
	b.WriteString(fmt.Sprintf("Net worth: %s\n", money.Format(s.NetWorth)))
	if len(s.Assets) > 0 {
		b.WriteString(fmt.Sprintf("Assets owned: %d\n", len(s.Assets)))
	}
	return b.String()
}

// FormatLeaderboardDigest formats the top escaped runs for the feed.
func FormatLeaderboardDigest(top []model.HistoryRecord, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 Escape the Paycheck leaderboard | %s\n\n", now.Format("2006-01-02")))
	if len(top) == 0 {
		b.WriteString("Nobody has escaped yet. Be the first!")
		return b.String()
	}
	for i, rec := range top {
		b.WriteString(fmt.Sprintf("%d. %s (%s): net worth %s in %d turns\n",
			i+1, rec.Username, rec.Career, money.Format(rec.NetWorth), rec.Turns))
	}
	return strings.TrimRight(b.String(), "\n")
}
