package content

import (
	"github.com/shopspring/decimal"

	"EscapeThePaycheck/internal/model"
)

func usd(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func share(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaultCareers() []model.Career {
	return []model.Career{
		{Key: "developer", Label: "Developer", Emoji: "💻",
			Summary: "Low salary, low expenses. Great for building steady assets.",
			Salary:  usd(2600), Expenses: usd(1500), Debt: usd(2200), StartingCash: usd(1800)},
		{Key: "salesperson", Label: "Salesperson", Emoji: "🧑‍💼",
			Summary: "Commission ups and downs with lingering credit debt.",
			Salary:  usd(3200), Expenses: usd(2300), Debt: usd(4800), StartingCash: usd(1400)},
		{Key: "nurse", Label: "Nurse", Emoji: "🩺",
			Summary: "Stable income and balanced lifestyle expenses.",
			Salary:  usd(3000), Expenses: usd(1900), Debt: usd(2600), StartingCash: usd(2000)},
		{Key: "architect", Label: "Architect", Emoji: "📐",
			Summary: "High salary, elevated lifestyle and loans to manage.",
			Salary:  usd(4200), Expenses: usd(3200), Debt: usd(7200), StartingCash: usd(2500)},
	}
}

func defaultBoard() []model.Tile {
	return []model.Tile{
		{Type: model.TilePaycheck, Label: "Paycheck", Icon: "💵", Description: "Collect your salary and pay monthly expenses."},
		{Type: model.TileDoodad, Label: "Doodad", Icon: "💸", Description: "Lifestyle splurge hits your wallet."},
		{Type: model.TileSmallDeal, Label: "Small Deal", Icon: "📈", Description: "Opportunity to buy a cash-flowing asset."},
		{Type: model.TileCharity, Label: "Charity", Icon: "🤲", Description: "Give to charity, gain a karma boost."},
		{Type: model.TilePaycheck, Label: "Paycheck", Icon: "💵", Description: "Another payday. Use it wisely!"},
		{Type: model.TileBigDeal, Label: "Big Deal", Icon: "🏢", Description: "Chance to acquire a major investment."},
		{Type: model.TileDoodad, Label: "Doodad", Icon: "💳", Description: "Unexpected expense strikes."},
		{Type: model.TileBonus, Label: "Windfall", Icon: "🎁", Description: "Side hustle paid off with a surprise bonus."},
		{Type: model.TilePaycheck, Label: "Paycheck", Icon: "💵", Description: "Salary day plus your passive income."},
		{Type: model.TileSmallDeal, Label: "Small Deal", Icon: "🏠", Description: "Condo, index fund, or vending route?"},
		{Type: model.TileDownsized, Label: "Downsized", Icon: "⚠️", Description: "Lose your salary for a turn."},
		{Type: model.TileCharity, Label: "Charity", Icon: "❤️", Description: "Give generously to unlock future perks."},
		{Type: model.TilePaycheck, Label: "Paycheck", Icon: "💵", Description: "Keep stacking cashflow."},
		{Type: model.TileBigDeal, Label: "Big Deal", Icon: "🧱", Description: "Multi-family real estate or franchise offer."},
		{Type: model.TileDoodad, Label: "Doodad", Icon: "🛍️", Description: "Fun purchase that doesn’t pay you back."},
		{Type: model.TileBoost, Label: "Passive Boost", Icon: "⚡", Description: "Your investments outperform this month!"},
	}
}

func defaultPools() Pools {
	return Pools{
		SmallDeals: []model.Deal{
			{Name: "Index Fund ETF", Cost: usd(650), PassiveIncome: usd(35), Value: usd(650), Summary: "Stable long-term growth with quarterly dividends."},
			{Name: "Local Food Cart", Cost: usd(900), PassiveIncome: usd(65), Value: usd(950), Summary: "Managed by a partner, you collect profits."},
			{Name: "Peer Lending Pool", Cost: usd(400), PassiveIncome: usd(28), Value: usd(400), Summary: "Diversified loans pay you monthly interest."},
			{Name: "Solar Mini-Project", Cost: usd(750), PassiveIncome: usd(55), Value: usd(820), Summary: "Sell energy back to the grid through subsidies."},
			{Name: "REIT Fractional Share", Cost: usd(500), PassiveIncome: usd(40), Value: usd(520), Summary: "Commercial real estate distributions."},
		},
		BigDeals: []model.Deal{
			{Name: "4-Plex Rental", Cost: usd(4500), PassiveIncome: usd(320), Value: usd(5200), DebtShare: share("0.65"), Summary: "Leverage bank financing, collect rent after costs."},
			{Name: "Eco Franchise", Cost: usd(6200), PassiveIncome: usd(410), Value: usd(6900), DebtShare: share("0.5"), Summary: "Hire a manager, share profits from sustainable goods."},
			{Name: "Logistics Startup", Cost: usd(5400), PassiveIncome: usd(370), Value: usd(6000), DebtShare: share("0.55"), Summary: "Invest for equity and distribution rights."},
			{Name: "Mobile App Venture", Cost: usd(3200), PassiveIncome: usd(260), Value: usd(3800), DebtShare: share("0.35"), Summary: "Royalties roll in from subscription upgrades."},
			{Name: "Co-Working Space", Cost: usd(7000), PassiveIncome: usd(480), Value: usd(7700), DebtShare: share("0.6"), Summary: "Shared ownership with ongoing membership fees."},
		},
		Doodads: []model.Doodad{
			{Label: "Concert Tour Tickets", Cost: usd(350)},
			{Label: "Luxury Weekend Getaway", Cost: usd(520)},
			{Label: "Gadget Upgrade Frenzy", Cost: usd(450)},
			{Label: "Car Repair Surprise", Cost: usd(390)},
			{Label: "Designer Wardrobe Refresh", Cost: usd(610)},
			{Label: "Home Decor Glow Up", Cost: usd(280)},
		},
		Bonuses: []model.Bonus{
			{Label: "Consulting Windfall", Amount: usd(600)},
			{Label: "Referral Bonus", Amount: usd(450)},
			{Label: "Dividend Surprise", Amount: usd(520)},
			{Label: "Selling Old Gear", Amount: usd(380)},
		},
		Charities: []model.Charity{
			{Label: "Local STEM Camp", Cost: usd(200), Reward: usd(30)},
			{Label: "Financial Literacy Class", Cost: usd(150), Reward: usd(40)},
			{Label: "Community Garden", Cost: usd(250), Reward: usd(45)},
			{Label: "Scholarship Fund", Cost: usd(300), Reward: usd(55)},
		},
	}
}
