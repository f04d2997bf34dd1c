package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"EscapeThePaycheck/internal/model"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAdvance_Wraps(t *testing.T) {
	const n = 16
	for pos := 0; pos < n; pos++ {
		for die := 1; die <= 6; die++ {
			got := Advance(pos, die, n)
			if got != (pos+die)%n {
				t.Fatalf("Advance(%d,%d)=%d", pos, die, got)
			}
			if got < 0 || got >= n {
				t.Fatalf("Advance(%d,%d)=%d out of range", pos, die, got)
			}
		}
	}
}

func TestNetWorth(t *testing.T) {
	assets := []model.Asset{{Value: d(5200)}, {Value: d(650)}}
	got := NetWorth(d(1000), assets, d(2925))
	if !got.Equal(d(3925)) {
		t.Errorf("expected 3925, got %s", got)
	}
}

func TestFinancing(t *testing.T) {
	share := decimal.RequireFromString("0.65")
	tests := []struct {
		name     string
		cost     int64
		cash     int64
		allow    bool
		financed int64
		down     int64
	}{
		{"enough cash pays in full", 4500, 5000, true, 0, 4500},
		{"short cash finances up to share", 4500, 1000, true, 2925, 1575},
		{"financing limited to shortfall", 4500, 4000, true, 500, 4000},
		{"small deals never finance", 900, 100, false, 0, 900},
	}
	for _, tt := range tests {
		financed, down := Financing(d(tt.cost), share, d(tt.cash), tt.allow)
		if !financed.Equal(d(tt.financed)) || !down.Equal(d(tt.down)) {
			t.Errorf("%s: got financed=%s down=%s, want %d/%d", tt.name, financed, down, tt.financed, tt.down)
		}
	}
}

func TestBoost(t *testing.T) {
	rate := decimal.RequireFromString("0.25")
	tests := []struct {
		passive int64
		want    int64
	}{
		{0, 60},
		{1, 60},
		{2, 1},
		{320, 80},
		{330, 83},
	}
	for _, tt := range tests {
		got := Boost(d(tt.passive), rate, d(60))
		if !got.Equal(d(tt.want)) {
			t.Errorf("Boost(%d)=%s, want %d", tt.passive, got, tt.want)
		}
	}
}

func TestSpendClamped(t *testing.T) {
	if got := SpendClamped(d(300), d(520)); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
	if got := SpendClamped(d(1800), d(520)); !got.Equal(d(1280)) {
		t.Errorf("expected 1280, got %s", got)
	}
}

func TestScoreDelta(t *testing.T) {
	tests := []struct {
		netWorth int64
		want     int
	}{
		{-5000, 40},
		{0, 40},
		{32000, 40},
		{40000, 50},
		{80400, 101},
	}
	for _, tt := range tests {
		if got := ScoreDelta(d(tt.netWorth)); got != tt.want {
			t.Errorf("ScoreDelta(%d)=%d, want %d", tt.netWorth, got, tt.want)
		}
	}
}

func TestGoalProgress(t *testing.T) {
	if got := GoalProgress(d(1300), d(2600)); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	if got := GoalProgress(d(3000), d(2600)); got != 100 {
		t.Errorf("expected cap at 100, got %d", got)
	}
	if got := GoalProgress(d(10), d(0)); got != 100 {
		t.Errorf("expected 100 for zero goal, got %d", got)
	}
	if !Escaped(d(2600), GoalIncome(d(2600), d(1))) {
		t.Error("passive equal to goal should escape")
	}
}
