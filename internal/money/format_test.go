package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"650", "$650"},
		{"1234", "$1,234"},
		{"1234567.6", "$1,234,568"},
		{"-300", "-$300"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "+$1,100", Signed(decimal.NewFromInt(1100)))
	assert.Equal(t, "-$300", Signed(decimal.NewFromInt(-300)))
	assert.Equal(t, "+$0", Signed(decimal.Zero))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "65%", Percent(decimal.RequireFromString("0.65")))
}
