package lakh

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.345", "₹12.35L"},
		{"0", "₹0.00L"},
		{"-3.5", "-₹3.50L"},
		{"-0.001", "₹0.00L"},
		{"150", "₹150.00L"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Format())
			assert.Equal(t, tt.want, Format(a.Decimal))
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("ten lakh")
	assert.Error(t, err)
}

func TestRound2AndFloat2(t *testing.T) {
	d := decimal.RequireFromString("33.47392")
	assert.Equal(t, "33.47", Round2(d).String())
	assert.Equal(t, 33.47, Float2(d))
	assert.Equal(t, -1.21, Float2(decimal.RequireFromString("-1.2149")))
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "1234500", New(12.345).Rupees().String())
	assert.Equal(t, "12.35", New(12.345).Round().String())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "66.67%", Percent(decimal.NewFromInt(200).Div(decimal.NewFromInt(3))))
}
