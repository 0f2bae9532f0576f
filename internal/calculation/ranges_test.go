package calculation

import (
	"testing"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteppedRange(t *testing.T) {
	tests := []struct {
		name           string
		min, max, step float64
		want           []float64
	}{
		{"income defaults", 10, 30, 5, []float64{10, 15, 20, 25, 30}},
		{"capital defaults", 5, 40, 5, []float64{5, 10, 15, 20, 25, 30, 35, 40}},
		{"remainder dropped", 0, 1, 0.3, []float64{0, 0.3, 0.6, 0.9}},
		{"single value", 7, 7, 2, []float64{7}},
		{"step larger than span", 1, 2, 5, []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SteppedRange(d(tt.min), d(tt.max), d(tt.step))
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.True(t, d(w).Equal(got[i]), "index %d: got %s want %v", i, got[i], w)
			}
			n := rangeLen(domain.ValueRange{Min: d(tt.min), Max: d(tt.max), Step: d(tt.step)})
			assert.True(t, decimal.NewFromInt(int64(len(tt.want))).Equal(n), "rangeLen = %s", n)
		})
	}
}

func TestSteppedRange_Invalid(t *testing.T) {
	_, err := SteppedRange(d(1), d(5), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = SteppedRange(d(1), d(5), d(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = SteppedRange(d(5), d(1), d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestSteppedRange_TooManyValues(t *testing.T) {
	huge, err := decimal.NewFromString("4611686018427387905")
	require.NoError(t, err)

	_, err = SteppedRange(d(1), huge, d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = SteppedRange(d(0), d(MaxRangeValues), d(1))
	assert.ErrorIs(t, err, domain.ErrInvalidParameters, "one past the limit")
}

func TestRangeLen_DoesNotWrap(t *testing.T) {
	huge, err := decimal.NewFromString("4611686018427387905")
	require.NoError(t, err)

	n := rangeLen(domain.ValueRange{Min: d(1), Max: huge, Step: d(1)})
	assert.True(t, huge.Equal(n), "rangeLen = %s", n)
	assert.True(t, rangeLen(domain.ValueRange{Min: d(5), Max: d(1), Step: d(1)}).IsZero())
}
