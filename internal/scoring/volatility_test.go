package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

func TestVolatility(t *testing.T) {
	tests := []struct {
		name     string
		scores   []int
		expected float64
	}{
		{
			name:     "identical ratings have zero volatility",
			scores:   []int{3, 3, 3, 3},
			expected: 0,
		},
		{
			name:     "extreme swing",
			scores:   []int{1, 5},
			expected: 2.0, // population stddev of {1,5}
		},
		{
			name:     "uniform spread",
			scores:   []int{1, 2, 3, 4, 5},
			expected: math.Sqrt(2.0), // population variance of 1..5 is 2
		},
		{
			name:     "single rating",
			scores:   []int{4},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol, err := Volatility(businessWithScores("b", tt.scores...))
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, vol, 1e-9)
		})
	}
}

func TestVolatilityInsufficientData(t *testing.T) {
	_, err := Volatility(types.Business{Name: "empty"})
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientData(err))
}
