package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoid(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "sigmoid of 0", input: 0, expected: 0.5},
		{name: "sigmoid of positive value", input: 1.0, expected: 0.7310585786300049},
		{name: "sigmoid of negative value", input: -1.0, expected: 0.2689414213699951},
		{name: "sigmoid approaches 1 for large positive", input: 10.0, expected: 0.9999546021312976},
		{name: "sigmoid approaches 0 for large negative", input: -10.0, expected: 4.5397868702434395e-05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, sigmoid(tt.input), 1e-10)
		})
	}
}

func TestSimulatedFraudScore(t *testing.T) {
	tests := []struct {
		name     string
		features FeatureVector
		expected float64
	}{
		{
			// hidden1 = 0.8 + 1.2 + 0.6 = 2.6; hidden2 = 1.82 + 0.45 = 2.27
			name:     "worst case pattern pushes confidence high",
			features: FeatureVector{FiveStarRatio: 1, RecentFiveRatio: 1, Entropy: 0, Volatility: 0},
			expected: 0.90636,
		},
		{
			// hidden1 = 0.6; hidden2 = 0.42 + 0.45 = 0.87
			name:     "zero vector lands at the formula's base point",
			features: FeatureVector{},
			expected: 0.70475,
		},
		{
			// hidden1 = 0.4 + 0.6 + 0 = 1.0; hidden2 = 0.7 - 1.35 = -0.65
			name:     "high entropy and volatility pull confidence down",
			features: FeatureVector{FiveStarRatio: 0.5, RecentFiveRatio: 0.5, Entropy: 1, Volatility: 2},
			expected: 0.34298,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SimulatedFraudScore(tt.features), 1e-4)
		})
	}
}

func TestSimulatedFraudScoreRange(t *testing.T) {
	cases := []FeatureVector{
		{FiveStarRatio: 1, RecentFiveRatio: 1, Entropy: 0, Volatility: 0},
		{FiveStarRatio: 0, RecentFiveRatio: 0, Entropy: 1, Volatility: 2},
		{FiveStarRatio: 0.33, RecentFiveRatio: 0.9, Entropy: 0.5, Volatility: 1.2},
	}

	for _, f := range cases {
		got := SimulatedFraudScore(f)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestSimulatedFraudScoreDeterministic(t *testing.T) {
	f := FeatureVector{FiveStarRatio: 0.7, RecentFiveRatio: 0.8, Entropy: 0.2, Volatility: 0.5}
	assert.Equal(t, SimulatedFraudScore(f), SimulatedFraudScore(f))
}

func TestClip(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo       float64
		hi       float64
		expected float64
	}{
		{name: "clips below lower bound", value: -5.0, lo: 0, hi: 1, expected: 0},
		{name: "clips above upper bound", value: 5.0, lo: 0, hi: 1, expected: 1},
		{name: "preserves value within bounds", value: 0.5, lo: 0, hi: 1, expected: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clip(tt.value, tt.lo, tt.hi))
		})
	}
}
