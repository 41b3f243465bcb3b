package scoring

import "math"

// SimulatedFraudScore evaluates the fixed two-stage arithmetic formula that
// turns a feature vector into a 0..1 fraud confidence. The weights are
// hand-chosen constants, not learned, and the operation order is part of the
// output contract:
//
//	hidden1 = fiveStarRatio*0.8 + recentFiveRatio*1.2 + (1-entropy)*0.6
//	hidden2 = hidden1*0.7 + (0.5-volatility)*0.9
//	result  = clip(sigmoid(hidden2), 0, 1)
//
// High five-star concentration, a recent five-star burst, low entropy, and
// low volatility all push the confidence up.
func SimulatedFraudScore(f FeatureVector) float64 {
	hidden1 := f.FiveStarRatio*0.8 + f.RecentFiveRatio*1.2 + (1-f.Entropy)*0.6
	hidden2 := hidden1*0.7 + (0.5-f.Volatility)*0.9
	return clip(sigmoid(hidden2), 0, 1)
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
