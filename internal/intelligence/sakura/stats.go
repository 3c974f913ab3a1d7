package sakura

import "math"

// Descriptive statistics over float64 samples. Every helper returns 0 for
// inputs too small to define the quantity.

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// populationStd divides by n.
func populationStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// sampleStd divides by n-1.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// zScore is (x-m)/std, or 0 when std is 0.
func zScore(x, m, std float64) float64 {
	if std == 0 {
		return 0
	}
	return (x - m) / std
}

// percentileOfScore is the share of xs less than or equal to score, as a
// percentage in [0,100]. Ties count fully toward the score ("weak" kind).
func percentileOfScore(xs []float64, score float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	n := 0
	for _, x := range xs {
		if x <= score {
			n++
		}
	}
	return float64(n) / float64(len(xs)) * 100
}

// linearFit returns slope and intercept of the least-squares line y = a*x + b.
// ok is false when fewer than two points are given or all x are equal.
func linearFit(xs, ys []float64) (slope, intercept float64, ok bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, false
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, 0, false
	}
	slope = sxy / sxx
	return slope, my - slope*mx, true
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

//Personal.AI order the ending
