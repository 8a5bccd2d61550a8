package prevalence

import (
	"math"

	"github.com/BenLubar/memoize"
	"gonum.org/v1/gonum/stat/distuv"
)

var memoizedZScore = memoize.Memoize(zScore)

// zScore is the two-sided standard normal critical value for a confidence
// level, e.g. 1.959964 for 0.95.
func zScore(level float64) float64 {
	return distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-level)/2)
}

// ZScore is a memoized zScore; the same few levels are requested for every
// group of every calculation.
func ZScore(level float64) float64 {
	return memoizedZScore.(func(float64) float64)(level)
}

// Interval is the uncertainty attached to a proportion.
type Interval struct {
	// SE is the Wald standard error.
	SE float64
	// Lower and Upper bound the Wilson score interval.
	Lower float64
	Upper float64
}

// Wilson returns the Wald standard error and the Wilson score interval for
// count successes out of n at the given confidence level. count need not be
// an integer, which allows pooled counts.
func Wilson(count, n, level float64) Interval {
	if n <= 0 {
		return Interval{SE: math.NaN(), Lower: math.NaN(), Upper: math.NaN()}
	}

	p := clip(count / n)
	z := ZScore(level)
	z2 := z * z

	center := (count + z2/2) / (n + z2)
	width := (z / (n + z2)) * math.Sqrt(p*(1-p)*n+z2/4)

	return Interval{
		SE:    math.Sqrt(p * (1 - p) / n),
		Lower: clip(center - width),
		Upper: clip(center + width),
	}
}

func clip(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
