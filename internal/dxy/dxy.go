// Package dxy approximates the trade-weighted dollar index from a fixed
// basket of cross rates. The weights and calibration constant are the
// published index's frozen parameters, not runtime-derived; the result is a
// reference approximation, bounded by the fixed basket rather than the
// index's proprietary source.
package dxy

import (
	"math"

	"macro-snapshot/internal/domain"
)

const calibration = 50.14348112

// Basket exponents applied to foreign-per-USD rates. The published formula
// quotes EUR and GBP in the opposite direction with negative exponents;
// holding every rate foreign-per-USD folds those inversions into the sign,
// so all exponents here are positive and no runtime inversion exists.
var weights = []struct {
	code string
	exp  float64
}{
	{"EUR", 0.576},
	{"JPY", 0.136},
	{"GBP", 0.119},
	{"CAD", 0.091},
	{"SEK", 0.042},
	{"CHF", 0.036},
}

// Compute derives the index level from a full basket, rounded to two
// decimal places. Any missing or non-positive basket member yields absence.
func Compute(basket domain.FxBasket) (domain.IndexValue, bool) {
	value := calibration
	for _, w := range weights {
		rate, ok := basket.Rates[w.code]
		if !ok || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return domain.IndexValue{}, false
		}
		value *= math.Pow(rate, w.exp)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.IndexValue{}, false
	}
	return domain.IndexValue{
		Value: math.Round(value*100) / 100,
		Date:  basket.AsOf,
	}, true
}
