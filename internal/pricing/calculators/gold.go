package calculators

import (
	"errors"
	"fmt"
)

// ErrUnknownKarat is returned for karat strings outside the purity table.
// Callers must normalize via NormalizeKarat first.
var ErrUnknownKarat = errors.New("unknown karat")

// KaratRate derives the price per gram for a karat from the 24K reference
// rate: rate(k) = rate24k * purity(k) / purity(24k).
func KaratRate(rate24K float64, karat string) (float64, error) {
	purity, ok := KaratPurity[karat]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKarat, karat)
	}
	return rate24K * purity / KaratPurity["24k"], nil
}

// GoldCost is the metal cost for a piece.
func GoldCost(weightGrams, ratePerGram float64) float64 {
	return weightGrams * ratePerGram
}
