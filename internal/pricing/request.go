package pricing

import (
	"strings"

	"jewelclaw/internal/pricing/calculators"
)

// QuoteRequest carries one quote call. It is built per call, either from
// typed tool parameters or from the shorthand parser, and never persisted.
type QuoteRequest struct {
	UserID      int64
	WeightGrams float64
	Karat       string
	JewelryType string
	City        string
	Quantity    int
	Currency    string // empty means use the profile's currency

	// Per-call overrides; nil means resolve from profile/defaults.
	MakingChargePct *float64
	WastagePct      *float64
	LaborPerGram    *float64
	CFPRate         *float64

	// Legacy flat stone cost, added on top of itemized stones.
	StoneCost float64

	CZCount   int
	CZSetting string
	Diamonds  []calculators.DiamondGroup
	Gemstones []calculators.GemstoneInput
	Finishing []string
}

// normalize canonicalizes free-form fields in place.
func (r *QuoteRequest) normalize() {
	r.Karat = calculators.NormalizeKarat(r.Karat)
	if r.Karat == "k" || r.Karat == "" {
		r.Karat = "22k"
	}
	r.JewelryType = calculators.NormalizeJewelryType(r.JewelryType)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Quantity == 0 {
		r.Quantity = 1
	}
}

// validate applies the input taxonomy: bad weight, quantity or karat is
// rejected before any calculation.
func (r *QuoteRequest) validate() error {
	if r.WeightGrams <= 0 {
		return &InputError{Field: "weight", Reason: "must be greater than zero"}
	}
	if r.Quantity < 1 {
		return &InputError{Field: "quantity", Reason: "must be at least 1"}
	}
	if _, ok := calculators.KaratPurity[r.Karat]; !ok {
		return &InputError{Field: "karat", Reason: "unknown karat " + r.Karat}
	}
	if r.Currency != "" && r.Currency != "INR" && r.Currency != "USD" {
		return &InputError{Field: "currency", Reason: "must be INR or USD"}
	}
	return nil
}
