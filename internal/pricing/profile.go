package pricing

import (
	"strings"

	"jewelclaw/internal/pricing/calculators"
)

// Pricing models for the making charge.
const (
	ModelPercentage = "percentage"
	ModelPerGram    = "per_gram"
	ModelPerPiece   = "per_piece"
)

// Profile is a user's assembled pricing preferences. It is sparse: any
// missing value falls back to the built-in tables, so an empty profile is
// always usable.
type Profile struct {
	PricingModel string
	Currency     string // INR or USD

	MakingCharges map[string]float64 // jewelry type -> %
	LaborPerGram  map[string]float64 // jewelry type -> rate per gram
	CFPRates      map[string]float64 // jewelry type -> flat per-piece rate
	Wastage       map[string]float64 // jewelry type -> %

	CZRates         map[string]float64 // setting -> ₹/stone
	DiamondRates    map[string]float64 // sizecat_QUALITY -> $/ct
	LabDiamondRates map[string]float64 // sizecat_QUALITY -> $/ct
	GemstoneRates   map[string]float64 // stone -> $/ct
	SettingRates    map[string]float64 // setting -> ₹/stone
	FinishingRates  map[string]float64 // finish -> ₹/piece

	HallmarkCharge  float64
	GSTPct          float64
	ProfitMarginPct float64 // 0 means no margin overlay
}

// DefaultProfile returns the profile a user has before saving anything.
func DefaultProfile() *Profile {
	return &Profile{
		PricingModel:    ModelPercentage,
		Currency:        "INR",
		MakingCharges:   map[string]float64{},
		LaborPerGram:    map[string]float64{},
		CFPRates:        map[string]float64{},
		Wastage:         map[string]float64{},
		CZRates:         map[string]float64{},
		DiamondRates:    map[string]float64{},
		LabDiamondRates: map[string]float64{},
		GemstoneRates:   map[string]float64{},
		SettingRates:    map[string]float64{},
		FinishingRates:  map[string]float64{},
		HallmarkCharge:  calculators.DefaultHallmarkINR,
		GSTPct:          calculators.DefaultGSTPct,
	}
}

// Canonical key prefixes for persisted facts.
const (
	keyMaking     = "making_"
	keyLabor      = "labor_pergram_"
	keyCFP        = "cfp_"
	keyWastage    = "wastage_"
	keyCZ         = "cz_"
	keyLabDiamond = "lab_diamond_"
	keyDiamond    = "diamond_"
	keyGemstone   = "gemstone_"
	keySetting    = "setting_"
	keyFinishing  = "finishing_"
)

// ProfileFromFacts assembles a Profile from persisted facts. Unknown keys
// are skipped; the canonical key structure is fixed at write time by the
// Configurator, so reads are exact prefix splits.
func ProfileFromFacts(facts []Fact) *Profile {
	p := DefaultProfile()
	for _, f := range facts {
		key := strings.ToLower(f.Key)
		switch {
		case key == "pricing_model":
			if f.Value != "" {
				p.PricingModel = f.Value
			}
		case key == "currency":
			if c := strings.ToUpper(f.Value); c == "INR" || c == "USD" {
				p.Currency = c
			}
		case key == "hallmark_charge":
			p.HallmarkCharge = f.ValueNumeric
		case key == "gst_pct":
			p.GSTPct = f.ValueNumeric
		case key == "profit_margin_pct":
			p.ProfitMarginPct = f.ValueNumeric
		case strings.HasPrefix(key, keyLabor):
			p.LaborPerGram[strings.TrimPrefix(key, keyLabor)] = f.ValueNumeric
		case strings.HasPrefix(key, keyCFP):
			p.CFPRates[strings.TrimPrefix(key, keyCFP)] = f.ValueNumeric
		case strings.HasPrefix(key, keyMaking):
			p.MakingCharges[strings.TrimPrefix(key, keyMaking)] = f.ValueNumeric
		case strings.HasPrefix(key, keyWastage):
			p.Wastage[strings.TrimPrefix(key, keyWastage)] = f.ValueNumeric
		case strings.HasPrefix(key, keyCZ):
			p.CZRates[strings.TrimPrefix(key, keyCZ)] = f.ValueNumeric
		case strings.HasPrefix(key, keyLabDiamond):
			p.LabDiamondRates[strings.TrimPrefix(key, keyLabDiamond)] = f.ValueNumeric
		case strings.HasPrefix(key, keyDiamond):
			p.DiamondRates[strings.TrimPrefix(key, keyDiamond)] = f.ValueNumeric
		case strings.HasPrefix(key, keyGemstone):
			p.GemstoneRates[strings.TrimPrefix(key, keyGemstone)] = f.ValueNumeric
		case strings.HasPrefix(key, keySetting):
			p.SettingRates[strings.TrimPrefix(key, keySetting)] = f.ValueNumeric
		case strings.HasPrefix(key, keyFinishing):
			p.FinishingRates[strings.TrimPrefix(key, keyFinishing)] = f.ValueNumeric
		}
	}
	return p
}
