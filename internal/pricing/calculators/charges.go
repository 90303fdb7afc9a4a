package calculators

// Source records where a resolved percentage came from, so the assembler
// can tag custom rates on the bill.
type Source int

const (
	SourceDefault Source = iota
	SourceProfileGeneral
	SourceProfile
	SourceOverride
)

// ResolvePercent picks the effective percentage for a jewelry type.
// Priority: explicit override, profile value for the type, profile value
// for "general", then the built-in default table.
func ResolvePercent(override *float64, profile map[string]float64, defaults map[string]float64, jewelryType string) (float64, Source) {
	if override != nil {
		return *override, SourceOverride
	}
	if v, ok := profile[jewelryType]; ok {
		return v, SourceProfile
	}
	if v, ok := profile["general"]; ok {
		return v, SourceProfileGeneral
	}
	if v, ok := defaults[jewelryType]; ok {
		return v, SourceDefault
	}
	return defaults["general"], SourceDefault
}

// WastageCost is the metal-loss allowance on the gold cost.
func WastageCost(goldCost, wastagePct float64) float64 {
	return goldCost * wastagePct / 100
}

// MakingCost is the labor fee, charged on gold plus wastage.
func MakingCost(goldCost, wastageCost, makingPct float64) float64 {
	return (goldCost + wastageCost) * makingPct / 100
}

// GSTAmount applies GST to the full subtotal.
func GSTAmount(subtotal, gstPct float64) float64 {
	return subtotal * gstPct / 100
}
