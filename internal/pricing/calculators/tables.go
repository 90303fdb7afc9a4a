package calculators

import "strings"

// Reference data for the Indian jewelry trade. Profile values override these;
// every lookup here is a fallback, never a requirement.

// KaratPurity maps a normalized karat string to its gold purity fraction.
var KaratPurity = map[string]float64{
	"24k": 0.999,
	"22k": 0.916,
	"18k": 0.750,
	"14k": 0.585,
	"10k": 0.417,
	"9k":  0.375,
}

// JewelryAliases maps Hindi and English names to canonical jewelry types.
var JewelryAliases = map[string]string{
	"necklace": "necklace", "haar": "necklace", "set": "necklace",
	"ring": "ring", "angoothi": "ring",
	"bangle": "bangle", "kangan": "bangle", "chudi": "bangle",
	"earring": "earring", "earrings": "earring", "jhumka": "earring", "tops": "earring",
	"chain":    "chain",
	"pendant":  "pendant", "locket": "pendant",
	"bracelet": "bracelet",
	"mangalsutra": "mangalsutra",
	"nosering": "nosering", "nath": "nosering",
	"anklet": "anklet", "payal": "anklet",
	"coin":   "coin",
	"brooch": "brooch",
	"tikka":  "tikka", "maangtikka": "tikka",
	"kamarband": "kamarband", "waistband": "kamarband",
}

// DefaultMakingCharges is the industry-average making charge (%) per type.
var DefaultMakingCharges = map[string]float64{
	"necklace": 14.0, "ring": 12.0, "bangle": 10.0, "earring": 15.0,
	"chain": 8.0, "pendant": 13.0, "bracelet": 11.0, "mangalsutra": 16.0,
	"nosering": 12.0, "anklet": 10.0, "coin": 3.0, "general": 14.0,
}

// DefaultWastage is the metal-loss allowance (%) per type.
var DefaultWastage = map[string]float64{
	"necklace": 3.0, "ring": 2.5, "bangle": 2.0, "earring": 3.5,
	"chain": 1.5, "pendant": 3.0, "bracelet": 2.5, "mangalsutra": 3.0,
	"nosering": 2.5, "anklet": 2.0, "coin": 0.5, "general": 2.5,
}

// CZRatesINR is the per-stone CZ rate (₹) by setting style.
var CZRatesINR = map[string]float64{
	"pave":       10.0,
	"prong":      12.0,
	"bezel":      18.0,
	"channel":    18.0,
	"micro_pave": 15.0,
	"wax_set":    10.0,
}

// SieveCaratsEach maps a diamond sieve size to the approximate carat
// weight of a single stone, used when a group gives a count but no
// total carat weight.
var SieveCaratsEach = map[string]float64{
	"000": 0.005, "00": 0.007, "0": 0.01,
	"1": 0.012, "2": 0.015, "3": 0.02, "4": 0.025,
	"5": 0.03, "6": 0.04, "7": 0.05, "8": 0.07,
	"9": 0.10, "10": 0.12, "11": 0.15, "12": 0.20,
	"13": 0.25, "14": 0.30, "15": 0.40, "16+": 0.50,
}

// Diamond rates are quoted in USD per carat by size category and quality
// tier, the way melee parcels are traded.
var DiamondRatesUSD = map[string]map[string]float64{
	"melee_small": {"DEF_VVS": 900, "GH_VS": 600, "IJ_SI": 350},
	"melee":       {"DEF_VVS": 1400, "GH_VS": 900, "IJ_SI": 550},
	"round_small": {"DEF_VVS": 2200, "GH_VS": 1500, "IJ_SI": 800},
	"round_large": {"DEF_VVS": 4000, "GH_VS": 2800, "IJ_SI": 1500},
	"center":      {"DEF_VVS": 7000, "GH_VS": 5000, "IJ_SI": 2800},
}

// Lab-grown runs at 15-25% of the natural rate.
var LabDiamondRatesUSD = map[string]map[string]float64{
	"melee_small": {"DEF_VVS": 180, "GH_VS": 120, "IJ_SI": 70},
	"melee":       {"DEF_VVS": 280, "GH_VS": 180, "IJ_SI": 110},
	"round_small": {"DEF_VVS": 440, "GH_VS": 300, "IJ_SI": 160},
	"round_large": {"DEF_VVS": 800, "GH_VS": 560, "IJ_SI": 300},
	"center":      {"DEF_VVS": 1400, "GH_VS": 1000, "IJ_SI": 560},
}

// GemstoneRatesUSD holds per-carat rates by stone and grade.
var GemstoneRatesUSD = map[string]map[string]float64{
	"ruby":       {"low": 100, "mid": 500, "high": 2000},
	"emerald":    {"low": 80, "mid": 400, "high": 1500},
	"sapphire":   {"low": 100, "mid": 600, "high": 2500},
	"amethyst":   {"low": 5, "mid": 15, "high": 40},
	"topaz":      {"low": 8, "mid": 25, "high": 60},
	"garnet":     {"low": 5, "mid": 20, "high": 50},
	"peridot":    {"low": 10, "mid": 30, "high": 80},
	"citrine":    {"low": 5, "mid": 15, "high": 40},
	"tanzanite":  {"low": 50, "mid": 200, "high": 800},
	"opal":       {"low": 10, "mid": 50, "high": 200},
	"tourmaline": {"low": 20, "mid": 80, "high": 300},
	"aquamarine": {"low": 15, "mid": 60, "high": 200},
}

// SettingRatesINR is the per-stone setting labor (₹) for diamond and
// gemstone work. Independent of the CZ table.
var SettingRatesINR = map[string]float64{
	"pave": 12, "prong": 15, "bezel": 18, "channel": 18,
	"invisible": 70, "micro_pave": 25, "wax_set": 12, "flush": 16,
}

// FinishingRatesINR is a flat per-piece charge (₹) per finish type.
var FinishingRatesINR = map[string]float64{
	"rhodium": 80, "black_rhodium": 125, "two_tone": 60, "sandblast": 40,
	"enamel": 100, "antique": 80, "matte": 40, "hammered": 60,
}

const (
	// DefaultHallmarkINR is the flat BIS hallmark certification fee per piece.
	DefaultHallmarkINR = 45.0
	// DefaultGSTPct is the Indian GST rate for gold jewelry.
	DefaultGSTPct = 3.0

	// Fallback rates for values missing from every table.
	fallbackCZRateINR       = 10.0
	fallbackSettingRateINR  = 15.0
	fallbackFinishRateINR   = 60.0
	fallbackCaratsEach      = 0.03
	fallbackDiamondUSDPerCt = 900.0
	fallbackLabUSDPerCt     = 200.0
	fallbackGemUSDPerCt     = 100.0
)

// NormalizeKey lowercases and collapses spaces/hyphens to underscores, the
// canonical form for setting, finish and quality keys.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// NormalizeJewelryType resolves aliases to a canonical jewelry type,
// falling back to "general" for anything unrecognized.
func NormalizeJewelryType(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	if canon, ok := JewelryAliases[t]; ok {
		return canon
	}
	if _, ok := DefaultMakingCharges[t]; ok {
		return t
	}
	return "general"
}

// NormalizeKarat lowercases, strips whitespace and ensures a trailing "k".
func NormalizeKarat(s string) string {
	k := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if k != "" && !strings.HasSuffix(k, "k") {
		k += "k"
	}
	return k
}

// SieveSizeCategory maps a sieve size to its rate table category.
func SieveSizeCategory(sieve string) string {
	switch strings.TrimSuffix(strings.TrimSpace(sieve), "+") {
	case "000", "00", "0", "1", "2", "3":
		return "melee_small"
	case "4", "5", "6", "7":
		return "melee"
	case "8", "9", "10":
		return "round_small"
	case "11", "12", "13":
		return "round_large"
	case "14", "15", "16":
		return "center"
	default:
		if _, ok := SieveCaratsEach[strings.TrimSpace(sieve)]; ok {
			return "center"
		}
		return "melee"
	}
}

// NormalizeQuality folds a free-form diamond quality string ("GH-VS",
// "D-F VVS", "ij/si") into one of the three rate tiers.
func NormalizeQuality(quality string) string {
	q := strings.ToUpper(NormalizeKey(quality))
	q = strings.ReplaceAll(q, "/", "_")
	switch {
	case strings.Contains(q, "DEF"), strings.Contains(q, "D_F"),
		strings.Contains(q, "D_E_F"), strings.Contains(q, "EF"):
		return "DEF_VVS"
	case strings.Contains(q, "GH"), strings.Contains(q, "G_H"):
		return "GH_VS"
	case strings.Contains(q, "IJ"), strings.Contains(q, "I_J"),
		strings.Contains(q, "KL"):
		return "IJ_SI"
	case strings.Contains(q, "VVS"):
		return "DEF_VVS"
	case strings.Contains(q, "VS"):
		return "GH_VS"
	case strings.Contains(q, "SI"):
		return "IJ_SI"
	}
	return "GH_VS"
}
