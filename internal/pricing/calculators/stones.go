package calculators

import (
	"fmt"
	"strings"
)

// CZResult is an itemized CZ line.
type CZResult struct {
	Cost     float64
	PerStone float64
	Setting  string
	FellBack bool // unknown setting substituted with pave
}

// CZCost prices cubic zirconia per stone by setting style. An unrecognized
// setting falls back to the pave rate rather than failing the quote; the
// substitution is reported via FellBack.
func CZCost(count int, setting string, profileRates map[string]float64) CZResult {
	s := NormalizeKey(setting)
	if s == "" {
		s = "pave"
	}
	res := CZResult{Setting: s}
	if count <= 0 {
		return res
	}
	perStone, ok := profileRates[s]
	if !ok {
		perStone, ok = CZRatesINR[s]
		if !ok {
			res.Setting = "pave"
			res.FellBack = true
			perStone = CZRatesINR["pave"]
			if perStone == 0 {
				perStone = fallbackCZRateINR
			}
		}
	}
	res.PerStone = perStone
	res.Cost = float64(count) * perStone
	return res
}

// DiamondGroup describes one parcel of diamonds on a piece.
type DiamondGroup struct {
	Sieve       string
	Count       int
	TotalCarats float64 // used only when Count is zero
	Quality     string
	Lab         bool
	Setting     string
}

// DiamondResult is the priced line for one group.
type DiamondResult struct {
	CostINR         float64
	SettingCostINR  float64
	Carats          float64
	RatePerCaratUSD float64
	SizeCategory    string
	Quality         string
	SettingFellBack bool
	Detail          string
}

// DiamondGroupCost prices one diamond group. Stone cost is carats times
// the USD/ct rate for the sieve category and quality tier (lab-grown uses
// the lab table), converted to INR; setting labor is a per-stone INR
// add-on. When both a count and total carats are given, the count wins and
// carats derive from the sieve table.
func DiamondGroupCost(g DiamondGroup, profileRates, profileLabRates, profileSettingRates map[string]float64, usdINR float64) DiamondResult {
	sizeCat := SieveSizeCategory(g.Sieve)
	quality := NormalizeQuality(g.Quality)

	carats := g.TotalCarats
	count := g.Count
	if count > 0 {
		each, ok := SieveCaratsEach[g.Sieve]
		if !ok {
			each = fallbackCaratsEach
		}
		carats = float64(count) * each
	} else if carats > 0 {
		// Setting labor still applies to at least one stone.
		count = 1
	}

	// Profile rate maps are keyed lowercase.
	rateKey := strings.ToLower(sizeCat + "_" + quality)
	var ratePerCt float64
	var ok bool
	if g.Lab {
		if ratePerCt, ok = profileLabRates[rateKey]; !ok {
			if ratePerCt, ok = LabDiamondRatesUSD[sizeCat][quality]; !ok {
				ratePerCt = fallbackLabUSDPerCt
			}
		}
	} else {
		if ratePerCt, ok = profileRates[rateKey]; !ok {
			if ratePerCt, ok = DiamondRatesUSD[sizeCat][quality]; !ok {
				ratePerCt = fallbackDiamondUSDPerCt
			}
		}
	}

	setting := NormalizeKey(g.Setting)
	if setting == "" {
		setting = "prong"
	}
	settingFellBack := false
	settingRate, ok := profileSettingRates[setting]
	if !ok {
		settingRate, ok = SettingRatesINR[setting]
		if !ok {
			settingRate = fallbackSettingRateINR
			settingFellBack = true
		}
	}

	res := DiamondResult{
		Carats:          carats,
		RatePerCaratUSD: ratePerCt,
		SizeCategory:    sizeCat,
		Quality:         quality,
		SettingFellBack: settingFellBack,
	}
	res.CostINR = carats * ratePerCt * usdINR
	res.SettingCostINR = float64(count) * settingRate

	labTag := ""
	if g.Lab {
		labTag = " (lab)"
	}
	res.Detail = fmt.Sprintf("Sieve %s x %d%s: %.2fct @ $%.0f/ct", g.Sieve, g.Count, labTag, carats, ratePerCt)
	return res
}

// GemstoneInput describes one colored stone on a piece.
type GemstoneInput struct {
	Stone  string
	Carats float64
	Grade  string // low, mid, high; empty means mid
}

// GemstoneResult is the priced line for one gemstone.
type GemstoneResult struct {
	CostINR         float64
	RatePerCaratUSD float64
	Grade           string
	FellBack        bool // unknown stone or grade priced at the generic rate
	Detail          string
}

// GemstoneCost prices a colored stone per carat by type and grade.
func GemstoneCost(g GemstoneInput, profileRates map[string]float64, usdINR float64) GemstoneResult {
	stone := NormalizeKey(g.Stone)
	grade := NormalizeKey(g.Grade)
	if grade == "" {
		grade = "mid"
	}

	res := GemstoneResult{Grade: grade}
	ratePerCt, ok := profileRates[stone]
	if !ok {
		grades, found := GemstoneRatesUSD[stone]
		if found {
			if ratePerCt, ok = grades[grade]; !ok {
				res.Grade = "mid"
				res.FellBack = true
				ratePerCt = grades["mid"]
			}
		} else {
			res.FellBack = true
			ratePerCt = fallbackGemUSDPerCt
		}
	}

	res.RatePerCaratUSD = ratePerCt
	res.CostINR = g.Carats * ratePerCt * usdINR
	res.Detail = fmt.Sprintf("%s %.2fct @ $%.0f/ct", stone, g.Carats, ratePerCt)
	return res
}

// FinishLine is one priced finish on the bill.
type FinishLine struct {
	Type     string
	CostINR  float64
	FellBack bool
}

// FinishingCost sums flat per-piece finishing charges. The list is
// deduplicated; order of first appearance is preserved.
func FinishingCost(finishes []string, profileRates map[string]float64) (float64, []FinishLine) {
	seen := make(map[string]bool, len(finishes))
	var total float64
	var lines []FinishLine
	for _, f := range finishes {
		norm := NormalizeKey(f)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true

		line := FinishLine{Type: norm}
		rate, ok := profileRates[norm]
		if !ok {
			rate, ok = FinishingRatesINR[norm]
			if !ok {
				rate = fallbackFinishRateINR
				line.FellBack = true
			}
		}
		line.CostINR = rate
		total += rate
		lines = append(lines, line)
	}
	return total, lines
}
