package calculators

import (
	"errors"
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("got %.4f, want %.4f", got, want)
	}
}

func TestKaratRate(t *testing.T) {
	rate24k := 7500.0

	r22, err := KaratRate(rate24k, "22k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearlyEqual(t, r22, 7500*0.916/0.999)

	// Rates must be strictly increasing along the full purity chain.
	chain := []string{"9k", "10k", "14k", "18k", "22k", "24k"}
	prev := 0.0
	for _, k := range chain {
		rate, err := KaratRate(rate24k, k)
		if err != nil {
			t.Fatalf("KaratRate(%s): %v", k, err)
		}
		if rate <= prev {
			t.Fatalf("rate for %s (%.2f) not above the previous karat (%.2f)", k, rate, prev)
		}
		prev = rate
	}

	if _, err := KaratRate(rate24k, "21k"); !errors.Is(err, ErrUnknownKarat) {
		t.Fatalf("expected ErrUnknownKarat, got %v", err)
	}
}

func TestResolvePercentPrecedence(t *testing.T) {
	profile := map[string]float64{"ring": 11.0, "general": 13.0}
	defaults := map[string]float64{"ring": 12.0, "general": 14.0}

	override := 9.5
	if pct, src := ResolvePercent(&override, profile, defaults, "ring"); pct != 9.5 || src != SourceOverride {
		t.Fatalf("override should win: got %v/%v", pct, src)
	}
	if pct, src := ResolvePercent(nil, profile, defaults, "ring"); pct != 11.0 || src != SourceProfile {
		t.Fatalf("profile type should win: got %v/%v", pct, src)
	}
	if pct, src := ResolvePercent(nil, profile, defaults, "chain"); pct != 13.0 || src != SourceProfileGeneral {
		t.Fatalf("profile general should win: got %v/%v", pct, src)
	}
	if pct, src := ResolvePercent(nil, map[string]float64{}, defaults, "ring"); pct != 12.0 || src != SourceDefault {
		t.Fatalf("default should apply: got %v/%v", pct, src)
	}
}

func TestMakingChargedOnGoldPlusWastage(t *testing.T) {
	gold := 100000.0
	wastage := WastageCost(gold, 3.0)
	nearlyEqual(t, wastage, 3000.0)
	nearlyEqual(t, MakingCost(gold, wastage, 14.0), 103000*0.14)
}

func TestCZCost(t *testing.T) {
	res := CZCost(30, "pave", nil)
	nearlyEqual(t, res.Cost, 300)
	if res.FellBack {
		t.Fatal("pave is a known setting")
	}

	res = CZCost(10, "fishtail", nil)
	if !res.FellBack || res.Setting != "pave" {
		t.Fatalf("unknown setting should fall back to pave: %+v", res)
	}
	nearlyEqual(t, res.Cost, 100)

	custom := map[string]float64{"pave": 8}
	nearlyEqual(t, CZCost(10, "pave", custom).Cost, 80)

	if got := CZCost(0, "pave", nil).Cost; got != 0 {
		t.Fatalf("zero stones must cost zero, got %v", got)
	}
}

func TestDiamondCountWinsOverCarats(t *testing.T) {
	g := DiamondGroup{Sieve: "7", Count: 10, TotalCarats: 99, Quality: "GH-VS"}
	res := DiamondGroupCost(g, nil, nil, nil, 83.5)

	// 10 stones at sieve 7 weigh 0.05ct each.
	nearlyEqual(t, res.Carats, 0.5)
	nearlyEqual(t, res.CostINR, 0.5*900*83.5)
	// prong default, 15/stone
	nearlyEqual(t, res.SettingCostINR, 150)
}

func TestDiamondCaratsOnly(t *testing.T) {
	g := DiamondGroup{Sieve: "7", TotalCarats: 0.5, Quality: "GH-VS", Setting: "prong"}
	res := DiamondGroupCost(g, nil, nil, nil, 83.5)
	nearlyEqual(t, res.CostINR, 0.5*900*83.5)
	// Setting labor applies to at least one stone.
	nearlyEqual(t, res.SettingCostINR, 15)
}

func TestLabDiamondCheaper(t *testing.T) {
	nat := DiamondGroupCost(DiamondGroup{Sieve: "7", Count: 5, Quality: "GH-VS"}, nil, nil, nil, 83.5)
	lab := DiamondGroupCost(DiamondGroup{Sieve: "7", Count: 5, Quality: "GH-VS", Lab: true}, nil, nil, nil, 83.5)
	if lab.CostINR >= nat.CostINR {
		t.Fatalf("lab-grown must price below natural: lab=%.2f natural=%.2f", lab.CostINR, nat.CostINR)
	}
	nearlyEqual(t, lab.RatePerCaratUSD, 180)
}

func TestDiamondProfileRateOverride(t *testing.T) {
	profile := map[string]float64{"melee_gh_vs": 700}
	res := DiamondGroupCost(DiamondGroup{Sieve: "7", Count: 10, Quality: "GH-VS"}, profile, nil, nil, 83.5)
	nearlyEqual(t, res.RatePerCaratUSD, 700)
}

func TestGemstoneCost(t *testing.T) {
	res := GemstoneCost(GemstoneInput{Stone: "ruby", Carats: 2}, nil, 83.5)
	nearlyEqual(t, res.CostINR, 2*500*83.5)
	if res.Grade != "mid" {
		t.Fatalf("empty grade should default to mid, got %s", res.Grade)
	}

	res = GemstoneCost(GemstoneInput{Stone: "moonrock", Carats: 1}, nil, 83.5)
	if !res.FellBack {
		t.Fatal("unknown stone must be flagged")
	}
	nearlyEqual(t, res.RatePerCaratUSD, 100)
}

func TestFinishingDedupe(t *testing.T) {
	total, lines := FinishingCost([]string{"rhodium", "matte", "rhodium"}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 deduped lines, got %d", len(lines))
	}
	nearlyEqual(t, total, 80+40)
	if lines[0].Type != "rhodium" || lines[1].Type != "matte" {
		t.Fatalf("first-appearance order not preserved: %+v", lines)
	}
}

func TestNormalizeQuality(t *testing.T) {
	cases := map[string]string{
		"GH-VS":   "GH_VS",
		"def vvs": "DEF_VVS",
		"ij/si":   "IJ_SI",
		"VVS":     "DEF_VVS",
		"":        "GH_VS",
		"mystery": "GH_VS",
	}
	for in, want := range cases {
		if got := NormalizeQuality(in); got != want {
			t.Errorf("NormalizeQuality(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSieveSizeCategory(t *testing.T) {
	cases := map[string]string{
		"000": "melee_small",
		"7":   "melee",
		"9":   "round_small",
		"12":  "round_large",
		"16+": "center",
		"??":  "melee",
	}
	for in, want := range cases {
		if got := SieveSizeCategory(in); got != want {
			t.Errorf("SieveSizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeJewelryType(t *testing.T) {
	cases := map[string]string{
		"haar":     "necklace",
		"angoothi": "ring",
		"jhumka":   "earring",
		"payal":    "anklet",
		"RING":     "ring",
		"widget":   "general",
	}
	for in, want := range cases {
		if got := NormalizeJewelryType(in); got != want {
			t.Errorf("NormalizeJewelryType(%q) = %q, want %q", in, got, want)
		}
	}
}
