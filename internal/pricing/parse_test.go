package pricing

import "testing"

func TestParseQuoteTextBasic(t *testing.T) {
	req, ok := ParseQuoteText("quote 10g 22k necklace")
	if !ok {
		t.Fatal("expected a parse")
	}
	if req.WeightGrams != 10 || req.Karat != "22k" || req.JewelryType != "necklace" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Quantity != 1 {
		t.Fatalf("quantity should default to 1, got %d", req.Quantity)
	}
}

func TestParseQuoteTextDefaultsKarat(t *testing.T) {
	req, ok := ParseQuoteText("quote 5g haar")
	if !ok {
		t.Fatal("expected a parse")
	}
	if req.Karat != "22k" {
		t.Fatalf("karat should default to 22k, got %s", req.Karat)
	}
	if req.JewelryType != "necklace" {
		t.Fatalf("haar should resolve to necklace, got %s", req.JewelryType)
	}
}

func TestParseQuoteTextQuantity(t *testing.T) {
	req, _ := ParseQuoteText("quote 8g 18k bangle x4")
	if req.Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", req.Quantity)
	}
}

func TestParseQuoteTextCZ(t *testing.T) {
	req, _ := ParseQuoteText("quote 5g 18k ring 30 cz micro pave")
	if req.CZCount != 30 {
		t.Fatalf("cz count = %d, want 30", req.CZCount)
	}
	if req.CZSetting != "micro_pave" {
		t.Fatalf("cz setting = %s, want micro_pave", req.CZSetting)
	}
}

func TestParseQuoteTextDiamonds(t *testing.T) {
	req, _ := ParseQuoteText("quote 8g 14k pendant 0.5ct diamond lab gh-vs")
	if len(req.Diamonds) != 1 {
		t.Fatalf("expected 1 diamond group, got %d", len(req.Diamonds))
	}
	d := req.Diamonds[0]
	if d.TotalCarats != 0.5 || !d.Lab {
		t.Fatalf("unexpected group: %+v", d)
	}

	req, _ = ParseQuoteText("quote 8g 14k ring 12 diamonds sieve 9 prong")
	d = req.Diamonds[0]
	if d.Count != 12 || d.Sieve != "9" || d.Setting != "prong" {
		t.Fatalf("unexpected group: %+v", d)
	}
}

func TestParseQuoteTextGemstone(t *testing.T) {
	req, _ := ParseQuoteText("quote 12g 22k necklace 2ct ruby")
	if len(req.Gemstones) != 1 {
		t.Fatalf("expected 1 gemstone, got %d", len(req.Gemstones))
	}
	g := req.Gemstones[0]
	if g.Stone != "ruby" || g.Carats != 2 || g.Grade != "mid" {
		t.Fatalf("unexpected gemstone: %+v", g)
	}
}

func TestParseQuoteTextFinishing(t *testing.T) {
	req, _ := ParseQuoteText("quote 10g 22k ring rhodium matte")
	if len(req.Finishing) != 2 {
		t.Fatalf("expected 2 finishes, got %v", req.Finishing)
	}
}

func TestParseQuoteTextCompoundFinishBilledOnce(t *testing.T) {
	req, _ := ParseQuoteText("quote 10g 22k ring black rhodium")
	if len(req.Finishing) != 1 || req.Finishing[0] != "black_rhodium" {
		t.Fatalf("one finish requested, parsed %v", req.Finishing)
	}

	// Both present: the compound finish must not absorb the plain one.
	req, _ = ParseQuoteText("quote 10g 22k ring black rhodium and matte")
	want := []string{"black_rhodium", "matte"}
	if len(req.Finishing) != 2 || req.Finishing[0] != want[0] || req.Finishing[1] != want[1] {
		t.Fatalf("finishing = %v, want %v", req.Finishing, want)
	}
}

func TestParseQuoteTextFinishingDeterministic(t *testing.T) {
	first, _ := ParseQuoteText("quote 10g 22k ring rhodium matte enamel")
	for range [20]struct{}{} {
		again, _ := ParseQuoteText("quote 10g 22k ring rhodium matte enamel")
		if len(again.Finishing) != len(first.Finishing) {
			t.Fatalf("finishing list changed across runs: %v vs %v", first.Finishing, again.Finishing)
		}
		for i := range again.Finishing {
			if again.Finishing[i] != first.Finishing[i] {
				t.Fatalf("finishing order changed across runs: %v vs %v", first.Finishing, again.Finishing)
			}
		}
	}
}

func TestParseQuoteTextNoWeight(t *testing.T) {
	if _, ok := ParseQuoteText("hello there"); ok {
		t.Fatal("text without a weight is not a quote")
	}
}

func TestParseSetupText(t *testing.T) {
	data, ok := ParseSetupText("price set necklace 15")
	if !ok || data.MakingCharges["necklace"] != 15 {
		t.Fatalf("making parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set ring labor 800")
	if !ok || data.LaborPerGram["ring"] != 800 {
		t.Fatalf("labor parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set cz pave 12")
	if !ok || data.CZRates["pave"] != 12 {
		t.Fatalf("cz parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set diamond melee 850")
	if !ok || data.DiamondRates["melee"] != 850 {
		t.Fatalf("diamond parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set lab diamond melee 180")
	if !ok || data.LabDiamondRates["melee"] != 180 {
		t.Fatalf("lab diamond parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set gemstone ruby 450")
	if !ok || data.GemstoneRates["ruby"] != 450 {
		t.Fatalf("gemstone parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set margin 15")
	if !ok || data.ProfitMarginPct == nil || *data.ProfitMarginPct != 15 {
		t.Fatalf("margin parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set currency usd")
	if !ok || data.Currency != "USD" {
		t.Fatalf("currency parse failed: %+v", data)
	}

	data, ok = ParseSetupText("price set model per_gram")
	if !ok || data.PricingModel != "per_gram" {
		t.Fatalf("model parse failed: %+v", data)
	}

	if _, ok = ParseSetupText("price set model astrology"); ok {
		t.Fatal("unknown model must not parse")
	}
}
