package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
)

type fakeRates struct {
	snap *RateSnapshot
	err  error
}

func (f *fakeRates) LatestRate(_ context.Context, city string) (*RateSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.snap == nil {
		return nil, &MissingRateError{City: city}
	}
	return f.snap, nil
}

type fakeStore struct {
	facts   []Fact
	readErr error
	saved   map[string]Fact
}

func (f *fakeStore) PricingFacts(_ context.Context, _ int64) ([]Fact, error) {
	return f.facts, f.readErr
}

func (f *fakeStore) UpsertFact(_ context.Context, _ int64, fact Fact) error {
	if f.saved == nil {
		f.saved = map[string]Fact{}
	}
	f.saved[fact.Key] = fact
	return nil
}

func nearlyEqual(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("got %.4f, want %.4f", got, want)
	}
}

func testEngine(rates *fakeRates, store *fakeStore) *Engine {
	return NewEngine(rates, store, zap.NewNop(), "Mumbai")
}

func mumbaiSnap() *RateSnapshot {
	return &RateSnapshot{City: "Mumbai", Gold24K: 7500, USDINR: 83.5, RateDate: "2026-08-23"}
}

func TestGenerateQuoteDefaults(t *testing.T) {
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, &fakeStore{})

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID:      1,
		WeightGrams: 10,
		Karat:       "22k",
		JewelryType: "necklace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rate := 7500 * 0.916 / 0.999
	gold := 10 * rate
	wastage := gold * 0.03
	making := (gold + wastage) * 0.14
	subtotal := gold + wastage + making + 45
	gst := subtotal * 0.03

	nearlyEqual(t, q.GoldCost, gold)
	nearlyEqual(t, q.WastageCost, wastage)
	nearlyEqual(t, q.MakingCost, making)
	nearlyEqual(t, q.HallmarkCharge, 45)
	nearlyEqual(t, q.Subtotal, subtotal)
	nearlyEqual(t, q.GST, gst)
	nearlyEqual(t, q.TotalPerPiece, subtotal+gst)
	nearlyEqual(t, q.GrandTotal, subtotal+gst)

	if q.IsCustomMaking {
		t.Fatal("default making must not be tagged custom")
	}
	if q.Currency != "INR" {
		t.Fatalf("default currency should be INR, got %s", q.Currency)
	}
}

func TestGenerateQuoteUSDExport(t *testing.T) {
	store := &fakeStore{facts: []Fact{{Key: "currency", Value: "USD"}}}
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, store)

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "ring",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.GSTPct != 0 || q.GST != 0 {
		t.Fatalf("USD quotes carry no GST, got pct=%v amount=%v", q.GSTPct, q.GST)
	}

	// Convert-at-end: the USD total equals the INR aggregate divided once.
	rate := 7500 * 0.916 / 0.999
	gold := 10 * rate
	wastage := gold * 0.025
	making := (gold + wastage) * 0.12
	wantINR := gold + wastage + making + 45
	nearlyEqual(t, q.TotalPerPiece, wantINR/83.5)
	nearlyEqual(t, q.GoldRatePerGram, rate/83.5)
}

func TestGenerateQuoteMissingRateFailsClosed(t *testing.T) {
	e := testEngine(&fakeRates{}, &fakeStore{})

	_, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 5, Karat: "22k",
	})
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRateError, got %v", err)
	}
}

func TestGenerateQuoteProfileReadFailsOpen(t *testing.T) {
	store := &fakeStore{readErr: errors.New("db down")}
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, store)

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "necklace",
	})
	if err != nil {
		t.Fatalf("broken profile store must not block quoting: %v", err)
	}
	if q.IsCustomMaking {
		t.Fatal("defaults expected when the profile is unreadable")
	}
}

func TestGenerateQuoteInputValidation(t *testing.T) {
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, &fakeStore{})

	cases := []QuoteRequest{
		{UserID: 1, WeightGrams: 0, Karat: "22k"},
		{UserID: 1, WeightGrams: -3, Karat: "22k"},
		{UserID: 1, WeightGrams: 5, Karat: "21k"},
		{UserID: 1, WeightGrams: 5, Karat: "22k", Currency: "EUR"},
	}
	for i, req := range cases {
		_, err := e.GenerateQuote(context.Background(), req)
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("case %d: expected InputError, got %v", i, err)
		}
	}
}

func TestGenerateQuoteQuantityAndMargin(t *testing.T) {
	store := &fakeStore{facts: []Fact{
		{Key: "profit_margin_pct", ValueNumeric: 15},
	}}
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, store)

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "bangle", Quantity: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nearlyEqual(t, q.GrandTotal, q.TotalPerPiece*3)
	// Margin overlays the grand total without touching GST or making.
	nearlyEqual(t, q.CostPrice, q.GrandTotal)
	nearlyEqual(t, q.SellingPrice, q.GrandTotal*1.15)
	nearlyEqual(t, q.Profit, q.GrandTotal*0.15)
}

func TestGenerateQuoteCustomProfileRates(t *testing.T) {
	store := &fakeStore{facts: []Fact{
		{Key: "making_necklace", ValueNumeric: 18},
		{Key: "wastage_necklace", ValueNumeric: 5},
		{Key: "hallmark_charge", ValueNumeric: 60},
	}}
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, store)

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "necklace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsCustomMaking {
		t.Fatal("profile making rate must be tagged custom")
	}
	nearlyEqual(t, q.WastagePct, 5)
	nearlyEqual(t, q.HallmarkCharge, 60)
	nearlyEqual(t, q.MakingCost, (q.GoldCost+q.WastageCost)*0.18)
}

func TestGenerateQuotePerGramModel(t *testing.T) {
	store := &fakeStore{facts: []Fact{
		{Key: "pricing_model", Value: "per_gram"},
		{Key: "labor_pergram_ring", ValueNumeric: 800},
	}}
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, store)

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 5, Karat: "18k", JewelryType: "ring",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearlyEqual(t, q.MakingCost, 5*800)
	if !q.IsCustomMaking {
		t.Fatal("per-gram labor is a custom rate")
	}
}

func TestGenerateQuoteStonesAndNotes(t *testing.T) {
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, &fakeStore{})

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "ring",
		CZCount: 30, CZSetting: "fishtail",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nearlyEqual(t, q.CZCost, 300) // pave fallback rate
	if len(q.Notes) == 0 {
		t.Fatal("fallback substitution must be noted")
	}
}

func TestGenerateQuoteNonNegative(t *testing.T) {
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, &fakeStore{})

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 0.1, Karat: "9k", JewelryType: "coin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, v := range map[string]float64{
		"gold": q.GoldCost, "wastage": q.WastageCost, "making": q.MakingCost,
		"subtotal": q.Subtotal, "gst": q.GST, "total": q.TotalPerPiece,
	} {
		if v < 0 {
			t.Errorf("%s is negative: %v", name, v)
		}
	}
}

func TestGenerateQuoteReferenceNumbers(t *testing.T) {
	rates := &fakeRates{snap: &RateSnapshot{City: "Mumbai", Gold24K: 10000, USDINR: 83.5, RateDate: "2026-08-23"}}
	e := testEngine(rates, &fakeStore{})

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "necklace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rate := 10000 * 0.916 / 0.999
	nearlyEqual(t, q.GoldRatePerGram, rate)
	nearlyEqual(t, q.GoldCost, 10*rate)
	nearlyEqual(t, q.WastageCost, 10*rate*0.03)
	nearlyEqual(t, q.MakingCost, 10*rate*1.03*0.14)
	nearlyEqual(t, q.GST, q.Subtotal*0.03)
	nearlyEqual(t, q.GrandTotal, q.TotalPerPiece)
}

func TestGenerateQuoteUnknownTypeFallsBack(t *testing.T) {
	e := testEngine(&fakeRates{snap: mumbaiSnap()}, &fakeStore{})

	q, err := e.GenerateQuote(context.Background(), QuoteRequest{
		UserID: 1, WeightGrams: 10, Karat: "22k", JewelryType: "gajra",
	})
	if err != nil {
		t.Fatalf("unknown type must not error: %v", err)
	}
	if q.JewelryType != "general" {
		t.Fatalf("jewelry type = %s, want general", q.JewelryType)
	}
	// general defaults: 2.5% wastage, 14% making
	nearlyEqual(t, q.WastagePct, 2.5)
}
