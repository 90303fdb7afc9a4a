package pricing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"jewelclaw/internal/pricing/calculators"
)

// fallbackUSDINR is used when a rate snapshot carries no exchange rate.
const fallbackUSDINR = 83.5

// Engine is the quote assembler. It is stateless: every quote is a pure
// function of the request, the user's profile snapshot and the rate
// snapshot. Concurrent quotes never coordinate; a save racing a quote may
// read a stale profile, which is accepted (last write wins).
type Engine struct {
	rates       RateProvider
	store       ProfileStore
	logger      *zap.Logger
	defaultCity string
}

func NewEngine(rates RateProvider, store ProfileStore, logger *zap.Logger, defaultCity string) *Engine {
	if defaultCity == "" {
		defaultCity = "Mumbai"
	}
	return &Engine{
		rates:       rates,
		store:       store,
		logger:      logger,
		defaultCity: defaultCity,
	}
}

// Profile returns the user's assembled pricing profile, falling back to
// defaults when the store is unavailable. Profile reads fail open: a
// broken store must not block quoting.
func (e *Engine) Profile(ctx context.Context, userID int64) *Profile {
	facts, err := e.store.PricingFacts(ctx, userID)
	if err != nil {
		e.logger.Warn("profile read failed, quoting with defaults",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return DefaultProfile()
	}
	return ProfileFromFacts(facts)
}

// GenerateQuote computes a full itemized quote.
//
// All line items are computed and summed in full-precision INR. For USD
// quotes the INR aggregates are divided by the USD/INR rate at the end,
// never per line item, and GST is dropped (export convention). Amounts are
// rounded only when the bill is formatted.
func (e *Engine) GenerateQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	profile := e.Profile(ctx, req.UserID)

	cur := req.Currency
	if cur == "" {
		cur = profile.Currency
	}
	city := req.City
	if city == "" {
		city = e.defaultCity
	}

	snap, err := e.rates.LatestRate(ctx, city)
	if err != nil {
		var missing *MissingRateError
		if errors.As(err, &missing) {
			return nil, err
		}
		e.logger.Error("rate lookup failed",
			zap.String("city", city),
			zap.Error(err))
		return nil, &MissingRateError{City: city}
	}
	if snap == nil || snap.Gold24K <= 0 {
		return nil, &MissingRateError{City: city}
	}
	usdINR := snap.USDINR
	if usdINR <= 0 {
		usdINR = fallbackUSDINR
	}

	rateINR, err := calculators.KaratRate(snap.Gold24K, req.Karat)
	if err != nil {
		return nil, &InputError{Field: "karat", Reason: err.Error()}
	}

	q := &Quote{
		JewelryType: req.JewelryType,
		WeightGrams: req.WeightGrams,
		Karat:       req.Karat,
		City:        snap.City,
		Currency:    cur,
		USDINR:      usdINR,
		RateDate:    snap.RateDate,
		Quantity:    req.Quantity,
		CZCount:     req.CZCount,
	}

	goldCost := calculators.GoldCost(req.WeightGrams, rateINR)

	wastagePct, _ := calculators.ResolvePercent(
		req.WastagePct, profile.Wastage, calculators.DefaultWastage, req.JewelryType)
	wastageCost := calculators.WastageCost(goldCost, wastagePct)
	q.WastagePct = wastagePct

	div := 1.0
	if cur == "USD" {
		div = usdINR
	}
	amount := func(inr float64) string { return FormatAmount(inr/div, cur) }

	makingCost, makingDetail, makingSource := e.makingCost(req, profile, goldCost, wastageCost, amount)
	q.MakingDetail = makingDetail
	q.IsCustomMaking = makingSource != calculators.SourceDefault

	cz := calculators.CZCost(req.CZCount, req.CZSetting, profile.CZRates)
	if cz.FellBack {
		q.Notes = append(q.Notes, fmt.Sprintf("unknown CZ setting %q priced as pave", req.CZSetting))
	}
	if req.CZCount > 0 {
		q.CZDetail = fmt.Sprintf("%d stones x %s (%s)", req.CZCount, amount(cz.PerStone), cz.Setting)
	}

	var diamondCost, diamondSettingCost float64
	for _, g := range req.Diamonds {
		res := calculators.DiamondGroupCost(
			g, profile.DiamondRates, profile.LabDiamondRates, profile.SettingRates, usdINR)
		diamondCost += res.CostINR
		diamondSettingCost += res.SettingCostINR
		q.DiamondDetails = append(q.DiamondDetails,
			fmt.Sprintf("%s = %s", res.Detail, amount(res.CostINR)))
		if res.SettingFellBack {
			q.Notes = append(q.Notes, fmt.Sprintf("unknown diamond setting %q priced at the standard rate", g.Setting))
		}
	}

	var gemstoneCost float64
	for _, g := range req.Gemstones {
		res := calculators.GemstoneCost(g, profile.GemstoneRates, usdINR)
		gemstoneCost += res.CostINR
		q.GemstoneDetails = append(q.GemstoneDetails,
			fmt.Sprintf("%s = %s", res.Detail, amount(res.CostINR)))
		if res.FellBack {
			q.Notes = append(q.Notes, fmt.Sprintf("no rate for %s %s, generic rate applied", g.Stone, g.Grade))
		}
	}

	finishingCost, finishLines := calculators.FinishingCost(req.Finishing, profile.FinishingRates)
	for _, fl := range finishLines {
		q.FinishingDetails = append(q.FinishingDetails,
			fmt.Sprintf("%s: %s", fl.Type, amount(fl.CostINR)))
		if fl.FellBack {
			q.Notes = append(q.Notes, fmt.Sprintf("unknown finish %q priced at the standard rate", fl.Type))
		}
	}

	hallmark := profile.HallmarkCharge

	subtotal := goldCost + wastageCost + makingCost + req.StoneCost +
		cz.Cost + diamondCost + diamondSettingCost + gemstoneCost +
		finishingCost + hallmark

	gstPct := profile.GSTPct
	if cur == "USD" {
		// Exports carry no GST.
		gstPct = 0
	}
	gst := calculators.GSTAmount(subtotal, gstPct)
	totalPerPiece := subtotal + gst
	grandTotal := totalPerPiece * float64(req.Quantity)

	// Single conversion point: INR aggregates divided by USD/INR.
	q.GoldRatePerGram = rateINR / div
	q.GoldCost = goldCost / div
	q.WastageCost = wastageCost / div
	q.MakingCost = makingCost / div
	q.CZCost = cz.Cost / div
	q.DiamondCost = diamondCost / div
	q.DiamondSettingCost = diamondSettingCost / div
	q.GemstoneCost = gemstoneCost / div
	q.FinishingCost = finishingCost / div
	q.StoneCost = req.StoneCost / div
	q.HallmarkCharge = hallmark / div
	q.Subtotal = subtotal / div
	q.GSTPct = gstPct
	q.GST = gst / div
	q.TotalPerPiece = totalPerPiece / div
	q.GrandTotal = grandTotal / div

	// Margin overlay on the grand total; it never feeds back into GST or
	// making charges.
	if profile.ProfitMarginPct > 0 {
		q.ProfitMarginPct = profile.ProfitMarginPct
		q.CostPrice = q.GrandTotal
		q.Profit = q.GrandTotal * profile.ProfitMarginPct / 100
		q.SellingPrice = q.CostPrice + q.Profit
	}

	return q, nil
}

// makingCost resolves the labor fee. Per-call CFP and labor-per-gram
// overrides win over the profile's pricing model; the percentage path
// resolves override > profile type > profile general > default table.
func (e *Engine) makingCost(req QuoteRequest, profile *Profile, goldCost, wastageCost float64, amount func(float64) string) (float64, string, calculators.Source) {
	switch {
	case req.CFPRate != nil:
		return *req.CFPRate, "CFP " + amount(*req.CFPRate), calculators.SourceOverride
	case req.LaborPerGram != nil:
		cost := req.WeightGrams * *req.LaborPerGram
		return cost, fmt.Sprintf("%s/gm x %gg", amount(*req.LaborPerGram), req.WeightGrams), calculators.SourceOverride
	}

	switch profile.PricingModel {
	case ModelPerGram:
		lpg := profile.LaborPerGram[req.JewelryType]
		if lpg == 0 {
			lpg = profile.LaborPerGram["general"]
		}
		if lpg > 0 {
			cost := req.WeightGrams * lpg
			return cost, fmt.Sprintf("%s/gm x %gg", amount(lpg), req.WeightGrams), calculators.SourceProfile
		}
	case ModelPerPiece:
		if cfp := profile.CFPRates[req.JewelryType]; cfp > 0 {
			return cfp, "CFP " + amount(cfp), calculators.SourceProfile
		}
	}

	pct, source := calculators.ResolvePercent(
		req.MakingChargePct, profile.MakingCharges, calculators.DefaultMakingCharges, req.JewelryType)
	cost := calculators.MakingCost(goldCost, wastageCost, pct)
	return cost, fmt.Sprintf("%g%%", pct), source
}
