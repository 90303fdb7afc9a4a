package pricing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jewelclaw/internal/pricing/calculators"
)

// PricingData is a free-form "set my rates" payload: any subset of fields
// may be present. Unrecognized keys in the source mapping simply never
// reach this struct and are ignored, not errors.
type PricingData struct {
	PricingModel string `json:"pricing_model,omitempty"`
	Currency     string `json:"currency,omitempty"`

	MakingCharges   map[string]float64 `json:"making_charges,omitempty"`
	LaborPerGram    map[string]float64 `json:"labor_per_gram,omitempty"`
	CFPRates        map[string]float64 `json:"cfp_rates,omitempty"`
	Wastage         map[string]float64 `json:"wastage,omitempty"`
	CZRates         map[string]float64 `json:"cz_rates,omitempty"`
	DiamondRates    map[string]float64 `json:"diamond_rates,omitempty"`
	LabDiamondRates map[string]float64 `json:"lab_diamond_rates,omitempty"`
	GemstoneRates   map[string]float64 `json:"gemstone_rates,omitempty"`
	SettingRates    map[string]float64 `json:"setting_rates,omitempty"`
	FinishingRates  map[string]float64 `json:"finishing_rates,omitempty"`

	HallmarkCharge  *float64 `json:"hallmark_charge,omitempty"`
	GSTPct          *float64 `json:"gst_pct,omitempty"`
	ProfitMarginPct *float64 `json:"profit_margin_pct,omitempty"`
}

// Configurator validates and persists pricing instructions into the
// profile store. Writes fail open to the caller: a failed upsert is
// surfaced, never dropped silently.
type Configurator struct {
	store  ProfileStore
	logger *zap.Logger
}

func NewConfigurator(store ProfileStore, logger *zap.Logger) *Configurator {
	return &Configurator{store: store, logger: logger}
}

// Apply upserts every recognized field and returns descriptions of the
// keys actually written. Each key is a pure overwrite; applying the same
// data twice leaves the profile unchanged.
func (c *Configurator) Apply(ctx context.Context, userID int64, data PricingData) ([]string, error) {
	var saved []string

	write := func(key, value string, numeric float64, desc string) error {
		err := c.store.UpsertFact(ctx, userID, Fact{
			Category:     "pricing_profile",
			Key:          key,
			Value:        value,
			ValueNumeric: numeric,
		})
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		saved = append(saved, desc)
		return nil
	}

	if m := normalizeModel(data.PricingModel); m != "" {
		if err := write("pricing_model", m, 0, "Model: "+m); err != nil {
			return saved, err
		}
	}
	if cur := strings.ToUpper(data.Currency); cur == "INR" || cur == "USD" {
		if err := write("currency", cur, 0, "Currency: "+cur); err != nil {
			return saved, err
		}
	}

	for jtype, pct := range data.MakingCharges {
		jt := calculators.NormalizeJewelryType(jtype)
		if err := write(keyMaking+jt, fmt.Sprintf("%g%%", pct), pct,
			fmt.Sprintf("Making %s: %g%%", jt, pct)); err != nil {
			return saved, err
		}
	}
	for jtype, rate := range data.LaborPerGram {
		jt := calculators.NormalizeJewelryType(jtype)
		if err := write(keyLabor+jt, fmt.Sprintf("%g/gm", rate), rate,
			fmt.Sprintf("Labor %s: %g/gm", jt, rate)); err != nil {
			return saved, err
		}
	}
	for jtype, rate := range data.CFPRates {
		jt := calculators.NormalizeJewelryType(jtype)
		if err := write(keyCFP+jt, fmt.Sprintf("%g", rate), rate,
			fmt.Sprintf("CFP %s: %g", jt, rate)); err != nil {
			return saved, err
		}
	}
	for jtype, pct := range data.Wastage {
		jt := calculators.NormalizeJewelryType(jtype)
		if err := write(keyWastage+jt, fmt.Sprintf("%g%%", pct), pct,
			fmt.Sprintf("Wastage %s: %g%%", jt, pct)); err != nil {
			return saved, err
		}
	}
	for setting, rate := range data.CZRates {
		s := calculators.NormalizeKey(setting)
		if err := write(keyCZ+s, fmt.Sprintf("%g/stone", rate), rate,
			fmt.Sprintf("CZ %s: %g/stone", s, rate)); err != nil {
			return saved, err
		}
	}
	for key, rate := range data.DiamondRates {
		k := diamondRateKey(key)
		if err := write(keyDiamond+k, fmt.Sprintf("$%g/ct", rate), rate,
			fmt.Sprintf("Diamond %s: $%g/ct", k, rate)); err != nil {
			return saved, err
		}
	}
	for key, rate := range data.LabDiamondRates {
		k := diamondRateKey(key)
		if err := write(keyLabDiamond+k, fmt.Sprintf("$%g/ct", rate), rate,
			fmt.Sprintf("Lab diamond %s: $%g/ct", k, rate)); err != nil {
			return saved, err
		}
	}
	for stone, rate := range data.GemstoneRates {
		s := calculators.NormalizeKey(stone)
		if err := write(keyGemstone+s, fmt.Sprintf("$%g/ct", rate), rate,
			fmt.Sprintf("Gemstone %s: $%g/ct", s, rate)); err != nil {
			return saved, err
		}
	}
	for setting, rate := range data.SettingRates {
		s := calculators.NormalizeKey(setting)
		if err := write(keySetting+s, fmt.Sprintf("%g/stone", rate), rate,
			fmt.Sprintf("Setting %s: %g/stone", s, rate)); err != nil {
			return saved, err
		}
	}
	for ftype, rate := range data.FinishingRates {
		f := calculators.NormalizeKey(ftype)
		if err := write(keyFinishing+f, fmt.Sprintf("%g/pc", rate), rate,
			fmt.Sprintf("Finishing %s: %g/pc", f, rate)); err != nil {
			return saved, err
		}
	}

	if data.HallmarkCharge != nil {
		if err := write("hallmark_charge", fmt.Sprintf("%g", *data.HallmarkCharge), *data.HallmarkCharge,
			fmt.Sprintf("Hallmark: %g/pc", *data.HallmarkCharge)); err != nil {
			return saved, err
		}
	}
	if data.GSTPct != nil {
		if err := write("gst_pct", fmt.Sprintf("%g%%", *data.GSTPct), *data.GSTPct,
			fmt.Sprintf("GST: %g%%", *data.GSTPct)); err != nil {
			return saved, err
		}
	}
	if data.ProfitMarginPct != nil {
		if err := write("profit_margin_pct", fmt.Sprintf("%g%%", *data.ProfitMarginPct), *data.ProfitMarginPct,
			fmt.Sprintf("Margin: %g%%", *data.ProfitMarginPct)); err != nil {
			return saved, err
		}
	}

	c.logger.Info("pricing config applied",
		zap.Int64("user_id", userID),
		zap.Int("fields", len(saved)))
	return saved, nil
}

// diamondRateKey canonicalizes a diamond rate key to sizecat_quality in
// lowercase; a bare size category gets the mid quality tier.
func diamondRateKey(key string) string {
	k := calculators.NormalizeKey(key)
	for _, q := range []string{"def_vvs", "gh_vs", "ij_si"} {
		if strings.HasSuffix(k, "_"+q) || k == q {
			return k
		}
	}
	return k + "_gh_vs"
}

func normalizeModel(model string) string {
	switch calculators.NormalizeKey(model) {
	case "percentage":
		return ModelPercentage
	case "per_gram", "pergram":
		return ModelPerGram
	case "per_piece", "perpiece", "cfp":
		return ModelPerPiece
	}
	return ""
}

// ---------------------------------------------------------------------------
// "price set ..." shorthand
// ---------------------------------------------------------------------------

var (
	reSetModel     = regexp.MustCompile(`^model\s+(\S+)`)
	reSetCurrency  = regexp.MustCompile(`^currency\s+(inr|usd|rupees?|dollars?|₹|\$)`)
	reSetMargin    = regexp.MustCompile(`^(?:profit\s+)?margin\s+(\d+(?:\.\d+)?)\s*%?`)
	reSetHallmark  = regexp.MustCompile(`^hallmark\s+(\d+(?:\.\d+)?)`)
	reSetGST       = regexp.MustCompile(`^gst\s+(\d+(?:\.\d+)?)\s*%?`)
	reSetCZ        = regexp.MustCompile(`^cz\s+(\w+)\s+(\d+(?:\.\d+)?)`)
	reSetSetting   = regexp.MustCompile(`^setting\s+(\w+)\s+(\d+(?:\.\d+)?)`)
	reSetFinishing = regexp.MustCompile(`^finishing\s+(\w+)\s+(\d+(?:\.\d+)?)`)
	reSetGemstone  = regexp.MustCompile(`^gemstone\s+(\w+)\s+(\d+(?:\.\d+)?)`)
	reSetDiamond   = regexp.MustCompile(`^(lab\s+)?diamond\s+(\w+)\s+(\d+(?:\.\d+)?)`)
	reSetWastage   = regexp.MustCompile(`^(\w+)\s+wastage\s+(\d+(?:\.\d+)?)`)
	reSetLabor     = regexp.MustCompile(`^(\w+)\s+labor\s+(\d+(?:\.\d+)?)`)
	reSetCFP       = regexp.MustCompile(`^(\w+)\s+cfp\s+(\d+(?:\.\d+)?)`)
	reSetMaking    = regexp.MustCompile(`^(\w+)\s+(?:making\s+)?(\d+(?:\.\d+)?)\s*%?`)
)

// ParseSetupText parses one "price set ..." command into a PricingData
// payload. The second return is false when nothing was recognized.
func ParseSetupText(text string) (PricingData, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.TrimPrefix(text, "price set")
	text = strings.TrimSpace(text)

	var data PricingData
	num := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}

	switch {
	case reSetModel.MatchString(text):
		data.PricingModel = reSetModel.FindStringSubmatch(text)[1]
		return data, normalizeModel(data.PricingModel) != ""
	case reSetCurrency.MatchString(text):
		c := reSetCurrency.FindStringSubmatch(text)[1]
		if c == "usd" || c == "$" || strings.HasPrefix(c, "dollar") {
			data.Currency = "USD"
		} else {
			data.Currency = "INR"
		}
		return data, true
	case reSetMargin.MatchString(text):
		v := num(reSetMargin.FindStringSubmatch(text)[1])
		data.ProfitMarginPct = &v
		return data, true
	case reSetHallmark.MatchString(text):
		v := num(reSetHallmark.FindStringSubmatch(text)[1])
		data.HallmarkCharge = &v
		return data, true
	case reSetGST.MatchString(text):
		v := num(reSetGST.FindStringSubmatch(text)[1])
		data.GSTPct = &v
		return data, true
	case reSetCZ.MatchString(text):
		m := reSetCZ.FindStringSubmatch(text)
		data.CZRates = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetSetting.MatchString(text):
		m := reSetSetting.FindStringSubmatch(text)
		data.SettingRates = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetFinishing.MatchString(text):
		m := reSetFinishing.FindStringSubmatch(text)
		data.FinishingRates = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetDiamond.MatchString(text):
		m := reSetDiamond.FindStringSubmatch(text)
		rates := map[string]float64{m[2]: num(m[3])}
		if m[1] != "" {
			data.LabDiamondRates = rates
		} else {
			data.DiamondRates = rates
		}
		return data, true
	case reSetGemstone.MatchString(text):
		m := reSetGemstone.FindStringSubmatch(text)
		data.GemstoneRates = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetWastage.MatchString(text):
		m := reSetWastage.FindStringSubmatch(text)
		data.Wastage = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetLabor.MatchString(text):
		m := reSetLabor.FindStringSubmatch(text)
		data.LaborPerGram = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetCFP.MatchString(text):
		m := reSetCFP.FindStringSubmatch(text)
		data.CFPRates = map[string]float64{m[1]: num(m[2])}
		return data, true
	case reSetMaking.MatchString(text):
		m := reSetMaking.FindStringSubmatch(text)
		data.MakingCharges = map[string]float64{m[1]: num(m[2])}
		return data, true
	}
	return data, false
}
