package pricing

import (
	"fmt"
	"strings"

	"jewelclaw/internal/pricing/calculators"
)

const billDivider = "━━━━━━━━━━━━━━━━━━━━━"

// FormatAmount renders an amount with its currency symbol. INR amounts of
// a lakh or more use the Indian lakh notation.
func FormatAmount(amount float64, currency string) string {
	if currency == "USD" {
		if amount >= 1000 {
			return fmt.Sprintf("$%.0f", amount)
		}
		return fmt.Sprintf("$%.2f", amount)
	}
	if amount >= 100000 {
		return fmt.Sprintf("₹%.2fL", amount/100000)
	}
	return fmt.Sprintf("₹%.0f", amount)
}

// FormatBill renders a quote as a WhatsApp bill. Line order is fixed:
// gold, wastage, making, stones, hallmark, subtotal, GST, total.
func FormatBill(q *Quote) string {
	cur := q.Currency
	var b strings.Builder

	fmt.Fprintf(&b, "📋 *JewelClaw Quote*\n%s\n", billDivider)
	fmt.Fprintf(&b, "*%s* | %s | %gg\n", title(q.JewelryType), strings.ToUpper(q.Karat), q.WeightGrams)
	if cur == "USD" {
		fmt.Fprintf(&b, "💱 Currency: *USD* (₹1 = $%.4f)\n", 1/q.USDINR)
	}
	fmt.Fprintf(&b, "\n💰 Gold: %s/gm (%s)\n", FormatAmount(q.GoldRatePerGram, cur), q.City)
	if q.RateDate != "" {
		fmt.Fprintf(&b, "📅 %s\n", q.RateDate)
	}

	b.WriteString("\n*Breakdown:*\n")
	fmt.Fprintf(&b, "  Gold (%gg x %s)  %s\n", q.WeightGrams, FormatAmount(q.GoldRatePerGram, cur), FormatAmount(q.GoldCost, cur))
	fmt.Fprintf(&b, "  Wastage (%g%%)  %s\n", q.WastagePct, FormatAmount(q.WastageCost, cur))

	tag := " _(default)_"
	if q.IsCustomMaking {
		tag = " ✓"
	}
	fmt.Fprintf(&b, "  Making (%s%s)  %s\n", q.MakingDetail, tag, FormatAmount(q.MakingCost, cur))

	if q.CZCount > 0 {
		fmt.Fprintf(&b, "  CZ (%s)  %s\n", q.CZDetail, FormatAmount(q.CZCost, cur))
	}
	if q.DiamondCost > 0 {
		b.WriteString("  *Diamonds:*\n")
		for _, d := range q.DiamondDetails {
			fmt.Fprintf(&b, "    %s\n", d)
		}
		if q.DiamondSettingCost > 0 {
			fmt.Fprintf(&b, "  Setting  %s\n", FormatAmount(q.DiamondSettingCost, cur))
		}
	}
	if q.GemstoneCost > 0 {
		b.WriteString("  *Gemstones:*\n")
		for _, g := range q.GemstoneDetails {
			fmt.Fprintf(&b, "    %s\n", g)
		}
	}
	if q.FinishingCost > 0 {
		b.WriteString("  *Finishing:*\n")
		for _, f := range q.FinishingDetails {
			fmt.Fprintf(&b, "    %s\n", f)
		}
	}
	if q.StoneCost > 0 {
		fmt.Fprintf(&b, "  Stones  %s\n", FormatAmount(q.StoneCost, cur))
	}
	if q.HallmarkCharge > 0.01 {
		fmt.Fprintf(&b, "  Hallmark  %s\n", FormatAmount(q.HallmarkCharge, cur))
	}

	b.WriteString("  ─────────────────\n")
	fmt.Fprintf(&b, "  Subtotal  %s\n", FormatAmount(q.Subtotal, cur))
	if q.GSTPct > 0 {
		fmt.Fprintf(&b, "  GST (%g%%)  %s\n", q.GSTPct, FormatAmount(q.GST, cur))
	}
	b.WriteString(billDivider + "\n")

	if q.ProfitMarginPct > 0 {
		fmt.Fprintf(&b, "*COST: %s*\n", FormatAmount(q.CostPrice, cur))
		fmt.Fprintf(&b, "Margin (%g%%): +%s\n", q.ProfitMarginPct, FormatAmount(q.Profit, cur))
		fmt.Fprintf(&b, "*SELL: %s*\n", FormatAmount(q.SellingPrice, cur))
	} else {
		fmt.Fprintf(&b, "*TOTAL: %s*\n", FormatAmount(q.TotalPerPiece, cur))
	}
	if q.Quantity > 1 {
		fmt.Fprintf(&b, "*x %d pcs = %s*\n", q.Quantity, FormatAmount(q.GrandTotal, cur))
	}

	for _, n := range q.Notes {
		fmt.Fprintf(&b, "\n_Note: %s_", n)
	}
	b.WriteString("\n\n_Your rates are saved. Chat with me to update._")
	return b.String()
}

// FormatProfileSummary renders the user's pricing setup for the
// "price profile" command.
func FormatProfileSummary(p *Profile) string {
	cur := p.Currency
	var b strings.Builder

	fmt.Fprintf(&b, "⚙️ *Your Pricing Profile*\n%s\n\n", billDivider)
	fmt.Fprintf(&b, "*Model:* %s\n*Currency:* %s\n", p.PricingModel, cur)
	if p.ProfitMarginPct > 0 {
		fmt.Fprintf(&b, "*Profit Margin:* %g%%\n", p.ProfitMarginPct)
	}
	b.WriteString("\n*Making Charges:*\n")
	for _, jtype := range []string{"necklace", "ring", "bangle", "earring", "chain", "pendant", "bracelet", "mangalsutra", "nosering", "anklet", "coin"} {
		if rate, ok := p.MakingCharges[jtype]; ok {
			fmt.Fprintf(&b, "  %s: *%g%%* ✓\n", title(jtype), rate)
		} else {
			fmt.Fprintf(&b, "  %s: %g%% _(default)_\n", title(jtype), calculators.DefaultMakingCharges[jtype])
		}
	}

	if len(p.Wastage) > 0 {
		b.WriteString("\n*Wastage:*\n")
		for jtype, rate := range p.Wastage {
			fmt.Fprintf(&b, "  %s: *%g%%* ✓\n", title(jtype), rate)
		}
	}
	if len(p.CZRates) > 0 {
		b.WriteString("\n*CZ Rates:*\n")
		for setting, rate := range p.CZRates {
			fmt.Fprintf(&b, "  %s: *%s/stone* ✓\n", title(setting), FormatAmount(rate, cur))
		}
	}
	if len(p.DiamondRates) > 0 {
		b.WriteString("\n*Diamond Rates (per ct):*\n")
		for key, rate := range p.DiamondRates {
			fmt.Fprintf(&b, "  %s: *$%.0f/ct* ✓\n", key, rate)
		}
	}
	if len(p.FinishingRates) > 0 {
		b.WriteString("\n*Finishing Charges:*\n")
		for ftype, rate := range p.FinishingRates {
			fmt.Fprintf(&b, "  %s: *%s/pc* ✓\n", title(ftype), FormatAmount(rate, cur))
		}
	}

	fmt.Fprintf(&b, "\n*Other:*\n  Hallmark: %s/pc\n  GST: %g%%\n", FormatAmount(p.HallmarkCharge, "INR"), p.GSTPct)
	b.WriteString("\n_✓ = your custom rate_")
	return b.String()
}

// title capitalizes the first letter for display labels.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SetupMenu lists the manual pricing commands.
func SetupMenu() string {
	return `⚙️ *Pricing Setup*

Tell me your rates and I'll remember them.

*Manual commands:*
price set model percentage
price set necklace 15
price set ring labor 800
price set ring cfp 3.25
price set ring wastage 2.5
price set hallmark 50
price set cz pave 12
price set setting prong 15
price set finishing rhodium 80
price set diamond melee 850
price set gemstone ruby 450
price set margin 15
price set currency usd

*View profile:* price profile
*Quick quote:* quote 10g 22k necklace`
}
