package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jewelclaw/internal/pricing"
	"jewelclaw/internal/pricing/calculators"
	"jewelclaw/internal/storage"
)

func (b *Bot) handleQuote(ctx context.Context, user *storage.User, text string) string {
	req, ok := pricing.ParseQuoteText(strings.ToLower(text))
	if !ok {
		return "I couldn't find a weight in that. Try: *quote 10g 22k necklace*"
	}
	req.UserID = user.ID
	if req.City == "" {
		req.City = user.PreferredCity
	}

	quote, err := b.engine.GenerateQuote(ctx, req)
	if err != nil {
		var inputErr *pricing.InputError
		var missing *pricing.MissingRateError
		switch {
		case errors.As(err, &inputErr):
			return fmt.Sprintf("⚠️ %s", inputErr.Error())
		case errors.As(err, &missing):
			return fmt.Sprintf("⚠️ %s", missing.Error())
		}
		b.logger.Error("Quote generation failed",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return "Something went wrong generating the quote. Please try again."
	}

	return pricing.FormatBill(quote)
}

func (b *Bot) handleSet(ctx context.Context, user *storage.User, text string) string {
	data, ok := pricing.ParseSetupText(strings.ToLower(text))
	if !ok {
		return "I didn't recognize that setting. Send *price setup* for the command list."
	}

	saved, err := b.configurator.Apply(ctx, user.ID, data)
	if err != nil {
		b.logger.Error("Failed to apply pricing config",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}
	return setReply(saved, err)
}

// setReply renders the save confirmation. A write failure is always
// surfaced to the user, even when some keys landed before it.
func setReply(saved []string, err error) string {
	if len(saved) == 0 {
		if err != nil {
			return "Couldn't save that right now. Please try again."
		}
		return "Nothing to save there. Send *price setup* for the command list."
	}

	var sb strings.Builder
	sb.WriteString("✅ *Saved:*\n")
	for _, s := range saved {
		sb.WriteString("  " + s + "\n")
	}
	if err != nil {
		sb.WriteString("\n⚠️ Some settings could not be saved. Please send them again.")
	}
	sb.WriteString("\nView anytime with *price profile*")
	return sb.String()
}

func (b *Bot) handleProfile(ctx context.Context, user *storage.User, _ string) string {
	return pricing.FormatProfileSummary(b.engine.Profile(ctx, user.ID))
}

func (b *Bot) handleSetup(_ context.Context, _ *storage.User, _ string) string {
	return pricing.SetupMenu()
}

func (b *Bot) handleExport(ctx context.Context, user *storage.User, _ string) string {
	facts, err := b.storage.PricingFacts(ctx, user.ID)
	if err != nil {
		b.logger.Error("Failed to load facts for export",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return "Couldn't read your profile right now. Please try again."
	}
	if len(facts) == 0 {
		return "Your profile is empty. Set rates first with *price set ...*"
	}

	path, err := storage.ExportProfileToExcel(user, facts, "exports")
	if err != nil {
		b.logger.Error("Profile export failed",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return "Export failed. Please try again."
	}

	b.logger.Info("Profile exported",
		zap.Int64("user_id", user.ID),
		zap.String("path", path))
	return fmt.Sprintf("📊 Profile exported (%d settings). Ask your admin for the file: %s", len(facts), path)
}

func (b *Bot) handleRate(ctx context.Context, user *storage.User, text string) string {
	city := user.PreferredCity
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) > 1 {
		city = fields[len(fields)-1]
	}

	snap, err := b.storage.LatestRate(ctx, city)
	if err != nil {
		return fmt.Sprintf("⚠️ %s", err.Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 *Gold Rates — %s* (%s)\n", snap.City, snap.RateDate)
	for _, k := range []string{"24k", "22k", "18k", "14k"} {
		rate, err := calculators.KaratRate(snap.Gold24K, k)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "  %s: %s/gm\n", strings.ToUpper(k), pricing.FormatAmount(rate, "INR"))
	}
	if snap.USDINR > 0 {
		fmt.Fprintf(&sb, "  USD/INR: %.2f\n", snap.USDINR)
	}
	return sb.String()
}

func (b *Bot) handleHelp(_ context.Context, _ *storage.User, _ string) string {
	return `👋 *JewelClaw* — jewelry pricing assistant

*Quick quote:*
quote 10g 22k necklace
quote 5g 18k ring 30 cz pave
quote 8g 14k pendant 0.5ct diamond lab

*Rates:*
gold — today's gold rate
gold Chennai — rate for a city

*Your pricing:*
price setup — set your rates
price profile — view your rates
price export — export to Excel

Just type what you need, I'll figure it out.`
}
