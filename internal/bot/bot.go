package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jewelclaw/internal/config"
	"jewelclaw/internal/pricing"
	"jewelclaw/internal/storage"
	"jewelclaw/pkg/whatsapp"
)

// Bot routes inbound WhatsApp messages to pricing commands. It is safe
// for concurrent use: handlers share no per-conversation state.
type Bot struct {
	wa           *whatsapp.Client
	storage      *storage.PostgresStorage
	engine       *pricing.Engine
	configurator *pricing.Configurator
	logger       *zap.Logger
	cfg          *config.Config
	handlers     []route
}

type route struct {
	prefix  string
	handler func(context.Context, *storage.User, string) string
}

func New(
	wa *whatsapp.Client,
	pgStorage *storage.PostgresStorage,
	engine *pricing.Engine,
	configurator *pricing.Configurator,
	logger *zap.Logger,
	cfg *config.Config,
) *Bot {
	b := &Bot{
		wa:           wa,
		storage:      pgStorage,
		engine:       engine,
		configurator: configurator,
		logger:       logger,
		cfg:          cfg,
	}
	b.registerHandlers()
	return b
}

// registerHandlers wires command prefixes to handlers. Order matters:
// the first matching prefix wins, so longer prefixes come first.
func (b *Bot) registerHandlers() {
	b.handlers = []route{
		{"price profile", b.handleProfile},
		{"price setup", b.handleSetup},
		{"price export", b.handleExport},
		{"price set", b.handleSet},
		{"quote", b.handleQuote},
		{"gold", b.handleRate},
		{"rate", b.handleRate},
		{"help", b.handleHelp},
		{"hi", b.handleHelp},
		{"hello", b.handleHelp},
		{"start", b.handleHelp},
	}
}

// HandleIncoming processes one inbound message and sends the reply.
// fromPhone arrives with or without the "whatsapp:" prefix.
func (b *Bot) HandleIncoming(ctx context.Context, fromPhone, body string) error {
	// Canonical form keys the user row: "98765 43210" and
	// "whatsapp:+919876543210" must resolve to the same account.
	phone := NormalizePhoneNumber(strings.TrimPrefix(fromPhone, "whatsapp:"))

	user, err := b.storage.UpsertUser(ctx, phone)
	if err != nil {
		b.logger.Error("Failed to upsert user",
			zap.String("phone", phone),
			zap.Error(err))
		return fmt.Errorf("upsert user: %w", err)
	}

	limited, err := b.storage.CheckRateLimit(ctx, user.ID, "message",
		b.cfg.MessageRateLimit, b.cfg.MessageRateWindow)
	if err != nil {
		b.logger.Warn("Rate limit check failed", zap.Error(err))
	}
	if limited {
		b.logger.Info("User rate limited", zap.Int64("user_id", user.ID))
		return b.wa.SendText(ctx, phone, "⏳ Too many messages. Please wait a minute and try again.")
	}

	text := strings.TrimSpace(body)
	lower := strings.ToLower(text)

	b.logger.Debug("Processing message",
		zap.Int64("user_id", user.ID),
		zap.String("text", text))

	reply := ""
	for _, r := range b.handlers {
		if strings.HasPrefix(lower, r.prefix) {
			reply = r.handler(ctx, user, text)
			break
		}
	}
	if reply == "" {
		// No command prefix: try the text as a shorthand quote before
		// giving up with the help screen.
		if _, ok := pricing.ParseQuoteText(lower); ok {
			reply = b.handleQuote(ctx, user, text)
		} else {
			reply = b.handleHelp(ctx, user, text)
		}
	}

	return b.wa.SendText(ctx, phone, reply)
}
