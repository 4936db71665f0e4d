package bot

import (
	"context"
	"errors"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/estimator"
	"detailing-bot/internal/preview"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const catalogUnavailable = "Prices are unavailable right now. Please try again later."

// handleStart posts a fresh estimator message with an empty selection.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	cat, err := b.catalog.Catalog(ctx)
	if err != nil {
		b.logger.Error("Failed to load catalog", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendError(chatID, catalogUnavailable)
		return
	}

	b.dropPreview(chatID)

	sel, err := b.sessions.ClearSelection(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to reset selection",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	out := tgbotapi.NewMessage(chatID, estimateText(estimator.View{}))
	out.ReplyMarkup = estimatorKeyboard(cat, sel)
	sent, ok := b.sendMessage(out)
	if !ok {
		return
	}

	if err := b.sessions.SetMessageID(ctx, chatID, sent.MessageID); err != nil {
		b.logger.Error("Failed to remember estimator message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) handlePrices(ctx context.Context, msg *tgbotapi.Message) {
	cat, err := b.catalog.Catalog(ctx)
	if err != nil {
		b.logger.Error("Failed to load catalog", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		b.sendError(msg.Chat.ID, catalogUnavailable)
		return
	}
	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, priceListText(cat)))
}

func (b *Bot) handleHelp(_ context.Context, msg *tgbotapi.Message) {
	b.sendMessage(tgbotapi.NewMessage(msg.Chat.ID, helpText))
}

func (b *Bot) processCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		b.answerCallback(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", cb.Data))

	kind, id, ok := parseCallback(cb.Data)
	if !ok {
		b.answerCallback(cb.ID, "Unknown option")
		return
	}

	cat, err := b.catalog.Catalog(ctx)
	if err != nil {
		b.logger.Error("Failed to load catalog", zap.Int64("chat_id", chatID), zap.Error(err))
		b.answerCallback(cb.ID, catalogUnavailable)
		return
	}

	if kind == callbackBook {
		b.handleBooking(ctx, cb, cat)
		return
	}

	if !b.allowToggle(ctx, chatID) {
		b.answerCallback(cb.ID, "Slow down a little ⏳")
		return
	}

	// A preview started for this tap picks up from the total already shown.
	var shown int
	if session, err := b.sessions.GetSession(ctx, chatID); err == nil {
		shown = estimator.Compute(cat, session.Selection).Target
	}

	var sel estimator.Selection
	switch kind {
	case callbackService:
		if !cat.HasService(id) {
			b.answerCallback(cb.ID, "This service is no longer offered")
			return
		}
		sel, err = b.sessions.ToggleService(ctx, chatID, id)
	case callbackPackage:
		if _, ok := cat.Package(id); !ok {
			b.answerCallback(cb.ID, "This package is no longer offered")
			return
		}
		sel, err = b.sessions.SelectPackage(ctx, chatID, id)
	case callbackClear:
		sel, err = b.sessions.ClearSelection(ctx, chatID)
	}
	if err != nil {
		b.logger.Error("Failed to update selection",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err))
		b.answerCallback(cb.ID, "Something went wrong, please try again")
		return
	}
	b.answerCallback(cb.ID, "")

	b.showSelection(ctx, chatID, cb.Message.MessageID, cat, sel, shown)
}

// showSelection animates the chat's estimator message towards sel. A preview
// that went idle between lookup and send is replaced once.
func (b *Bot) showSelection(ctx context.Context, chatID int64, messageID int, cat *catalog.Catalog, sel estimator.Selection, shown int) {
	markup := estimatorKeyboard(cat, sel)

	for attempt := 0; attempt < 2; attempt++ {
		p := b.previewFor(ctx, chatID, cat, shown)
		p.retarget(messageID, markup)

		err := p.loop.Send(ctx, sel)
		if err == nil {
			return
		}
		if !errors.Is(err, preview.ErrStopped) {
			b.logger.Warn("Failed to hand selection to preview",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return
		}
		b.forgetPreview(chatID, p)
	}
	b.logger.Warn("Preview kept stopping", zap.Int64("chat_id", chatID))
}

// allowToggle fails open when the limiter itself is unavailable.
func (b *Bot) allowToggle(ctx context.Context, chatID int64) bool {
	if b.cfg.ToggleRateLimit <= 0 {
		return true
	}

	allowed, err := b.sessions.AllowToggle(ctx, chatID, b.cfg.ToggleRateLimit, b.cfg.ToggleRateWindow)
	if err != nil {
		b.logger.Warn("Rate limit check failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return true
	}
	return allowed
}

func (b *Bot) handleBooking(ctx context.Context, cb *tgbotapi.CallbackQuery, cat *catalog.Catalog) {
	chatID := cb.Message.Chat.ID
	b.answerCallback(cb.ID, "")

	var q estimator.Quote
	if session, err := b.sessions.GetSession(ctx, chatID); err != nil {
		b.logger.Warn("Failed to read selection for booking", zap.Int64("chat_id", chatID), zap.Error(err))
	} else {
		q = estimator.Compute(cat, session.Selection)
	}

	out := tgbotapi.NewMessage(chatID, bookingText(b.cfg.Contact, q))
	if url := b.cfg.Contact.BookingURL; url != "" {
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🌐 Book online", url),
		))
	}
	b.sendMessage(out)
}
