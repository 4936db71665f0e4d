package bot

import (
	"context"
	"sync"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/estimator"
	"detailing-bot/internal/preview"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// chatPreview is the animated estimate shown in one chat's estimator message.
type chatPreview struct {
	loop   *preview.Loop
	cancel context.CancelFunc

	mu        sync.Mutex
	messageID int
	markup    tgbotapi.InlineKeyboardMarkup
	lastText  string
}

// retarget points the preview at a message and keyboard. The next frame is
// sent even if its text is unchanged.
func (p *chatPreview) retarget(messageID int, markup tgbotapi.InlineKeyboardMarkup) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messageID = messageID
	p.markup = markup
	p.lastText = ""
}

// previewFor returns the chat's running preview. A new one starts out showing
// shown, the total already on screen. Idle previews stop themselves and leave
// the map.
func (b *Bot) previewFor(ctx context.Context, chatID int64, c *catalog.Catalog, shown int) *chatPreview {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.previews[chatID]; ok {
		return p
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p := &chatPreview{cancel: cancel}

	est := estimator.New(c,
		estimator.WithDuration(b.cfg.AnimationDuration),
		estimator.WithDisplayed(shown))
	p.loop = preview.New(est, b.cfg.BotFrameInterval, b.renderer(chatID, p),
		b.logger.With(zap.Int64("chat_id", chatID)),
		preview.WithIdleTimeout(b.cfg.PreviewIdleTimeout))
	b.previews[chatID] = p

	go func() {
		defer b.forgetPreview(chatID, p)
		if err := p.loop.Run(loopCtx); err != nil {
			b.logger.Error("Preview loop failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}()
	return p
}

// forgetPreview removes p once its loop has ended, unless the chat has moved
// on to another preview.
func (b *Bot) forgetPreview(chatID int64, p *chatPreview) {
	b.mu.Lock()
	if b.previews[chatID] == p {
		delete(b.previews, chatID)
	}
	b.mu.Unlock()
	p.cancel()
}

func (b *Bot) renderer(chatID int64, p *chatPreview) preview.Renderer {
	return func(ctx context.Context, v estimator.View) {
		text := estimateText(v)

		p.mu.Lock()
		if text == p.lastText || p.messageID == 0 {
			p.mu.Unlock()
			return
		}
		p.lastText = text
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, p.messageID, text, p.markup)
		p.mu.Unlock()

		if _, err := b.api.Send(edit); err != nil {
			b.logger.Warn("Failed to update estimate",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
	}
}

// dropPreview stops the chat's preview so the next one starts from $0.
func (b *Bot) dropPreview(chatID int64) {
	b.mu.Lock()
	p, ok := b.previews[chatID]
	delete(b.previews, chatID)
	b.mu.Unlock()

	if ok {
		p.cancel()
		<-p.loop.Done()
	}
}

func (b *Bot) stopPreviews() {
	b.mu.Lock()
	previews := b.previews
	b.previews = make(map[int64]*chatPreview)
	b.mu.Unlock()

	for _, p := range previews {
		p.cancel()
	}
	for _, p := range previews {
		<-p.loop.Done()
	}
}
