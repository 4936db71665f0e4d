package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/config"
	"detailing-bot/internal/estimator"
	redisstore "detailing-bot/internal/storage/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// API is the part of the Telegram client the bot talks to.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ API = (*tgbotapi.BotAPI)(nil)

// Sessions keeps each chat's selection between updates.
type Sessions interface {
	GetSession(ctx context.Context, chatID int64) (*redisstore.Session, error)
	ToggleService(ctx context.Context, chatID int64, serviceID string) (estimator.Selection, error)
	SelectPackage(ctx context.Context, chatID int64, packageID string) (estimator.Selection, error)
	ClearSelection(ctx context.Context, chatID int64) (estimator.Selection, error)
	SetMessageID(ctx context.Context, chatID int64, messageID int) error
	AllowToggle(ctx context.Context, chatID int64, limit int64, window time.Duration) (bool, error)
}

var _ Sessions = (*redisstore.Storage)(nil)

type Bot struct {
	api      API
	logger   *zap.Logger
	sessions Sessions
	catalog  catalog.Provider
	cfg      *config.Config

	mu       sync.Mutex
	previews map[int64]*chatPreview
	commands map[string]func(context.Context, *tgbotapi.Message)
}

func New(
	cfg *config.Config,
	store Sessions,
	provider catalog.Provider,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return newBot(botAPI, cfg, store, provider, logger), nil
}

func newBot(api API, cfg *config.Config, store Sessions, provider catalog.Provider, logger *zap.Logger) *Bot {
	b := &Bot{
		api:      api,
		logger:   logger,
		sessions: store,
		catalog:  provider,
		cfg:      cfg,
		previews: make(map[int64]*chatPreview),
	}
	b.registerCommands()
	return b
}

func (b *Bot) registerCommands() {
	b.commands = map[string]func(context.Context, *tgbotapi.Message){
		"start":  b.handleStart,
		"prices": b.handlePrices,
		"help":   b.handleHelp,
	}
}

// Start polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	defer b.stopPreviews()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if !msg.IsCommand() {
		b.handleHelp(ctx, msg)
		return
	}

	if handler, exists := b.commands[msg.Command()]; exists {
		handler(ctx, msg)
		return
	}
	b.sendError(chatID, "Unknown command. Use /start to build an estimate.")
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) (tgbotapi.Message, bool) {
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
		return sent, false
	}
	return sent, true
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.logger.Warn("Failed to answer callback", zap.String("callback_id", id), zap.Error(err))
	}
}
