package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/models"
	"heavyhaul-assistant/internal/utils"
)

// TelegramNotifier pushes critical alerts to a Telegram chat so drivers get
// them even when away from the voice session.
type TelegramNotifier struct {
	bot     *bot.Bot
	chatID  int64
	limiter *rate.Limiter
	logger  *logging.Logger
}

// NewTelegramNotifier builds a notifier, or returns nil when no bot token is
// configured.
func NewTelegramNotifier(cfg config.Config, logger *logging.Logger) (*TelegramNotifier, error) {
	if cfg.Telegram.BotToken == "" {
		return nil, nil
	}
	if cfg.Telegram.ChatID == 0 {
		return nil, fmt.Errorf("missing TELEGRAM_CHAT_ID for Telegram notifications")
	}

	b, err := bot.New(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:     b,
		chatID:  cfg.Telegram.ChatID,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.Telegram.RatePerSecond)), cfg.Telegram.RatePerSecond),
		logger:  logger,
	}, nil
}

// Notify sends an alert to the configured chat with bounded retries.
func (t *TelegramNotifier) Notify(ctx context.Context, alert *models.Alert) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit exceeded: %w", err)
	}

	text := fmt.Sprintf("*%s* [%s]\n%s", alert.Title, alert.Priority, alert.Message)
	if alert.OrderID != 0 {
		text += fmt.Sprintf("\n\n*Order:* %d", alert.OrderID)
	}

	return utils.Retry(ctx, t.logger, 3, time.Second, func() error {
		params := &bot.SendMessageParams{
			ChatID:    t.chatID,
			Text:      text,
			ParseMode: "Markdown",
		}
		if _, err := t.bot.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", t.chatID, err)
		}
		return nil
	})
}
