package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cherrygram/reputation-api/pkg/config"
)

// telegramNotifier delivers notifications through the Telegram Bot API.
// With no bot token configured it runs in dry-run mode: messages are
// logged and reported as delivered, which keeps local development and
// tests independent of Telegram.
type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates a Telegram-backed notifier. The bot token is read
// from the environment variable named in the config.
func NewTelegram(cfg *config.TelegramConfig, logger *zap.Logger) (Notifier, error) {
	token := os.Getenv(cfg.BotTokenEnv)
	if token == "" {
		logger.Warn("telegram bot token not configured, notifier running in dry-run mode",
			zap.String("token_env", cfg.BotTokenEnv))
		return &telegramNotifier{chatID: cfg.AdminChatID, logger: logger}, nil
	}

	// The photo timeout is the longer of the two and bounds every API call
	client := &http.Client{Timeout: cfg.PhotoTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName))
	return &telegramNotifier{bot: bot, chatID: cfg.AdminChatID, logger: logger}, nil
}

func (n *telegramNotifier) NotifyText(ctx context.Context, text string) error {
	deliveryID := uuid.NewString()

	if n.bot == nil {
		n.logger.Info("dry-run text notification",
			zap.String("delivery_id", deliveryID),
			zap.String("text", text))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message %s: %w", deliveryID, err)
	}

	n.logger.Debug("text notification delivered", zap.String("delivery_id", deliveryID))
	return nil
}

func (n *telegramNotifier) NotifyPhoto(ctx context.Context, photo []byte, caption string) error {
	deliveryID := uuid.NewString()

	if n.bot == nil {
		n.logger.Info("dry-run photo notification",
			zap.String("delivery_id", deliveryID),
			zap.Int("photo_bytes", len(photo)),
			zap.String("caption", caption))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{
		Name:  "screenshot",
		Bytes: photo,
	})
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram photo %s: %w", deliveryID, err)
	}

	n.logger.Debug("photo notification delivered", zap.String("delivery_id", deliveryID))
	return nil
}
