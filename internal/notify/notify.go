package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Telegram rejects messages longer than this many characters.
const maxMessageLen = 4096

// Sender delivers an HTML-formatted text message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// TelegramSender posts messages to a single chat through the Bot API.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSender authenticates the bot with getMe. An empty endpoint selects
// the public Bot API.
func NewTelegramSender(token, endpoint string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is empty")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

// BotName is the bot's username as reported by getMe.
func (s *TelegramSender) BotName() string {
	return s.api.Self.UserName
}

func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(s.chatID, truncate(text, maxMessageLen))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Log zerolog.Logger
}

func (s LogSender) Send(_ context.Context, text string) error {
	s.Log.Info().Str("component", "digest").Msg(text)
	return nil
}

func truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + "…"
}
