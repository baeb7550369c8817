package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/lead-intake/internal/leads"
	"github.com/wolfman30/lead-intake/pkg/logging"
)

var telegramTracer = otel.Tracer("leadintake.internal.notify.telegram")

const (
	defaultTelegramAPIBase = "https://api.telegram.org"
	defaultHTTPTimeout     = 10 * time.Second
)

// ErrNotConfigured is returned by Send when the bot token or chat id is empty.
var ErrNotConfigured = errors.New("telegram notifier not configured")

// TelegramConfig holds the bot credentials and transport settings.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIBase  string
	Timeout  time.Duration
}

// TelegramNotifier sends lead notifications to a Telegram chat.
type TelegramNotifier struct {
	botToken  string
	chatID    string
	apiBase   string
	parseMode string
	client    *http.Client
	logger    *logging.Logger
}

var _ leads.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(cfg TelegramConfig, logger *logging.Logger) *TelegramNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if apiBase == "" {
		apiBase = defaultTelegramAPIBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &TelegramNotifier{
		botToken:  strings.TrimSpace(cfg.BotToken),
		chatID:    strings.TrimSpace(cfg.ChatID),
		apiBase:   apiBase,
		parseMode: leads.ParseMode,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts text to the configured chat. It makes exactly one attempt.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" {
		return ErrNotConfigured
	}

	ctx, span := telegramTracer.Start(ctx, "notify.telegram.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("telegram.chat_id", n.chatID),
		attribute.Int("telegram.text_length", len(text)),
	)

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", n.parseMode)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return n.fail(span, fmt.Errorf("telegram: create request: %w", redactURL(err)))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	n.logger.Info("sending to telegram", "chat_id", n.chatID)
	resp, err := n.client.Do(req)
	if err != nil {
		// *url.Error embeds the endpoint, which carries the bot token.
		return n.fail(span, fmt.Errorf("telegram: send message: %w", redactURL(err)))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var parsed telegramResponse
	_ = json.Unmarshal(respBody, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := parsed.Description
		if detail == "" {
			detail = strings.TrimSpace(string(respBody))
		}
		return n.fail(span, fmt.Errorf("telegram API error: status=%d body=%s", resp.StatusCode, detail))
	}
	if !parsed.OK {
		return n.fail(span, fmt.Errorf("telegram API error: %s", strings.TrimSpace(parsed.Description)))
	}

	n.logger.Info("telegram message delivered", "status", resp.StatusCode)
	return nil
}

func (n *TelegramNotifier) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
