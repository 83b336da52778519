package notifier

import (
	"TagService/internal/logctx"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// EventRefreshTokenSuperseded - refresh токен проиграл конкурентную ротацию.
const EventRefreshTokenSuperseded = "refresh_token_superseded"

type WebhookNotify struct {
	UserUUID  string `json:"userUUID"`
	Event     string `json:"event"`
	RequestID string `json:"requestID,omitempty"`
	TimeStamp string `json:"timeStamp"`
}

// Webhook отправляет события сессии на внешний адрес.
// С пустым адресом события только логируются.
type Webhook struct {
	url    string
	client *http.Client
	now    func() time.Time
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (webhook *Webhook) NotifyWebhook(ctx context.Context, event string, userUUID string, requestID string) error {
	if webhook.url == "" {
		logctx.From(ctx).Debug("webhook_disabled", slog.String("event", event), slog.String("user_uuid", userUUID))
		return nil
	}

	payload := &WebhookNotify{
		UserUUID:  userUUID,
		Event:     event,
		RequestID: requestID,
		TimeStamp: webhook.now().Format(time.RFC3339),
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса webhook: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := webhook.client.Do(request)
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook ответил статусом %d", response.StatusCode)
	}

	logctx.From(ctx).Info("webhook_sent", slog.String("event", event), slog.String("user_uuid", userUUID))
	return nil
}
