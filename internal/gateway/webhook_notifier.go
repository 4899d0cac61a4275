package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"journeycompass/internal/domain/models"
)

// WebhookNotifier posts notices to the confirmation and cancellation webhooks.
type WebhookNotifier struct {
	ConfirmURL string
	CancelURL  string
	client     *http.Client
}

func NewWebhookNotifier(confirmURL, cancelURL string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		ConfirmURL: confirmURL,
		CancelURL:  cancelURL,
		client:     newHTTPClient(nil, timeout),
	}
}

func (w *WebhookNotifier) NotifyBookingConfirmed(ctx context.Context, notice models.BookingNotice) error {
	return w.post(ctx, w.ConfirmURL, notice)
}

func (w *WebhookNotifier) NotifyBookingCancelled(ctx context.Context, notice models.BookingNotice) error {
	return w.post(ctx, w.CancelURL, notice)
}

func (w *WebhookNotifier) post(ctx context.Context, url string, notice models.BookingNotice) error {
	if url == "" {
		return nil
	}
	if w.client == nil {
		w.client = newHTTPClient(nil, 0)
	}
	status, _, err := postJSON(ctx, w.client, url, notice)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", url, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("webhook %s: unexpected status code %d", url, status)
	}
	return nil
}
