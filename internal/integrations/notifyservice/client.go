package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrSendFailed возвращается, когда NotifyService не принял письмо.
// Вызывающий код логирует эту ошибку и продолжает: сбой уведомления
// никогда не превращает успешное бронирование в ошибку.
var ErrSendFailed = errors.New("notifyservice client: failed to send notification")

// Client fire-and-forget клиент для отправки email уведомлений
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendBookingConfirmation отправляет письмо с подтверждением бронирования
func (c *Client) SendBookingConfirmation(ctx context.Context, email *BookingEmail) error {
	return c.send(ctx, "/internal/emails/booking-confirmation", email)
}

// SendBookingCancellation отправляет письмо об отмене бронирования
func (c *Client) SendBookingCancellation(ctx context.Context, email *BookingEmail) error {
	return c.send(ctx, "/internal/emails/booking-cancellation", email)
}

func (c *Client) send(ctx context.Context, path string, email *BookingEmail) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: unexpected status code %d", ErrSendFailed, resp.StatusCode)
	}

	return nil
}
