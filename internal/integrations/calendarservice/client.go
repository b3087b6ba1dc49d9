package calendarservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

// Client клиент для работы с CalendarService (внутренний сервис синхронизации
// внешних календарей; OAuth токены и их обновление живут там).
type Client struct {
	baseURL       string
	httpClient    *http.Client
	retryAttempts uint64
	log           Logger
}

// NewClient создает новый экземпляр клиента CalendarService.
// timeout ограничивает ВСЕ попытки запроса суммарно: занятость календаря
// обязана либо прийти быстро, либо явно считаться недоступной.
func NewClient(baseURL string, timeout time.Duration, retryAttempts int, log Logger) *Client {
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryAttempts: uint64(retryAttempts),
		log:           log,
	}
}

// GetConnectedCalendars получает активные подключенные календари всех
// участников команды аккаунта
func (c *Client) GetConnectedCalendars(ctx context.Context, accountID int64) ([]Calendar, error) {
	endpoint := fmt.Sprintf("%s/internal/accounts/%d/calendars", c.baseURL, accountID)

	var calendars []Calendar
	if err := c.getJSON(ctx, endpoint, &calendars); err != nil {
		return nil, err
	}

	active := make([]Calendar, 0, len(calendars))
	for _, cal := range calendars {
		if cal.IsActive {
			active = append(active, cal)
		}
	}

	return active, nil
}

// GetBusyIntervals получает занятые интервалы аккаунта в диапазоне [from, to).
// Для командных аккаунтов это объединение занятости ВСЕХ активных календарей:
// командный слот недоступен, если занят хотя бы один участник
// (консервативное слияние).
func (c *Client) GetBusyIntervals(ctx context.Context, accountID int64, from, to time.Time) ([]BusyInterval, error) {
	calendars, err := c.GetConnectedCalendars(ctx, accountID)
	if err != nil {
		return nil, err
	}

	busy := make([]BusyInterval, 0)
	for _, cal := range calendars {
		intervals, err := c.getCalendarBusy(ctx, cal.ID, from, to)
		if err != nil {
			// Частичный результат опаснее явного отказа: пропущенный занятый
			// интервал одного участника ведет к двойному бронированию
			return nil, err
		}
		busy = append(busy, intervals...)
	}

	return busy, nil
}

// CreateEvent создает событие во внешнем календаре аккаунта.
// Возвращает ID созданного события.
func (c *Client) CreateEvent(ctx context.Context, accountID int64, event *EventRequest) (string, error) {
	endpoint := fmt.Sprintf("%s/internal/accounts/%d/events", c.baseURL, accountID)

	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var eventResp EventResponse
	if err := json.NewDecoder(resp.Body).Decode(&eventResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return eventResp.EventID, nil
}

// DeleteEvent удаляет событие из внешнего календаря аккаунта
func (c *Client) DeleteEvent(ctx context.Context, accountID int64, eventID string) error {
	endpoint := fmt.Sprintf("%s/internal/accounts/%d/events/%s", c.baseURL, accountID, url.PathEscape(eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEventNotFound
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}

// getCalendarBusy получает занятость одного календаря
func (c *Client) getCalendarBusy(ctx context.Context, calendarID string, from, to time.Time) ([]BusyInterval, error) {
	endpoint := fmt.Sprintf("%s/internal/calendars/%s/busy?from=%s&to=%s",
		c.baseURL,
		url.PathEscape(calendarID),
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)

	var intervals []BusyInterval
	if err := c.getJSON(ctx, endpoint, &intervals); err != nil {
		return nil, err
	}

	return intervals, nil
}

// getJSON выполняет GET с retry и декодирует JSON ответ.
// Транзиентные сбои (сеть, 5xx, 429) повторяются с экспоненциальным backoff;
// после исчерпания попыток возвращается ErrCalendarUnavailable.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	backoff := retry.WithMaxRetries(c.retryAttempts-1, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrCalendarUnavailable, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
			}
			return nil
		case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
			respBody, _ := io.ReadAll(resp.Body)
			return retry.RetryableError(fmt.Errorf("%w: status code %d: %s", ErrCalendarUnavailable, resp.StatusCode, string(respBody)))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			// Истекший или отозванный OAuth токен: retry не поможет
			return fmt.Errorf("%w: token rejected with status %d", ErrCalendarUnavailable, resp.StatusCode)
		default:
			respBody, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
		}
	})

	if err != nil {
		c.log.Error("CalendarService request failed: endpoint=%s, error=%v", endpoint, err)
		return err
	}

	return nil
}
