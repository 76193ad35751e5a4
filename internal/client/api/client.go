package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/iudanet/qrscan/pkg/api"
)

// ErrUnauthorized сервер отклонил токен сессии (истек или сессия удалена)
var ErrUnauthorized = errors.New("session token rejected by server")

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// CreateSession создает новую сессию сканирования
func (c *Client) CreateSession(ctx context.Context, req api.CreateSessionRequest) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sessions", "", req, &resp); err != nil {
		return nil, fmt.Errorf("create session request failed: %w", err)
	}
	return &resp, nil
}

// GetSession получает информацию о сессии
func (c *Client) GetSession(ctx context.Context, token string) (*api.SessionResponse, error) {
	var resp api.SessionResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/session", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get session request failed: %w", err)
	}
	return &resp, nil
}

// EndSession завершает сессию на сервере вместе с историей
func (c *Client) EndSession(ctx context.Context, token string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/v1/session", token, nil, nil); err != nil {
		return fmt.Errorf("end session request failed: %w", err)
	}
	return nil
}

// UpdateOptions изменяет флаги сессии
func (c *Client) UpdateOptions(ctx context.Context, token string, req api.UpdateOptionsRequest) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/session/options", token, req, nil); err != nil {
		return fmt.Errorf("update options request failed: %w", err)
	}
	return nil
}

// Scan загружает изображение на сканирование.
// Исходы no_symbols и decode_failure возвращаются в ScanResponse без ошибки.
func (c *Client) Scan(ctx context.Context, token, filename string, image io.Reader) (*api.ScanResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/scan", token, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, respBody, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("scan request failed: %w", err)
	}

	// Отказ декодирования приходит с кодом 413/422, но в формате ScanResponse
	var resp api.ScanResponse
	if jsonErr := json.Unmarshal(respBody, &resp); jsonErr == nil && resp.Outcome != "" {
		return &resp, nil
	}

	if err := statusError(status, respBody); err != nil {
		return nil, fmt.Errorf("scan request failed: %w", err)
	}

	return nil, fmt.Errorf("scan request failed: unexpected response: %s", string(respBody))
}

// History получает историю сессии
func (c *Client) History(ctx context.Context, token string) (*api.HistoryResponse, error) {
	var resp api.HistoryResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/history", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	return &resp, nil
}

// ClearHistory очищает историю сессии и возвращает число удаленных записей
func (c *Client) ClearHistory(ctx context.Context, token string) (int, error) {
	var resp api.ClearHistoryResponse
	if err := c.doRequest(ctx, http.MethodDelete, "/api/v1/history", token, nil, &resp); err != nil {
		return 0, fmt.Errorf("clear history request failed: %w", err)
	}
	return resp.Deleted, nil
}

// ExportHistory возвращает историю сессии в CSV
func (c *Client) ExportHistory(ctx context.Context, token string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/history/export", token, nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	if err := statusError(status, body); err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}

	return body, nil
}

// doRequest выполняет JSON HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, token, bodyReader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	status, respBody, err := c.send(req)
	if err != nil {
		return err
	}

	if err := statusError(status, respBody); err != nil {
		return err
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// send выполняет запрос и читает тело ответа
func (c *Client) send(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// statusError преобразует неуспешный статус в ошибку
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("server error (%d): %s", status, errResp.Message)
	}
	return fmt.Errorf("request failed with status %d: %s", status, string(body))
}
