package supabase

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

	"github.com/location-map/internal/config"
	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	"go.uber.org/zap"
)

// ErrMissingCredentials - клиент нельзя построить без URL и ключа
var ErrMissingCredentials = errors.New("supabase URL or key is missing")

// APIError - ошибка PostgREST
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase API error: status %d, code %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase API error: status %d: %s", e.StatusCode, e.Message)
}

// Client - клиент REST API Supabase (PostgREST)
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient создает клиент Supabase. Отсутствие URL или ключа - ошибка конструирования.
func NewClient(cfg *config.SupabaseConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || cfg.URL == "" || cfg.AnonKey == "" {
		return nil, ErrMissingCredentials
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid supabase URL: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.AnonKey,
		logger:     logger,
	}, nil
}

// Select выполняет GET /rest/v1/<table>?select=<columns>&order=<order> и декодирует ответ в out.
// Пустой order оставляет порядок на усмотрение хранилища.
func (c *Client) Select(ctx context.Context, table string, columns []string, order string, out interface{}) error {
	q := url.Values{}
	q.Set("select", strings.Join(columns, ","))
	if order != "" {
		q.Set("order", order)
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(table), q.Encode())

	c.logger.Debug("Calling Supabase REST API",
		zap.String("table", table),
		zap.Strings("columns", columns))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// LocationRepository читает таблицу Locations через REST API
type LocationRepository struct {
	client *Client
}

// NewLocationRepository создает LocationRepository поверх клиента
func NewLocationRepository(client *Client) repository.LocationRepository {
	return &LocationRepository{client: client}
}

func (r *LocationRepository) ListLocations(ctx context.Context) ([]domain.LocationRecord, error) {
	var rows []domain.LocationRecord
	if err := r.client.Select(ctx, domain.LocationsTable, domain.LocationColumns, "id.asc", &rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", domain.LocationsTable, err)
	}
	return rows, nil
}
