package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/domain"
)

const menuItemsPath = "/api/menu-items"

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("menu items API responded %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Menu Items API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type menuItemBody struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (c *Client) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	if err := c.do(ctx, http.MethodGet, menuItemsPath, nil, http.StatusOK, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	var created domain.MenuItem
	err := c.do(ctx, http.MethodPost, menuItemsPath, toBody(item), http.StatusCreated, &created)
	if err != nil {
		return domain.MenuItem{}, err
	}

	return created, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id uint, item domain.MenuItem) (domain.MenuItem, error) {
	var updated domain.MenuItem
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", menuItemsPath, id), toBody(item), http.StatusOK, &updated)
	if err != nil {
		return domain.MenuItem{}, err
	}

	return updated, nil
}

func (c *Client) DeleteMenuItem(ctx context.Context, id uint) error {
	var resp struct {
		Message string `json:"message"`
	}

	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", menuItemsPath, id), nil, http.StatusOK, &resp)
}

func toBody(item domain.MenuItem) *menuItemBody {
	return &menuItemBody{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}

		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
