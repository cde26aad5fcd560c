package clientstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var fetchPaths = map[Key]string{
	KeyOrders:  "/orders",
	KeyTables:  "/tables",
	KeyMenu:    "/menu",
	KeyKitchen: "/kitchen/queue",
	KeyBills:   "/bills",
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// APIClient talks to the POS HTTP API as one terminal.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPIClient creates a client for baseURL (e.g. "http://host:8081/api").
// Every request is bounded by RequestTimeout.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: RequestTimeout},
	}
}

// Token returns the bearer token in use.
func (c *APIClient) Token() string { return c.token }

// Login exchanges a terminal name and PIN for a token and keeps it for
// later requests.
func (c *APIClient) Login(ctx context.Context, terminal, pin string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"terminal": terminal, "pin": pin}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

// Fetch implements Fetcher.
func (c *APIClient) Fetch(ctx context.Context, key Key) (json.RawMessage, error) {
	path, ok := fetchPaths[key]
	if !ok {
		return nil, fmt.Errorf("clientstate: unknown key %q", key)
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ServeResult mirrors the serve-item response.
type ServeResult struct {
	Outcome   string `json:"outcome"`
	Remaining int32  `json:"remaining"`
}

// ServeItem marks one unit of a queue entry served.
func (c *APIClient) ServeItem(ctx context.Context, queueID, orderItemID uuid.UUID) (ServeResult, error) {
	var res ServeResult
	err := c.do(ctx, http.MethodPatch, "/kitchen/serve-item", servePair{
		QueueID:     queueID.String(),
		OrderItemID: orderItemID.String(),
	}, &res)
	return res, err
}

// ServePair names one queue entry and its order line.
type ServePair struct {
	QueueID     uuid.UUID
	OrderItemID uuid.UUID
}

type servePair struct {
	QueueID     string `json:"queue_id"`
	OrderItemID string `json:"order_item_id"`
}

// ServeParcel serves every listed unit of a parcel order.
func (c *APIClient) ServeParcel(ctx context.Context, orderID uuid.UUID, pairs []ServePair) error {
	items := make([]servePair, len(pairs))
	for i, p := range pairs {
		items[i] = servePair{QueueID: p.QueueID.String(), OrderItemID: p.OrderItemID.String()}
	}
	body := map[string]any{"order_id": orderID.String(), "items": items}
	return c.do(ctx, http.MethodPost, "/kitchen/serve-parcel", body, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
