// Package postgrest talks to a Supabase project's products table through its
// REST (PostgREST) endpoint.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
)

// defaultMaxBodySize caps how much of a response body is read
const defaultMaxBodySize = 16 << 20

// ErrBodyTooLarge is returned when a successful response exceeds the body size cap
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is returned when the REST endpoint answers with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

// Client implements store.Remote against the Supabase REST API
type Client struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
	maxBody    int64
}

var _ store.Remote = (*Client)(nil)

// New creates a client for the table of the project at baseURL
func New(baseURL, apiKey, table string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		table:   table,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBody: defaultMaxBodySize,
	}
}

// Name returns the backend name
func (c *Client) Name() string {
	return "supabase"
}

// SelectProducts fetches every row of the table
func (c *Client) SelectProducts(ctx context.Context) (store.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL()+"?select=*&order=id.asc", nil)
	if err != nil {
		return nil, errors.Wrap(err, "create select request")
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	return store.Response(body), nil
}

// InsertProduct inserts a single row
func (c *Client) InsertProduct(ctx context.Context, product models.Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return errors.Wrap(err, "encode product")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "create insert request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	if _, err := c.do(req); err != nil {
		return errors.Wrapf(err, "insert product %d", product.ID)
	}
	return nil
}

func (c *Client) tableURL() string {
	return c.baseURL + "/rest/v1/" + url.PathEscape(c.table)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	tooLarge := int64(len(body)) > c.maxBody
	if tooLarge {
		body = body[:c.maxBody]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if tooLarge {
		return nil, errors.Wrapf(ErrBodyTooLarge, "more than %d bytes", c.maxBody)
	}
	return body, nil
}
