// Package validator implements the read API client: health, receipts, queries
// and table metadata, plus the receipt waiter built on pkg/polling.
package validator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/mesh-intelligence/tableland/pkg/polling"
	"github.com/mesh-intelligence/tableland/pkg/types"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxBodySize           = 16 << 20
)

// Client talks to a read API rooted at a base URL such as
// https://testnets.tableland.network/api/v1.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit throttles outgoing requests. A zero limit disables throttling.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for baseURL. The URL must be absolute http or https.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Health returns nil when the read API answers its health check.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, "/health", nil)
	return err
}

// VersionInfo is the read API build description.
type VersionInfo struct {
	Version       int64
	GitCommit     string
	GitBranch     string
	BinaryVersion string
}

// Version returns the read API build description.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	body, err := c.get(ctx, "/version", nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: version body is not valid json", types.ErrMalformedResponse)
	}
	res := gjson.ParseBytes(body)
	return &VersionInfo{
		Version:       res.Get("version").Int(),
		GitCommit:     res.Get("git_commit").String(),
		GitBranch:     res.Get("git_branch").String(),
		BinaryVersion: res.Get("binary_version").String(),
	}, nil
}

// GetReceipt fetches the receipt for txHash on chainID once. A 404 answer is
// reported as types.ErrReceiptNotFound; it means the transaction has not been
// processed yet.
func (c *Client) GetReceipt(ctx context.Context, chainID int64, txHash string) (*types.Receipt, error) {
	path := "/receipt/" + strconv.FormatInt(chainID, 10) + "/" + url.PathEscape(txHash)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s on chain %d", types.ErrReceiptNotFound, txHash, chainID)
		}
		return nil, err
	}

	r, err := parseReceipt(body)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(r.TransactionHash, txHash) {
		return nil, fmt.Errorf("%w: receipt is for transaction %s, want %s",
			types.ErrMalformedResponse, r.TransactionHash, txHash)
	}
	return r, nil
}

// WaitForReceipt polls for the receipt under ctrl. A nil controller uses the
// chain's default policy.
func (c *Client) WaitForReceipt(ctx context.Context, chainID int64, txHash string, ctrl *polling.Controller) (*types.Receipt, error) {
	return NewWaiter(c, c.logger).Wait(ctx, chainID, txHash, ctrl)
}

// Query runs a read statement and returns the rows as objects.
func (c *Client) Query(ctx context.Context, statement string) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("statement", statement)
	q.Set("format", "objects")

	body, err := c.get(ctx, "/query", q)
	if err != nil {
		return nil, err
	}
	return parseRows(body)
}

// Table is the metadata the read API keeps for a table.
type Table struct {
	Name        string
	ExternalURL string
	Columns     []Column
}

// Column is one column of a table schema.
type Column struct {
	Name        string
	Type        string
	Constraints []string
}

// GetTable returns metadata for tableID on chainID.
func (c *Client) GetTable(ctx context.Context, chainID int64, tableID string) (*Table, error) {
	path := "/tables/" + strconv.FormatInt(chainID, 10) + "/" + url.PathEscape(tableID)
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: table body is not valid json", types.ErrMalformedResponse)
	}

	res := gjson.ParseBytes(body)
	if !res.Get("name").Exists() {
		return nil, fmt.Errorf("%w: table missing name", types.ErrMalformedResponse)
	}
	t := &Table{
		Name:        res.Get("name").String(),
		ExternalURL: res.Get("external_url").String(),
	}
	for _, col := range res.Get("schema.columns").Array() {
		column := Column{Name: col.Get("name").String(), Type: col.Get("type").String()}
		for _, cons := range col.Get("constraints").Array() {
			column.Constraints = append(column.Constraints, cons.String())
		}
		t.Columns = append(t.Columns, column)
	}
	return t, nil
}

// get issues a GET bound to ctx and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", types.ErrFetch, err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", types.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", types.ErrFetch, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", types.ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}
