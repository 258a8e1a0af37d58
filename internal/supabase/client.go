// Package supabase is the single egress point to the hosted backend.
// It speaks the PostgREST and GoTrue HTTP APIs directly: one configured
// client per process, no retry, no pooling beyond net/http defaults,
// and every failure surfaces to the caller mapped onto the core error
// taxonomy.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gestionale/internal/core"
)

const (
	maxResponseBytes  = 8 << 20  // 8 MiB
	maxErrorBodyBytes = 32 << 10 // 32 KiB
)

// Config holds client configuration.
type Config struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

// Client talks to one Supabase project.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client. URL and APIKey are required; the HTTP client
// defaults to a 30s-timeout net/http client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase: URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("supabase: APIKey is required")
	}
	parsed, err := url.Parse(cfg.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("supabase: URL must be a valid http(s) URL")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

type filter struct {
	column string
	op     string
	value  string
}

// Query builds a single PostgREST request. Filters AND-combine.
type Query struct {
	client  *Client
	table   string
	columns string
	filters []filter
	orders  []string
	limit   int
	single  bool
}

// Select specifies the columns (and embedded joins) to return.
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value any) *Query {
	return q.filter(column, "eq", value)
}

// Gte adds a greater-than-or-equal filter.
func (q *Query) Gte(column string, value any) *Query {
	return q.filter(column, "gte", value)
}

// Lte adds a less-than-or-equal filter.
func (q *Query) Lte(column string, value any) *Query {
	return q.filter(column, "lte", value)
}

// ILike adds a case-insensitive pattern filter.
func (q *Query) ILike(column, pattern string) *Query {
	return q.filter(column, "ilike", pattern)
}

// Is adds an IS filter (null, true, false).
func (q *Query) Is(column string, value any) *Query {
	return q.filter(column, "is", value)
}

// In adds a membership filter.
func (q *Query) In(column string, values []string) *Query {
	return q.filter(column, "in", "("+strings.Join(values, ",")+")")
}

func (q *Query) filter(column, op string, value any) *Query {
	q.filters = append(q.filters, filter{column: column, op: op, value: fmt.Sprintf("%v", value)})
	return q
}

// Order adds an ORDER BY clause; clauses accumulate left to right.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single requests exactly one object; zero rows become ErrNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) params() url.Values {
	params := url.Values{}
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	for _, f := range q.filters {
		params.Add(f.column, f.op+"."+f.value)
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return params
}

// Get executes a SELECT and decodes the representation into out.
func (q *Query) Get(ctx context.Context, out any) error {
	return q.client.rest(ctx, http.MethodGet, q.table, q.params(), nil, q.single, out)
}

// Insert executes an INSERT with return=representation and decodes the
// created row into out. The payload must not carry id or timestamps;
// the store assigns those.
func (q *Query) Insert(ctx context.Context, body, out any) error {
	return q.client.rest(ctx, http.MethodPost, q.table, q.params(), body, false, out)
}

// Update executes a PATCH restricted by the query filters; only the
// supplied fields change. Zero matched rows become ErrNotFound when
// out is a single object.
func (q *Query) Update(ctx context.Context, body, out any) error {
	return q.client.rest(ctx, http.MethodPatch, q.table, q.params(), body, false, out)
}

// Delete executes a hard DELETE restricted by the query filters and
// decodes the deleted rows into out, so callers can tell a no-op from
// a real delete. The store performs no cascade; child rows keep their
// references.
func (q *Query) Delete(ctx context.Context, out any) error {
	return q.client.rest(ctx, http.MethodDelete, q.table, q.params(), nil, false, out)
}

func (c *Client) rest(ctx context.Context, method, table string, params url.Values, body any, single bool, out any) error {
	reqURL := c.baseURL + "/rest/v1/" + table
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	respBody, err := c.do(req, single)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeRepresentation(respBody, out)
}

// decodeRepresentation unmarshals a PostgREST response into out. Write
// operations answer with a row array even for one row; when out is a
// single object the first element is unwrapped and an empty array maps
// to ErrNotFound.
func decodeRepresentation(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return core.ErrNotFound
	}
	if trimmed[0] != '[' {
		return json.Unmarshal(trimmed, out)
	}
	if err := json.Unmarshal(trimmed, out); err == nil {
		return nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(rows) == 0 {
		return core.ErrNotFound
	}
	return json.Unmarshal(rows[0], out)
}

func (c *Client) setHeaders(req *http.Request, bearer string) {
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

// do runs the request and maps failures onto the core taxonomy.
func (c *Client) do(req *http.Request, single bool) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, core.ErrNotFound
		case single && resp.StatusCode == http.StatusNotAcceptable:
			// PGRST116: zero (or multiple) rows for a single-object request.
			return nil, core.ErrNotFound
		case resp.StatusCode == http.StatusBadRequest,
			resp.StatusCode == http.StatusConflict,
			resp.StatusCode == http.StatusUnprocessableEntity:
			return nil, &core.ValidationError{Message: msg}
		default:
			return nil, &core.TransportError{StatusCode: resp.StatusCode, Err: errors.New(msg)}
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if len(body) > maxResponseBytes {
		return nil, &core.TransportError{Err: errors.New("response exceeds size limit")}
	}
	return body, nil
}

// readErrorMessage extracts a PostgREST/GoTrue error message without
// trusting the body size.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return "unreadable error body"
	}
	var parsed struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorField       string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Details          string `json:"details"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, m := range []string{parsed.Message, parsed.Msg, parsed.ErrorDescription, parsed.ErrorField, parsed.Details} {
			if m != "" {
				return m
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty error body"
	}
	return msg
}
