// Package postgrest implements the VisitStore port against a hosted PostgREST
// endpoint, such as the REST interface of a Supabase project.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VisitStore = (*Client)(nil)

// APIError is a non-2xx response from the endpoint.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("postgrest %d: %s", e.Status, msg)
}

// Client talks to one table of a PostgREST endpoint.
type Client struct {
	baseURL string
	table   string
	key     string
	http    *http.Client
	columns map[model.Field]string
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default caching HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithColumns overrides the column name used for individual fields. Fields not
// in the map keep their own key as the column name.
func WithColumns(columns map[model.Field]string) Option {
	return func(c *Client) {
		for f, col := range columns {
			if f.Valid() && col != "" {
				c.columns[f] = col
			}
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for table at baseURL (the REST root, e.g.
// https://<project>.supabase.co/rest/v1). GET responses are revalidated with
// ETags through an in-memory httpcache transport.
func NewClient(baseURL, key, table string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   table,
		key:     key,
		http: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   30 * time.Second,
		},
		columns: make(map[model.Field]string, model.FieldCount()),
		logger:  slog.Default(),
	}
	for _, f := range model.Fields() {
		c.columns[f] = string(f)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every row ordered by created_at descending.
func (c *Client) List(ctx context.Context) ([]model.VisitRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	req, err := c.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	rows, _, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list visit records: %w", err)
	}
	return c.decodeRows(rows)
}

// Insert creates rows in one request and returns them as stored.
func (c *Client) Insert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	body := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		body = append(body, c.encodeRow(rec, false))
	}

	req, err := c.newRequest(ctx, http.MethodPost, nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	rows, _, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("insert %d visit records: %w", len(records), err)
	}
	return c.decodeRows(rows)
}

// Update overwrites existing rows in one bulk upsert. IDs are verified first so
// unknown records are reported rather than created.
func (c *Client) Update(ctx context.Context, records []model.VisitRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	existing, err := c.existingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("update visit records: %w", err)
	}
	for _, id := range ids {
		if !existing[id] {
			return fmt.Errorf("update visit record %s: %w", id, driven.ErrRecordNotFound)
		}
	}

	if _, err := c.upsert(ctx, records, "return=minimal"); err != nil {
		return fmt.Errorf("update %d visit records: %w", len(records), err)
	}
	return nil
}

// Upsert merges rows carrying a known ID and inserts the rest. Results are in
// input order.
func (c *Client) Upsert(ctx context.Context, records []model.VisitRecord) ([]model.VisitRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var withID, withoutID []model.VisitRecord
	var order []bool
	for _, rec := range records {
		if rec.ID != "" {
			withID = append(withID, rec)
		} else {
			withoutID = append(withoutID, rec)
		}
		order = append(order, rec.ID != "")
	}

	var merged []model.VisitRecord
	if len(withID) > 0 {
		rows, err := c.upsert(ctx, withID, "return=representation")
		if err != nil {
			return nil, fmt.Errorf("upsert %d visit records: %w", len(withID), err)
		}
		if merged, err = c.decodeRows(rows); err != nil {
			return nil, err
		}
	}

	inserted, err := c.Insert(ctx, withoutID)
	if err != nil {
		return nil, err
	}

	out := make([]model.VisitRecord, 0, len(records))
	for _, hasID := range order {
		if hasID && len(merged) > 0 {
			out = append(out, merged[0])
			merged = merged[1:]
		} else if !hasID && len(inserted) > 0 {
			out = append(out, inserted[0])
			inserted = inserted[1:]
		}
	}
	return out, nil
}

// Delete removes one row by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	req, err := c.newRequest(ctx, http.MethodDelete, q, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")

	rows, _, err := c.do(req)
	if err != nil {
		return fmt.Errorf("delete visit record %s: %w", id, err)
	}

	var deleted []json.RawMessage
	if err := json.Unmarshal(rows, &deleted); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	if len(deleted) == 0 {
		return fmt.Errorf("delete visit record %s: %w", id, driven.ErrRecordNotFound)
	}
	return nil
}

// DeleteAll removes every row. PostgREST refuses unfiltered deletes, so the
// request matches on a non-null id.
func (c *Client) DeleteAll(ctx context.Context) (int64, error) {
	q := url.Values{}
	q.Set("id", "not.is.null")

	req, err := c.newRequest(ctx, http.MethodDelete, q, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "return=minimal,count=exact")

	_, header, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("delete all visit records: %w", err)
	}

	n, err := parseContentRangeTotal(header.Get("Content-Range"))
	if err != nil {
		c.logger.Warn("postgrest: unreadable content range", "error", err)
		return 0, nil
	}
	return n, nil
}

func (c *Client) upsert(ctx context.Context, records []model.VisitRecord, ret string) ([]byte, error) {
	body := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		body = append(body, c.encodeRow(rec, true))
	}

	q := url.Values{}
	q.Set("on_conflict", "id")

	req, err := c.newRequest(ctx, http.MethodPost, q, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,"+ret)

	rows, _, err := c.do(req)
	return rows, err
}

func (c *Client) existingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		quoted = append(quoted, strconv.Quote(id))
	}

	q := url.Values{}
	q.Set("select", "id")
	q.Set("id", "in.("+strings.Join(quoted, ",")+")")

	req, err := c.newRequest(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	body, _, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("check record ids: %w", err)
	}

	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode id check: %w", err)
	}

	found := make(map[string]bool, len(rows))
	for _, row := range rows {
		found[stringValue(row["id"])] = true
	}
	return found, nil
}

func (c *Client) newRequest(ctx context.Context, method string, q url.Values, body any) (*http.Request, error) {
	u := c.baseURL + "/" + url.PathEscape(c.table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if len(body) > 0 {
			_ = json.Unmarshal(body, apiErr)
		}
		c.logger.Debug("postgrest: request failed",
			"method", req.Method,
			"table", c.table,
			"status", resp.StatusCode,
			"code", apiErr.Code,
		)
		return nil, nil, apiErr
	}

	if resp.Header.Get(httpcache.XFromCache) != "" {
		c.logger.Debug("postgrest: served from cache", "table", c.table)
	}

	return body, resp.Header, nil
}

func (c *Client) encodeRow(rec model.VisitRecord, withID bool) map[string]string {
	row := make(map[string]string, model.FieldCount()+1)
	if withID {
		row["id"] = rec.ID
	}
	for _, f := range model.Fields() {
		row[c.columns[f]] = rec.Get(f)
	}
	return row
}

func (c *Client) decodeRows(body []byte) ([]model.VisitRecord, error) {
	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}

	records := make([]model.VisitRecord, 0, len(rows))
	for _, row := range rows {
		var rec model.VisitRecord
		rec.ID = stringValue(row["id"])
		for _, f := range model.Fields() {
			rec.Set(f, stringValue(row[c.columns[f]]))
		}
		if ts := stringValue(row["created_at"]); ts != "" {
			t, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return nil, fmt.Errorf("parse created_at for %s: %w", rec.ID, err)
			}
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, nil
}

// stringValue renders a decoded JSON scalar. Nulls become "".
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// parseContentRangeTotal extracts N from "0-9/N" or "*/N".
func parseContentRangeTotal(v string) (int64, error) {
	_, total, ok := strings.Cut(v, "/")
	if !ok || total == "*" {
		return 0, errors.New("no total in content range " + strconv.Quote(v))
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse content range total: %w", err)
	}
	return n, nil
}
