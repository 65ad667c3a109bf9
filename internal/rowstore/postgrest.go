package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// PostgRESTStore implements Store over the REST interface of a hosted Postgres
// service (PostgREST dialect: /rest/v1/<table>?col=eq.value).
type PostgRESTStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPostgRESTStore creates a new store talking to baseURL with the given service key
func NewPostgRESTStore(baseURL, apiKey string, timeout time.Duration) *PostgRESTStore {
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &PostgRESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *PostgRESTStore) Select(ctx context.Context, q Query, dest any) (err error) {
	defer func(start time.Time) { observe("postgrest", "select", q.Table, start, err) }(time.Now())

	if matchesNothing(q.Filters) {
		resetSlice(dest)
		return nil
	}

	params := filterParams(q.Filters)
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts[i] = o.Column + "." + dir
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	body, err := s.do(ctx, http.MethodGet, q.Table, params, nil, nil)
	if err != nil {
		return &OpError{Op: "select", Table: q.Table, Err: err}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &OpError{Op: "select", Table: q.Table, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (s *PostgRESTStore) Insert(ctx context.Context, table string, rows any) (err error) {
	defer func(start time.Time) { observe("postgrest", "insert", table, start, err) }(time.Now())

	if isEmpty(rows) {
		return nil
	}

	headers := map[string]string{"Prefer": "return=minimal"}
	if _, err := s.do(ctx, http.MethodPost, table, nil, rows, headers); err != nil {
		return &OpError{Op: "insert", Table: table, Err: err}
	}
	return nil
}

func (s *PostgRESTStore) Update(ctx context.Context, table string, patch map[string]any, filters ...Filter) (n int64, err error) {
	defer func(start time.Time) { observe("postgrest", "update", table, start, err) }(time.Now())

	if matchesNothing(filters) {
		return 0, nil
	}

	body, err := s.do(ctx, http.MethodPatch, table, filterParams(filters), patch, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return 0, &OpError{Op: "update", Table: table, Err: err}
	}
	return countRows(body), nil
}

func (s *PostgRESTStore) Delete(ctx context.Context, table string, filters ...Filter) (n int64, err error) {
	defer func(start time.Time) { observe("postgrest", "delete", table, start, err) }(time.Now())

	if matchesNothing(filters) {
		return 0, nil
	}

	body, err := s.do(ctx, http.MethodDelete, table, filterParams(filters), nil, map[string]string{
		"Prefer": "return=representation",
	})
	if err != nil {
		return 0, &OpError{Op: "delete", Table: table, Err: err}
	}
	return countRows(body), nil
}

func (s *PostgRESTStore) Upsert(ctx context.Context, table string, rows any, conflictKeys ...string) (err error) {
	defer func(start time.Time) { observe("postgrest", "upsert", table, start, err) }(time.Now())

	if isEmpty(rows) {
		return nil
	}

	params := url.Values{}
	if len(conflictKeys) > 0 {
		params.Set("on_conflict", strings.Join(conflictKeys, ","))
	}
	headers := map[string]string{"Prefer": "resolution=merge-duplicates,return=minimal"}

	if _, err := s.do(ctx, http.MethodPost, table, params, rows, headers); err != nil {
		return &OpError{Op: "upsert", Table: table, Err: err}
	}
	return nil
}

func (s *PostgRESTStore) Ping(ctx context.Context) error {
	if _, err := s.do(ctx, http.MethodGet, "", nil, nil, nil); err != nil {
		return &OpError{Op: "ping", Err: err}
	}
	return nil
}

// do sends one request to the REST endpoint and returns the response body
func (s *PostgRESTStore) do(ctx context.Context, method, table string, params url.Values, body any, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := s.baseURL + "/rest/v1/" + table
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func filterParams(filters []Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			vals := f.values()
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = quoteValue(v)
			}
			params.Add(f.Column, "in.("+strings.Join(parts, ",")+")")
		default:
			v := indirect(f.Value)
			if v == nil {
				params.Add(f.Column, "is.null")
				continue
			}
			params.Add(f.Column, "eq."+formatValue(v))
		}
	}
	return params
}

// indirect dereferences pointers; nil and typed nil pointers both come back as nil
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func formatValue(v any) string {
	v = indirect(v)
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

// quoteValue renders one element of an in.() list; strings are double-quoted so
// that commas and parentheses inside values survive
func quoteValue(v any) string {
	s := formatValue(v)
	if _, ok := indirect(v).(string); ok {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

func countRows(body []byte) int64 {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0
	}
	return int64(len(rows))
}
