package rowstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforce-api/internal/rowstore"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (rec *recorder) all() []recordedRequest {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]recordedRequest(nil), rec.requests...)
}

func newPostgRESTServer(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*rowstore.PostgRESTStore, *recorder) {
	t.Helper()

	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		rec.mu.Unlock()
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	return rowstore.NewPostgRESTStore(srv.URL, "service-key", 5*time.Second), rec
}

func TestPostgRESTStore_SelectEncodesQuery(t *testing.T) {
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","owner":"ana","key":"a","value":2}]`))
	})

	q := rowstore.Query{
		Table:   "items",
		Columns: []string{"id", "owner"},
		Order:   []rowstore.Order{rowstore.Desc("key")},
	}.Where(rowstore.Eq("owner", "ana"), rowstore.In("key", []string{"a", "b,c"})).Page(10, 5)

	var rows []item
	require.NoError(t, s.Select(context.Background(), q, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].Value)

	require.Len(t, reqs.all(), 1)
	got := reqs.all()[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/rest/v1/items", got.Path)
	assert.Equal(t, []string{"id,owner"}, got.Query["select"])
	assert.Equal(t, []string{"eq.ana"}, got.Query["owner"])
	assert.Equal(t, []string{`in.("a","b,c")`}, got.Query["key"])
	assert.Equal(t, []string{"key.desc"}, got.Query["order"])
	assert.Equal(t, []string{"10"}, got.Query["offset"])
	assert.Equal(t, []string{"5"}, got.Query["limit"])
	assert.Equal(t, "service-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", got.Header.Get("Authorization"))
}

func TestPostgRESTStore_NilPointerFiltersAsNull(t *testing.T) {
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	var noArea *int64
	owner := "ana"
	q := rowstore.Query{Table: "items"}.Where(
		rowstore.Eq("area_id", noArea),
		rowstore.Eq("manager_id", (*string)(nil)),
		rowstore.Eq("owner", &owner),
		rowstore.Eq("parent", nil),
		rowstore.In("key", []*string{&owner, nil}),
	)

	var rows []item
	require.NoError(t, s.Select(context.Background(), q, &rows))

	require.Len(t, reqs.all(), 1)
	got := reqs.all()[0].Query
	assert.Equal(t, []string{"is.null"}, got["area_id"])
	assert.Equal(t, []string{"is.null"}, got["manager_id"])
	assert.Equal(t, []string{"eq.ana"}, got["owner"])
	assert.Equal(t, []string{"is.null"}, got["parent"])
	assert.Equal(t, []string{`in.("ana",null)`}, got["key"])
}

func TestPostgRESTStore_FetchAllStopsOnShortPage(t *testing.T) {
	all := []item{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		end := min(offset+limit, len(all))
		json.NewEncoder(w).Encode(all[offset:end])
	})

	rows, err := rowstore.FetchAll[item](context.Background(), s, rowstore.Query{Table: "items"}, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, reqs.all(), 2)
}

func TestPostgRESTStore_EmptyInSkipsRoundTrip(t *testing.T) {
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	var rows []item
	require.NoError(t, s.Select(context.Background(), rowstore.Query{Table: "items"}.Where(rowstore.In("id", []string{})), &rows))
	assert.Empty(t, rows)
	assert.Empty(t, reqs.all())
}

func TestPostgRESTStore_UpsertUsesConflictKeys(t *testing.T) {
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rows := []item{{ID: "1", Owner: "ana", Key: "a", Value: 3}}
	require.NoError(t, s.Upsert(context.Background(), "items", rows, "owner", "key"))

	require.Len(t, reqs.all(), 1)
	got := reqs.all()[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, []string{"owner,key"}, got.Query["on_conflict"])
	assert.Contains(t, got.Header.Get("Prefer"), "resolution=merge-duplicates")
	assert.JSONEq(t, `[{"id":"1","owner":"ana","key":"a","value":3}]`, got.Body)
}

func TestPostgRESTStore_DeleteCountsReturnedRows(t *testing.T) {
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1"},{"id":"2"}]`))
	})

	n, err := s.Delete(context.Background(), "items", rowstore.Eq("owner", "ana"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, http.MethodDelete, reqs.all()[0].Method)
	assert.Equal(t, []string{"eq.ana"}, reqs.all()[0].Query["owner"])
}

func TestPostgRESTStore_UpdateSendsPatch(t *testing.T) {
	s, reqs := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1"}]`))
	})

	n, err := s.Update(context.Background(), "items", map[string]any{"value": 9}, rowstore.Eq("id", "1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, http.MethodPatch, reqs.all()[0].Method)
	assert.JSONEq(t, `{"value":9}`, reqs.all()[0].Body)
}

func TestPostgRESTStore_FailureIsOpError(t *testing.T) {
	s, _ := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"column does not exist"}`))
	})

	var rows []item
	err := s.Select(context.Background(), rowstore.Query{Table: "items"}, &rows)
	require.Error(t, err)

	var opErr *rowstore.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "items", opErr.Table)
	assert.Contains(t, err.Error(), "column does not exist")
}
