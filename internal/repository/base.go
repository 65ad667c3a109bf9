package repository

import (
	"context"
	"log/slog"

	"github.com/workforce-api/internal/rowstore"
)

// idChunk bounds the size of one in-list so that REST query strings stay short
const idChunk = 200

type base struct {
	store    rowstore.Store
	pageSize int
	logger   *slog.Logger
}

func newBase(store rowstore.Store, pageSize int, logger *slog.Logger) base {
	if pageSize <= 0 {
		pageSize = rowstore.DefaultPageSize
	}
	return base{store: store, pageSize: pageSize, logger: logger}
}

// fetch pages through q and parses every row, skipping and logging rejects
func fetch[R, D any](ctx context.Context, b base, q rowstore.Query, parse func(R) (D, bool)) ([]D, error) {
	rows, err := rowstore.FetchAll[R](ctx, b.store, q, b.pageSize)
	if err != nil {
		return nil, err
	}
	return parseAll(b.logger, q.Table, rows, parse), nil
}

// fetchIn runs q once per chunk of values for an in-list on column
func fetchIn[R, D any](ctx context.Context, b base, q rowstore.Query, column string, values []string, parse func(R) (D, bool)) ([]D, error) {
	var out []D
	for start := 0; start < len(values); start += idChunk {
		end := min(start+idChunk, len(values))
		part, err := fetch(ctx, b, q.Where(rowstore.In(column, values[start:end])), parse)
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return out, nil
}

func parseAll[R, D any](logger *slog.Logger, table string, rows []R, parse func(R) (D, bool)) []D {
	out := make([]D, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		d, ok := parse(r)
		if !ok {
			skipped++
			continue
		}
		out = append(out, d)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed rows",
			slog.String("table", table),
			slog.Int("skipped", skipped),
		)
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
