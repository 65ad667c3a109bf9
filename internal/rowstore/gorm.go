package rowstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store over a gorm connection (Postgres or SQLite)
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new store over db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Select(ctx context.Context, q Query, dest any) (err error) {
	defer func(start time.Time) { observe("gorm", "select", q.Table, start, err) }(time.Now())

	if matchesNothing(q.Filters) {
		resetSlice(dest)
		return nil
	}

	tx := s.db.WithContext(ctx).Table(q.Table)
	if len(q.Columns) > 0 {
		tx = tx.Select(q.Columns)
	}
	tx = where(tx, q.Filters)
	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	if err := tx.Find(dest).Error; err != nil {
		return &OpError{Op: "select", Table: q.Table, Err: err}
	}
	return nil
}

func (s *GormStore) Insert(ctx context.Context, table string, rows any) (err error) {
	defer func(start time.Time) { observe("gorm", "insert", table, start, err) }(time.Now())

	if isEmpty(rows) {
		return nil
	}

	if err := s.db.WithContext(ctx).Table(table).Create(rows).Error; err != nil {
		return &OpError{Op: "insert", Table: table, Err: err}
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, table string, patch map[string]any, filters ...Filter) (n int64, err error) {
	defer func(start time.Time) { observe("gorm", "update", table, start, err) }(time.Now())

	if matchesNothing(filters) {
		return 0, nil
	}

	result := where(s.db.WithContext(ctx).Table(table), filters).Updates(patch)
	if result.Error != nil {
		return 0, &OpError{Op: "update", Table: table, Err: result.Error}
	}
	return result.RowsAffected, nil
}

func (s *GormStore) Delete(ctx context.Context, table string, filters ...Filter) (n int64, err error) {
	defer func(start time.Time) { observe("gorm", "delete", table, start, err) }(time.Now())

	if matchesNothing(filters) {
		return 0, nil
	}

	result := where(s.db.WithContext(ctx).Table(table), filters).Delete(map[string]any{})
	if result.Error != nil {
		return 0, &OpError{Op: "delete", Table: table, Err: result.Error}
	}
	return result.RowsAffected, nil
}

func (s *GormStore) Upsert(ctx context.Context, table string, rows any, conflictKeys ...string) (err error) {
	defer func(start time.Time) { observe("gorm", "upsert", table, start, err) }(time.Now())

	if isEmpty(rows) {
		return nil
	}

	columns := make([]clause.Column, len(conflictKeys))
	for i, key := range conflictKeys {
		columns[i] = clause.Column{Name: key}
	}

	err = s.db.WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{Columns: columns, UpdateAll: true}).
		Create(rows).Error
	if err != nil {
		return &OpError{Op: "upsert", Table: table, Err: err}
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &OpError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &OpError{Op: "ping", Err: err}
	}
	return nil
}

func where(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		column := clause.Column{Name: f.Column}
		switch f.Op {
		case OpIn:
			tx = tx.Where(clause.IN{Column: column, Values: f.values()})
		default:
			tx = tx.Where(clause.Eq{Column: column, Value: f.Value})
		}
	}
	return tx
}
