package rowstore

import (
	"errors"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var storeOperations = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "workforce",
	Subsystem: "rowstore",
	Name:      "operation_duration_seconds",
	Help:      "Duration of row store operations broken down by backend, operation, table and result.",
	Buckets:   prometheus.DefBuckets,
}, []string{"backend", "op", "table", "result"})

func observe(backend, op, table string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNoRows):
		result = "no_rows"
	case err != nil:
		result = "error"
	}
	storeOperations.WithLabelValues(backend, op, table, result).Observe(time.Since(start).Seconds())
}

// resetSlice empties the slice dest points to
func resetSlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
		return
	}
	v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
}

// isEmpty reports whether rows is a nil value or an empty slice
func isEmpty(rows any) bool {
	if rows == nil {
		return true
	}
	v := reflect.ValueOf(rows)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v.Kind() == reflect.Slice && v.Len() == 0
}
