package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
	qb "github.com/riskibarqy/afl-stats/internal/platform/querybuilder"
	"github.com/riskibarqy/afl-stats/internal/platform/resilience"
)

// rawTables are the upstream tables written by the scrapers and cleaners.
var rawTables = map[source.Kind]string{
	source.KindDetails: "player_details",
	source.KindStats:   "player_stats",
	source.KindPrice:   "supercoach_prices",
}

// pqUndefinedTable is the postgres error code for a missing relation.
const pqUndefinedTable = "42P01"

// RawRowRepository reads upstream tables as untyped rows. It is a
// source.Loader.
type RawRowRepository struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewRawRowRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker, logger *logging.Logger) *RawRowRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &RawRowRepository{db: db, breaker: breaker, logger: logger}
}

func RawTable(kind source.Kind) (string, bool) {
	table, ok := rawTables[kind]
	return table, ok
}

// Load returns one batch holding every row of the kind's table. A table that
// does not exist yet yields no batches.
func (r *RawRowRepository) Load(ctx context.Context, kind source.Kind) ([]source.RawBatch, error) {
	table, ok := RawTable(kind)
	if !ok {
		return nil, nil
	}

	var (
		rows    []source.Row
		missing bool
	)
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		rows, err = r.ListRows(ctx, table)
		if isUndefinedTable(err) {
			missing = true
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if missing {
		r.logger.WarnContext(ctx, "raw table missing, skipping", "table", table)
		return nil, nil
	}
	return []source.RawBatch{{Kind: kind, Origin: "postgres:" + table, Rows: rows}}, nil
}

// ListRows selects every column of an allow-listed raw table. Values are
// rendered as the text a CSV export of the table would hold.
func (r *RawRowRepository) ListRows(ctx context.Context, table string) ([]source.Row, error) {
	if !isRawTable(table) {
		return nil, fmt.Errorf("list raw rows: table %q is not a raw source table", table)
	}

	query, args, err := qb.Select("*").From(table).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list raw rows query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list raw rows table=%s: %w", table, err)
	}
	defer rows.Close()

	out := make([]source.Row, 0, 256)
	for rows.Next() {
		values := make(map[string]any)
		if err := rows.MapScan(values); err != nil {
			return nil, fmt.Errorf("scan raw row table=%s: %w", table, err)
		}
		row := make(source.Row, len(values))
		for col, v := range values {
			row[col] = rawText(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw rows table=%s: %w", table, err)
	}
	return out, nil
}

func isRawTable(table string) bool {
	for _, t := range rawTables {
		if t == table {
			return true
		}
	}
	return false
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable
}

func rawText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
