package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	qb "github.com/riskibarqy/afl-stats/internal/platform/querybuilder"
	"github.com/riskibarqy/afl-stats/internal/platform/resilience"
)

// factInsertChunk keeps one insert well under the 65535 bind parameter limit.
const factInsertChunk = 500

type FactRepository struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

// NewFactRepository accepts a nil breaker.
func NewFactRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *FactRepository {
	return &FactRepository{db: db, breaker: breaker}
}

// Save writes ds and marks every earlier dataset superseded, in one
// transaction.
func (r *FactRepository) Save(ctx context.Context, ds *fact.Dataset) error {
	if ds == nil {
		return fmt.Errorf("save facts: dataset is nil")
	}
	return r.breaker.Do(ctx, func(ctx context.Context) error {
		return r.save(ctx, ds)
	})
}

func (r *FactRepository) save(ctx context.Context, ds *fact.Dataset) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save facts: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel(tableFactDatasets, datasetModel{
		ID:        ds.ID,
		LoadedAt:  ds.LoadedAt,
		FactCount: ds.Len(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert dataset query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert dataset id=%s: %w", ds.ID, err)
	}

	facts := ds.Facts()
	for start := 0; start < len(facts); start += factInsertChunk {
		end := min(start+factInsertChunk, len(facts))
		rows := make([]factRowModel, 0, end-start)
		for i := start; i < end; i++ {
			row, err := toFactRow(ds.ID, i, facts[i])
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}

		query, args, err := qb.InsertModels(tablePlayerMatchFact, rows, "")
		if err != nil {
			return fmt.Errorf("build insert facts query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert facts dataset=%s offset=%d: %w", ds.ID, start, err)
		}
	}

	query, args, err = qb.Update(tableFactDatasets).
		SetExpr("superseded_at", "NOW()").
		Where(qb.IsNull("superseded_at"), qb.Expr("id <> ?", ds.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build supersede datasets query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("supersede datasets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save facts tx: %w", err)
	}
	return nil
}

// Latest returns the most recently saved dataset that has not been
// superseded.
func (r *FactRepository) Latest(ctx context.Context) (*fact.Dataset, bool, error) {
	var (
		ds     *fact.Dataset
		exists bool
	)
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		ds, exists, err = r.latest(ctx)
		return err
	})
	return ds, exists, err
}

func (r *FactRepository) latest(ctx context.Context) (*fact.Dataset, bool, error) {
	query, args, err := qb.Select("id", "loaded_at", "fact_count").
		From(tableFactDatasets).
		Where(qb.IsNull("superseded_at")).
		OrderBy("loaded_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build latest dataset query: %w", err)
	}

	var head datasetModel
	if err := r.db.GetContext(ctx, &head, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get latest dataset: %w", err)
	}

	cols, err := qb.Columns(factRowModel{})
	if err != nil {
		return nil, false, fmt.Errorf("fact columns: %w", err)
	}
	query, args, err = qb.Select(cols...).
		From(tablePlayerMatchFact).
		Where(qb.Eq("dataset_id", head.ID)).
		OrderBy("ordinal").
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build list facts query: %w", err)
	}

	rows := make([]factRowModel, 0, head.FactCount)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, false, fmt.Errorf("list facts dataset=%s: %w", head.ID, err)
	}

	facts := make([]fact.Fact, 0, len(rows))
	for _, row := range rows {
		f, err := row.toFact()
		if err != nil {
			return nil, false, err
		}
		facts = append(facts, f)
	}
	return fact.RestoreDataset(head.ID, facts, head.LoadedAt), true, nil
}
