package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
)

// IngestResult describes one full load.
type IngestResult struct {
	Dataset   *fact.Dataset          `json:"-"`
	DatasetID string                 `json:"dataset_id"`
	Rows      map[source.Kind]int    `json:"rows"`
	Players   int                    `json:"players"`
	Stats     int                    `json:"stats"`
	Prices    int                    `json:"prices"`
	Facts     int                    `json:"facts"`
	Persisted bool                   `json:"persisted"`
	Report    reconcile.Report       `json:"report"`
	Issues    map[reconcile.Kind]int `json:"issues"`
}

// IngestionService runs the load pipeline: read every source, normalize,
// merge, then hand the dataset to the repository and the session.
type IngestionService struct {
	loaders    []source.Loader
	normalizer *NormalizeService
	merger     *MergeService
	facts      fact.Repository
	session    *QueryService
	now        func() time.Time
	logger     *logging.Logger
}

// NewIngestionService wires the pipeline. facts and session may be nil.
func NewIngestionService(
	loaders []source.Loader,
	normalizer *NormalizeService,
	merger *MergeService,
	facts fact.Repository,
	session *QueryService,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if normalizer == nil {
		normalizer = NewNormalizeService(nil, logger)
	}
	if merger == nil {
		merger = NewMergeService(logger)
	}
	return &IngestionService{
		loaders:    loaders,
		normalizer: normalizer,
		merger:     merger,
		facts:      facts,
		session:    session,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *IngestionService) Ingest(ctx context.Context) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.Ingest", attribute.Int("afl.loaders", len(s.loaders)))
	defer span.End()

	if len(s.loaders) == 0 {
		return IngestResult{}, fmt.Errorf("%w: no sources configured", ErrInvalidInput)
	}

	raw, err := s.loadAll(ctx)
	if err != nil {
		return IngestResult{}, err
	}

	result := IngestResult{Rows: make(map[source.Kind]int, len(source.AllKinds))}
	var batch source.Batch
	for _, kind := range source.AllKinds {
		for _, rb := range raw[kind] {
			normalized, err := s.normalizer.Normalize(ctx, rb.Rows, kind)
			if err != nil {
				return IngestResult{}, fmt.Errorf("normalize %s rows from %s: %w", kind, rb.Origin, err)
			}
			normalized.Report = normalized.Report.WithOrigin(rb.Origin)
			batch.Append(normalized)
			result.Rows[kind] += len(rb.Rows)
		}
	}
	if len(batch.Stats) == 0 {
		s.logger.WarnContext(ctx, "no match statistics loaded", "rows", result.Rows[source.KindStats])
	}

	facts, mergeReport := s.merger.Merge(ctx, batch.Players, batch.Stats, batch.Prices)
	report := batch.Report
	report.Merge(mergeReport)

	ds := fact.NewDataset(facts, s.now().UTC())
	if s.facts != nil {
		if err := s.facts.Save(ctx, ds); err != nil {
			return IngestResult{}, fmt.Errorf("save dataset %s: %w", ds.ID, err)
		}
		result.Persisted = true
	}
	if s.session != nil {
		s.session.Load(ctx, ds)
	}

	result.Dataset = ds
	result.DatasetID = ds.ID.String()
	result.Players = len(batch.Players)
	result.Stats = len(batch.Stats)
	result.Prices = len(batch.Prices)
	result.Facts = ds.Len()
	result.Report = report
	result.Issues = report.Summary()

	s.logger.InfoContext(ctx, "ingestion finished",
		"dataset_id", result.DatasetID,
		"facts", result.Facts,
		"persisted", result.Persisted,
		"issues", report.SummaryLine(),
	)
	return result, nil
}

// Restore loads the most recently saved dataset into the session. It reports
// false when nothing has been saved yet.
func (s *IngestionService) Restore(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.Restore")
	defer span.End()

	if s.facts == nil {
		return false, nil
	}
	ds, ok, err := s.facts.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load latest dataset: %w", err)
	}
	if !ok {
		return false, nil
	}
	if s.session != nil {
		s.session.Load(ctx, ds)
	}
	s.logger.InfoContext(ctx, "dataset restored", "dataset_id", ds.ID.String(), "facts", ds.Len())
	return true, nil
}

// loadAll reads every (loader, kind) pair concurrently. Batches keep loader
// order within each kind so row numbering is stable between runs.
func (s *IngestionService) loadAll(ctx context.Context) (map[source.Kind][]source.RawBatch, error) {
	slots := make([][][]source.RawBatch, len(s.loaders))
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for i, loader := range s.loaders {
		slots[i] = make([][]source.RawBatch, len(source.AllKinds))
		for j, kind := range source.AllKinds {
			i, j, loader, kind := i, j, loader, kind
			p.Go(func(ctx context.Context) error {
				batches, err := loader.Load(ctx, kind)
				if err != nil {
					return fmt.Errorf("load %s rows: %w", kind, err)
				}
				slots[i][j] = batches
				return nil
			})
		}
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := make(map[source.Kind][]source.RawBatch, len(source.AllKinds))
	for i := range slots {
		for j, kind := range source.AllKinds {
			out[kind] = append(out[kind], slots[i][j]...)
		}
	}
	return out, nil
}
