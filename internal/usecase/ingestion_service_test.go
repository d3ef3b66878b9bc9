package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/domain/reconcile"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	factmock "github.com/riskibarqy/afl-stats/internal/mocks/domain/fact"
	sourcemock "github.com/riskibarqy/afl-stats/internal/mocks/domain/source"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ingestionBatches() map[source.Kind][]source.RawBatch {
	return map[source.Kind][]source.RawBatch{
		source.KindDetails: {{
			Kind:   source.KindDetails,
			Origin: "player_details.csv",
			Rows: []source.Row{
				{"player_id": "1", "first_name": "Dustin", "surname": "Martin", "team": "RIC", "season": "2024"},
			},
		}},
		source.KindStats: {{
			Kind:   source.KindStats,
			Origin: "player_stats.csv",
			Rows: []source.Row{
				{"player_id": "1", "team": "Richmond", "date": "2024-03-14", "match_id": "m1", "goals": "3"},
				{"player_id": "1", "team": "Richmond", "date": "2024-03-21", "match_id": "m2", "goals": "1"},
				{"player_id": "1", "team": "Richmond", "match_id": "m3", "goals": "2"},
			},
		}},
		source.KindPrice: {{
			Kind:   source.KindPrice,
			Origin: "prices.html",
			Rows: []source.Row{
				{"Player": "J. Smith", "Team": "Tigers", "Current": "$450,000", "scraped_date": "2024-03-20"},
			},
		}},
	}
}

func TestIngestionService_Ingest_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	loader := sourcemock.NewLoader(t)
	repo := factmock.NewRepository(t)
	session := NewQueryService(query.DefaultFilter(), nil, nil)

	for kind, batches := range ingestionBatches() {
		loader.On("Load", mock.Anything, kind).Return(batches, nil).Once()
	}
	repo.On("Save", mock.Anything, mock.AnythingOfType("*fact.Dataset")).Return(nil).Once()

	svc := NewIngestionService([]source.Loader{loader}, nil, nil, repo, session, nil)
	result, err := svc.Ingest(ctx)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if result.Facts != 2 {
		t.Fatalf("unexpected fact count: got=%d want=2", result.Facts)
	}
	if !result.Persisted {
		t.Fatalf("expected dataset to be persisted")
	}
	if result.Rows[source.KindStats] != 3 {
		t.Fatalf("unexpected stats row count: got=%d want=3", result.Rows[source.KindStats])
	}
	if session.Dataset().ID != result.Dataset.ID {
		t.Fatalf("session was not loaded with the new dataset")
	}

	mismatches := result.Report.OfKind(reconcile.KindSchemaMismatch)
	if len(mismatches) != 1 || mismatches[0].Origin != "player_stats.csv" || mismatches[0].Row != 3 {
		t.Fatalf("unexpected schema mismatches: %+v", mismatches)
	}
	if result.Issues[reconcile.KindDroppedRecord] != 1 {
		t.Fatalf("expected one dropped price row, got=%s", result.Report.SummaryLine())
	}
}

func TestIngestionService_Ingest_LoaderErrorUsingMockery(t *testing.T) {
	t.Parallel()

	loader := sourcemock.NewLoader(t)
	repo := factmock.NewRepository(t)
	loadErr := errors.New("disk gone")

	loader.On("Load", mock.Anything, source.KindStats).Return(nil, loadErr).Once()
	loader.On("Load", mock.Anything, source.KindDetails).Return(nil, nil).Maybe()
	loader.On("Load", mock.Anything, source.KindPrice).Return(nil, nil).Maybe()

	svc := NewIngestionService([]source.Loader{loader}, nil, nil, repo, nil, nil)
	_, err := svc.Ingest(context.Background())
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected loader error, got=%v", err)
	}
}

func TestIngestionService_Ingest_RequiresSources(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(nil, nil, nil, nil, nil, nil)
	_, err := svc.Ingest(context.Background())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestIngestionService_Restore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := factmock.NewRepository(t)
	session := NewQueryService(query.DefaultFilter(), nil, nil)
	ds := sessionDataset()

	repo.On("Latest", mock.Anything).Return(ds, true, nil).Once()

	svc := NewIngestionService(nil, nil, nil, repo, session, nil)
	ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ds.ID, session.Dataset().ID)
	require.Len(t, session.Active(ctx), ds.Len())
}

func TestIngestionService_RestoreWithoutRepository(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(nil, nil, nil, nil, nil, nil)
	ok, err := svc.Restore(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}
