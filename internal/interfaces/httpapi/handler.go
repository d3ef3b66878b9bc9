package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/afl-stats/external/csvsource"
	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
	"github.com/riskibarqy/afl-stats/internal/usecase"
)

const defaultFactLimit = 100

type Handler struct {
	session   *usecase.QueryService
	insights  *usecase.InsightsService
	ingestion *usecase.IngestionService
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler builds the API handler. ingestion may be nil, in which case
// POST /v1/ingest reports the dependency as unavailable.
func NewHandler(
	session *usecase.QueryService,
	insights *usecase.InsightsService,
	ingestion *usecase.IngestionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if insights == nil {
		insights = usecase.NewInsightsService(session)
	}
	return &Handler{
		session:   session,
		insights:  insights,
		ingestion: ingestion,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, handlerSpanPrefix+"validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds := h.session.Dataset()
	out := healthDTO{Status: "ok", Seasons: []int{}}
	if ds != nil && ds.Len() > 0 {
		loadedAt := ds.LoadedAt
		out.DatasetID = ds.ID.String()
		out.LoadedAt = &loadedAt
		out.Facts = ds.Len()
		out.Players = ds.Players()
		out.Seasons = ds.Seasons()
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListStats")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, metricsToDTO(fact.Metrics()))
}

func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Ingest")
	defer span.End()

	if h.ingestion == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.ingestion.Ingest(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetFilter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetFilter")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, filterDTO{
		State: h.session.State(),
		Facts: len(h.session.Active(ctx)),
	})
}

func (h *Handler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ApplyFilter")
	defer span.End()

	var req filterRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	active, err := h.session.ApplyFilter(ctx, req.toState())
	if err != nil {
		h.logger.WarnContext(ctx, "apply filter failed", "team", req.Team, "season", req.Season, "stat", req.Stat, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, filterDTO{State: h.session.State(), Facts: len(active)})
}

func (h *Handler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ResetFilter")
	defer span.End()

	active := h.session.Reset(ctx)
	writeSuccess(ctx, w, http.StatusOK, filterDTO{State: h.session.State(), Facts: len(active)})
}

func (h *Handler) ListFacts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListFacts")
	defer span.End()

	limit, err := queryInt(r.URL.Query(), "limit", defaultFactLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if limit < 0 {
		writeError(ctx, w, fmt.Errorf("%w: limit must not be negative", usecase.ErrInvalidQuery))
		return
	}

	active := h.session.Active(ctx)
	page := active
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	writeSuccess(ctx, w, http.StatusOK, factListDTO{Total: len(active), Facts: factsToDTO(page)})
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ExportCSV")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	active := h.session.Active(ctx)
	if err := csvsource.WriteFacts(buf, active); err != nil {
		h.logger.ErrorContext(ctx, "export facts failed", "facts", len(active), "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="afl-facts.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.B)
}

func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Aggregate")
	defer span.End()

	params := r.URL.Query()
	groupBy, err := query.ParseGroupBy(params.Get("group_by"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	mode := query.ModeSum
	if raw := params.Get("mode"); raw != "" {
		if mode, err = query.ParseMode(raw); err != nil {
			writeError(ctx, w, err)
			return
		}
	}
	n, err := queryInt(params, "n", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var rankBy query.Mode
	if raw := params.Get("rank_by"); raw != "" {
		if rankBy, err = query.ParseMode(raw); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	stat := params.Get("stat")
	if stat == "" {
		stat = h.session.State().Stat
	}

	result, err := h.session.Aggregate(ctx, query.Request{
		GroupBy: groupBy,
		Stat:    stat,
		Mode:    mode,
		N:       n,
		RankBy:  rankBy,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "aggregate failed", "group_by", groupBy, "stat", stat, "mode", mode, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Rank")
	defer span.End()

	params := r.URL.Query()
	n, err := queryInt(params, "n", query.DefaultTopN)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var rankBy query.Mode
	if raw := params.Get("rank_by"); raw != "" {
		if rankBy, err = query.ParseMode(raw); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	result, err := h.session.Rank(ctx, n, rankBy)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Compare")
	defer span.End()

	params := r.URL.Query()
	by := query.GroupTeam
	if raw := params.Get("group_by"); raw != "" {
		parsed, err := query.ParseGroupBy(raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		by = parsed
	}
	metrics := queryList(params, "metrics")
	if len(metrics) == 0 {
		metrics = query.DefaultRadarMetrics
	}

	cmp, err := h.session.Compare(ctx, by, metrics, queryList(params, "keys"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, cmp)
}

func (h *Handler) Ladder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Ladder")
	defer span.End()

	season, err := queryInt(r.URL.Query(), "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rows, err := h.insights.Ladder(ctx, season)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) TeamSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "TeamSummary")
	defer span.End()

	summary, err := h.insights.TeamSummary(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GoalDroughts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GoalDroughts")
	defer span.End()

	minGames, err := queryInt(r.URL.Query(), "min_games", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rows, err := h.insights.GoalDroughts(ctx, minGames)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) Consistency(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Consistency")
	defer span.End()

	params := r.URL.Query()
	minGames, err := queryInt(params, "min_games", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	minAverage, err := queryFloat(params, "min_average", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rows, err := h.insights.Consistency(ctx, params.Get("stat"), minGames, minAverage)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) TeamRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "TeamRecords")
	defer span.End()

	rows, err := h.insights.TeamRecords(ctx, r.URL.Query().Get("stat"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}
