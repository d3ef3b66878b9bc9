package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/stats", handler.ListStats)
	mux.HandleFunc("POST /v1/ingest", handler.Ingest)
}

func registerFilterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/filter", handler.GetFilter)
	mux.HandleFunc("PUT /v1/filter", handler.ApplyFilter)
	mux.HandleFunc("POST /v1/filter/reset", handler.ResetFilter)
}

func registerQueryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/facts", handler.ListFacts)
	mux.HandleFunc("GET /v1/export.csv", handler.ExportCSV)
	mux.HandleFunc("GET /v1/aggregate", handler.Aggregate)
	mux.HandleFunc("GET /v1/rank", handler.Rank)
	mux.HandleFunc("GET /v1/compare", handler.Compare)
}

func registerInsightRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/insights/ladder", handler.Ladder)
	mux.HandleFunc("GET /v1/insights/teams", handler.TeamSummary)
	mux.HandleFunc("GET /v1/insights/droughts", handler.GoalDroughts)
	mux.HandleFunc("GET /v1/insights/consistency", handler.Consistency)
	mux.HandleFunc("GET /v1/insights/records", handler.TeamRecords)
}
