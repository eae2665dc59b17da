package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.Health)
}

func registerQueryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rankings", handler.Rankings)
	mux.HandleFunc("GET /v1/players/snapshot", handler.PlayerSnapshot)
	mux.HandleFunc("GET /v1/metrics", handler.Metrics)
	mux.HandleFunc("GET /v1/coverage", handler.Coverage)
	mux.HandleFunc("GET /v1/runs", handler.Runs)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/ingest", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestion)))
}
