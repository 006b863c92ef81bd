package main

import (
	"net/http"

	"github.com/josh-kwaku/ledger-sync/api"
	"github.com/josh-kwaku/ledger-sync/internal/handler"
	"github.com/josh-kwaku/ledger-sync/internal/middleware"
	"github.com/josh-kwaku/ledger-sync/internal/service"
	"github.com/josh-kwaku/ledger-sync/internal/storage"
)

func newRouter(store storage.Store, syncSvc *service.SyncService, hierarchySvc *service.HierarchyService, upstream *service.UpstreamClient) http.Handler {
	health := handler.NewHealthHandler(store)
	financial := handler.NewFinancialHandler(hierarchySvc)
	debug := handler.NewDebugHandler(syncSvc, upstream, hierarchySvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)

	mux.HandleFunc("GET /api/financial/data", financial.Hierarchy)
	mux.HandleFunc("GET /api/financial/export.xlsx", financial.Export)
	mux.HandleFunc("GET /api/financial/debug/hierarchical", financial.DebugHierarchy)
	mux.HandleFunc("GET /api/financial/debug", financial.DebugRecords)
	mux.HandleFunc("DELETE /api/financial/clear", financial.Clear)

	mux.HandleFunc("POST /api/debug/sync", debug.Sync)
	mux.HandleFunc("GET /api/debug/db", debug.Database)
	mux.HandleFunc("GET /api/debug/test-api", debug.TestUpstream)

	mux.HandleFunc("GET /docs", handler.ServeDocs("/docs/openapi.yaml"))
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(api.OpenAPISpec))

	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.Tracing,
		middleware.Logging,
		middleware.CORS,
	)
}
