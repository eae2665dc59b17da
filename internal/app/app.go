// Package app assembles the API server out of the concrete repositories,
// clients and usecases. It is the only place where the read path (summary
// database behind an optional cache) and the ingestion path (StatsBomb client
// writing through the summary store) meet.
package app

import (
	"fmt"
	"net/http"

	"github.com/openfooty/statindex/external/statsbomb"
	"github.com/openfooty/statindex/internal/config"
	"github.com/openfooty/statindex/internal/domain/ranking"
	basecache "github.com/openfooty/statindex/internal/infrastructure/repository/cache"
	"github.com/openfooty/statindex/internal/infrastructure/repository/sqlite"
	"github.com/openfooty/statindex/internal/interfaces/httpapi"
	"github.com/openfooty/statindex/internal/platform/cache"
	"github.com/openfooty/statindex/internal/platform/logging"
	"github.com/openfooty/statindex/internal/platform/resilience"
	"github.com/openfooty/statindex/internal/usecase"
)

// NewHTTPServer wires the full serving stack. The returned cleanup closes the
// lazily opened database handles and is safe to call even when neither path
// ever opened one.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	lazyReader := sqlite.NewLazyRankingReader(cfg.SummaryDBPath)
	var reader ranking.Reader = lazyReader
	if cfg.CacheEnabled {
		reader = basecache.NewRankingReader(lazyReader, cache.NewStore(cfg.CacheTTL))
	}
	rankingSvc := usecase.NewRankingService(reader, logger)

	sbClient := NewStatsClient(cfg, logger)
	store := sqlite.NewLazySummaryStore(cfg.SummaryDBPath, logger)
	summarySvc := usecase.NewSummaryService(sbClient, store, logger)

	handler := httpapi.NewHandler(rankingSvc, summarySvc, cfg.SeasonPlanPath, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken,
		cfg.UptraceCaptureRequestBody, cfg.UptraceRequestBodyMaxBytes)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close summary store", "error", err)
		}
		if err := lazyReader.Close(); err != nil {
			logger.Warn("close summary reader", "error", err)
		}
	}

	return server, cleanup, nil
}

// NewStatsClient builds the upstream provider client from config. Both the
// API server's ingest trigger and the indexer CLI go through it, so retry
// and circuit settings behave the same everywhere.
func NewStatsClient(cfg config.Config, logger *logging.Logger) *statsbomb.Client {
	return statsbomb.NewClient(statsbomb.ClientConfig{
		BaseURL:        cfg.StatsBombBaseURL,
		MappingBaseURL: cfg.StatsBombMappingBaseURL,
		Token:          cfg.StatsBombToken,
		Timeout:        cfg.StatsBombTimeout,
		MaxRetries:     cfg.StatsBombMaxRetries,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsBombCircuitEnabled,
			FailureThreshold: cfg.StatsBombCircuitFailureCount,
			OpenTimeout:      cfg.StatsBombCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsBombCircuitHalfOpenMaxReq,
		},
	})
}
