// Command indexer maintains the offline index artifacts and queries the
// season summary store from the terminal.
//
// Usage:
//
//	indexer build-index --seasons 2024/2025
//	indexer ingest --dry-run
//	indexer rank --metric goals_90 --season 2024/2025 --limit 15
//	indexer snapshot --name "bethany england" --season 2024/2025
//	indexer metrics --season 2024/2025
//	indexer coverage
//	indexer runs --limit 5
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfooty/statindex/internal/app"
	"github.com/openfooty/statindex/internal/config"
	"github.com/openfooty/statindex/internal/infrastructure/jsonindex"
	"github.com/openfooty/statindex/internal/infrastructure/repository/sqlite"
	"github.com/openfooty/statindex/internal/observability"
	"github.com/openfooty/statindex/internal/platform/logging"
	"github.com/openfooty/statindex/internal/usecase"
)

func main() {
	root := &cobra.Command{
		Use:           "indexer",
		Short:         "Offline football index and rankings toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(buildIndexCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(rankCmd())
	root.AddCommand(snapshotCmd())
	root.AddCommand(metricsCmd())
	root.AddCommand(coverageCmd())
	root.AddCommand(runsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run handles config loading, logger setup, telemetry bootstrap and signal
// cancellation for every verb.
func run(fn func(ctx context.Context, cfg config.Config, logger *logging.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := uptraceShutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	return fn(ctx, cfg, logger)
}

// runQuery opens the summary store read-only for one query verb.
func runQuery(fn func(ctx context.Context, svc *usecase.RankingService) error) error {
	return run(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
		reader := sqlite.NewLazyRankingReader(cfg.SummaryDBPath)
		defer reader.Close()
		return fn(ctx, usecase.NewRankingService(reader, logger))
	})
}

func buildIndexCmd() *cobra.Command {
	var (
		jsonDir      string
		sqlitePath   string
		competitions string
		seasons      string
		lineupSample int
	)
	cmd := &cobra.Command{
		Use:   "build-index",
		Short: "Rebuild the JSON index files and the search database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				if jsonDir != "" {
					cfg.IndexJSONDir = jsonDir
				}
				if sqlitePath != "" {
					cfg.IndexSQLitePath = sqlitePath
				}
				if competitions != "" {
					ids, err := parseIDList(competitions)
					if err != nil {
						return fmt.Errorf("parse --competitions: %w", err)
					}
					cfg.IndexCompetitionIDs = ids
				}
				if seasons != "" {
					cfg.IndexSeasonLabels = splitList(seasons)
				}
				if cmd.Flags().Changed("lineup-sample") {
					cfg.IndexLineupSampleSize = lineupSample
				}

				graphs := usecase.NewGraphService(app.NewStatsClient(cfg, logger), usecase.GraphBuildConfig{
					CompetitionIDs:     cfg.IndexCompetitionIDs,
					SeasonLabels:       cfg.IndexSeasonLabels,
					IncludeLineups:     cfg.IndexIncludeLineups,
					IncludePlayerStats: cfg.IndexIncludePlayerStats,
					IncludeMapping:     cfg.IndexIncludeMapping,
					LineupSampleSize:   cfg.IndexLineupSampleSize,
				}, logger)
				svc := usecase.NewIndexService(
					graphs,
					jsonindex.NewWriter(cfg.IndexJSONDir, logger),
					sqlite.NewIndexWriter(cfg.IndexSQLitePath, logger),
					logger,
				)

				start := time.Now()
				report, err := svc.BuildIndex(ctx)
				if err != nil {
					return err
				}
				renderBuildReport(os.Stdout, report, time.Since(start))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&jsonDir, "json-dir", "", "output directory for the JSON index (default from INDEX_JSON_DIR)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", "", "output path for the search database (default from INDEX_SQLITE_PATH)")
	cmd.Flags().StringVar(&competitions, "competitions", "", "comma-separated competition ids to index (default: priority list)")
	cmd.Flags().StringVar(&seasons, "seasons", "", "comma-separated season labels to index")
	cmd.Flags().IntVar(&lineupSample, "lineup-sample", 0, "matches per season to enrich with lineups (0 = every match)")
	return cmd
}

func ingestCmd() *cobra.Command {
	var (
		planPath     string
		competitions []string
		dryRun       bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Refresh the season summary store from the ingestion plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				path := planPath
				if path == "" {
					path = cfg.SeasonPlanPath
				}
				plan, err := usecase.LoadIngestionPlan(path)
				if err != nil {
					return err
				}

				store := sqlite.NewLazySummaryStore(cfg.SummaryDBPath, logger)
				defer store.Close()
				svc := usecase.NewSummaryService(app.NewStatsClient(cfg, logger), store, logger)

				start := time.Now()
				results, err := svc.Ingest(ctx, usecase.IngestOptions{
					Plan:               plan,
					ConfigPath:         path,
					CompetitionFilters: competitions,
					DryRun:             dryRun,
				})
				if err != nil {
					return err
				}
				renderIngestResults(os.Stdout, results, time.Since(start))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&planPath, "plan", "", "ingestion plan file (default from SEASON_PLAN_PATH)")
	cmd.Flags().StringSliceVar(&competitions, "competitions", nil, "restrict the run to these competitions (id or name)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and report slices without writing")
	return cmd
}

func rankCmd() *cobra.Command {
	var (
		metric        string
		season        string
		competitions  string
		competitionID int64
		minMinutes    float64
		position      string
		order         string
		limit         int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank players by a stored season metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(func(ctx context.Context, svc *usecase.RankingService) error {
				req := usecase.RankRequest{
					Metric:         metric,
					SeasonLabel:    season,
					Competitions:   competitions,
					CompetitionID:  competitionID,
					PositionBucket: position,
					SortOrder:      order,
					Limit:          limit,
				}
				if cmd.Flags().Changed("min-minutes") {
					req.MinMinutes = &minMinutes
				}
				rows, err := svc.Rank(ctx, req)
				if err != nil {
					return err
				}
				renderRankRows(os.Stdout, rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "", "metric name or alias (e.g. goals_90)")
	cmd.Flags().StringVar(&season, "season", "", "season label (e.g. 2024/2025)")
	cmd.Flags().StringVar(&competitions, "competitions", "", "comma-separated competition ids or names")
	cmd.Flags().Int64Var(&competitionID, "competition-id", 0, "single competition id filter")
	cmd.Flags().Float64Var(&minMinutes, "min-minutes", 0, "minimum minutes played")
	cmd.Flags().StringVar(&position, "position", "", "position bucket filter (GK, CB, FB, WB, DM, CM, AM, W, ST)")
	cmd.Flags().StringVar(&order, "order", "desc", "sort order: asc or desc")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (default 10)")
	return cmd
}

func snapshotCmd() *cobra.Command {
	var (
		playerID      int64
		name          string
		season        string
		competitions  string
		competitionID int64
		position      string
		limit         int
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show every stored metric for one player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(func(ctx context.Context, svc *usecase.RankingService) error {
				snap, err := svc.Snapshot(ctx, usecase.SnapshotRequest{
					PlayerID:       playerID,
					PlayerName:     name,
					SeasonLabel:    season,
					Competitions:   competitions,
					CompetitionID:  competitionID,
					PositionBucket: position,
					Limit:          limit,
				})
				if err != nil {
					return err
				}
				renderSnapshot(os.Stdout, snap)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&playerID, "player-id", 0, "provider player id")
	cmd.Flags().StringVar(&name, "name", "", "player name (misspellings resolve fuzzily)")
	cmd.Flags().StringVar(&season, "season", "", "season label (e.g. 2024/2025)")
	cmd.Flags().StringVar(&competitions, "competitions", "", "comma-separated competition ids or names")
	cmd.Flags().Int64Var(&competitionID, "competition-id", 0, "single competition id filter")
	cmd.Flags().StringVar(&position, "position", "", "position bucket for percentile cohort")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum metric lines (default 12)")
	return cmd
}

func metricsCmd() *cobra.Command {
	var (
		season        string
		competitions  string
		competitionID int64
		limit         int
	)
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "List the metric columns stored for a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(func(ctx context.Context, svc *usecase.RankingService) error {
				infos, err := svc.ListMetrics(ctx, usecase.MetricsRequest{
					SeasonLabel:   season,
					Competitions:  competitions,
					CompetitionID: competitionID,
					Limit:         limit,
				})
				if err != nil {
					return err
				}
				renderMetricInfos(os.Stdout, infos)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "season label (e.g. 2024/2025)")
	cmd.Flags().StringVar(&competitions, "competitions", "", "comma-separated competition ids or names")
	cmd.Flags().Int64Var(&competitionID, "competition-id", 0, "single competition id filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum metrics to list (default 50)")
	return cmd
}

func coverageCmd() *cobra.Command {
	var (
		competitions  string
		competitionID int64
		limit         int
	)
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "List the competition seasons the store currently holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(func(ctx context.Context, svc *usecase.RankingService) error {
				rows, err := svc.ListCoverage(ctx, usecase.CoverageRequest{
					Competitions:  competitions,
					CompetitionID: competitionID,
					Limit:         limit,
				})
				if err != nil {
					return err
				}
				renderCoverage(os.Stdout, rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&competitions, "competitions", "", "comma-separated competition ids or names")
	cmd.Flags().Int64Var(&competitionID, "competition-id", 0, "single competition id filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (default 50)")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the latest ingestion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
				store := sqlite.NewLazySummaryStore(cfg.SummaryDBPath, logger)
				defer store.Close()
				svc := usecase.NewSummaryService(nil, store, logger)

				runs, err := svc.ListRuns(ctx, limit)
				if err != nil {
					return err
				}
				renderRuns(os.Stdout, runs)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum runs to list (default 10, max 50)")
	return cmd
}

func parseIDList(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid competition id %q", item)
		}
		out = append(out, id)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
