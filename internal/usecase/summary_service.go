package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openfooty/statindex/external/statsbomb"
	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/platform/logging"
)

const (
	defaultRunLimit = 10
	maxRunLimit     = 50
)

// IngestOptions selects what one summary refresh covers. An empty filter
// list runs every competition in the plan; filters match a competition's
// numeric id or its name, case-insensitively.
type IngestOptions struct {
	Plan               IngestionPlan
	ConfigPath         string
	CompetitionFilters []string
	DryRun             bool
}

// SummaryService refreshes the season summary store slice by slice and
// keeps the run ledger. A slice failure marks the run failed before the
// error surfaces, so the ledger never loses a crashed refresh.
type SummaryService struct {
	source statsbomb.Source
	store  summary.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewSummaryService(source statsbomb.Source, store summary.Repository, logger *logging.Logger) *SummaryService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SummaryService{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Ingest executes the plan. Every slice writes under one run row; the first
// slice error completes the run as failed with the error text and is then
// returned together with the results gathered so far. Dry runs touch
// nothing, not even the schema.
func (s *SummaryService) Ingest(ctx context.Context, opts IngestOptions) ([]summary.IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SummaryService.Ingest")
	defer span.End()

	if s.source == nil || s.store == nil {
		return nil, fmt.Errorf("%w: summary pipeline is not fully configured", ErrDependencyUnavailable)
	}
	if err := opts.Plan.Validate(); err != nil {
		return nil, err
	}

	filters := make(map[string]struct{}, len(opts.CompetitionFilters))
	for _, f := range opts.CompetitionFilters {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			filters[f] = struct{}{}
		}
	}

	var runID int64
	if !opts.DryRun {
		if err := s.store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure summary schema: %w", err)
		}
		id, err := s.store.BeginRun(ctx, s.timestamp(), opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("begin ingestion run: %w", err)
		}
		runID = id
	}

	var results []summary.IngestResult
	for _, comp := range opts.Plan.TrackedCompetitions {
		if !competitionSelected(comp, filters) {
			continue
		}
		for _, season := range comp.Seasons {
			result, err := s.ingestSlice(ctx, comp, season, opts.DryRun)
			if err != nil {
				sliceErr := fmt.Errorf("ingest competition %d season %q: %w", comp.CompetitionID, season.Label, err)
				if !opts.DryRun {
					if completeErr := s.store.CompleteRun(ctx, runID, s.timestamp(), summary.RunStatusFailed, sliceErr.Error()); completeErr != nil {
						s.logger.ErrorContext(ctx, "failed to record failed ingestion run",
							"run_id", runID,
							"error", completeErr.Error(),
						)
					}
				}
				return results, sliceErr
			}
			results = append(results, result)
		}
	}

	if !opts.DryRun {
		if err := s.store.CompleteRun(ctx, runID, s.timestamp(), summary.RunStatusSuccess, ""); err != nil {
			return results, fmt.Errorf("complete ingestion run: %w", err)
		}
	}
	return results, nil
}

// ListRuns returns the most recent ledger rows, newest first.
func (s *SummaryService) ListRuns(ctx context.Context, limit int) ([]summary.IngestionRun, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SummaryService.ListRuns")
	defer span.End()

	if s.store == nil {
		return nil, fmt.Errorf("%w: summary store is not configured", ErrDependencyUnavailable)
	}
	if limit <= 0 {
		limit = defaultRunLimit
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	return runs, nil
}

// ingestSlice refreshes one (competition, season): resolve the season id,
// fetch the rows, pick the minutes threshold, then replace the slice's
// summaries and percentiles under one timestamp.
func (s *SummaryService) ingestSlice(ctx context.Context, comp PlanCompetition, season PlanSeason, dryRun bool) (summary.IngestResult, error) {
	seasonID := season.SeasonID
	if seasonID == 0 {
		resolved, err := s.resolveSeasonID(ctx, comp.CompetitionID, season.Label)
		if err != nil {
			return summary.IngestResult{}, err
		}
		seasonID = resolved
	}

	raw, err := s.source.GetPlayerSeasonStats(ctx, comp.CompetitionID, seasonID)
	if err != nil {
		if !statsbomb.IsNotFound(err) {
			return summary.IngestResult{}, fmt.Errorf("fetch player season stats: %w", err)
		}
		s.logger.WarnContext(ctx, "player season stats not found",
			"competition_id", comp.CompetitionID,
			"season_id", seasonID,
		)
		raw = nil
	}

	// The threshold is picked over every fetched row, identity or not, so
	// a candidate only survives if it keeps at least one actual row.
	minutes := make([]float64, len(raw))
	for i, rec := range raw {
		minutes[i] = summary.MinutesOf(rec.Fields)
	}
	limit := season.Thresholds().Select(minutes)

	scope := summary.SeasonScope{
		CompetitionID:   comp.CompetitionID,
		CompetitionName: comp.Name,
		SeasonID:        seasonID,
		SeasonLabel:     season.Label,
	}
	var entries []summary.Entry
	for i, rec := range raw {
		if limit > 0 && minutes[i] < limit {
			continue
		}
		if entry, ok := summary.BuildEntry(rec.Fields, scope); ok {
			entries = append(entries, entry)
		}
	}

	if !dryRun {
		timestamp := s.timestamp()
		if err := s.store.UpsertEntries(ctx, entries, timestamp); err != nil {
			return summary.IngestResult{}, fmt.Errorf("upsert season summaries: %w", err)
		}
		cohorts := summary.BuildCohorts(entries, season.Buckets(), comp.CompetitionID, seasonID)
		rows := summary.ComputePercentileRows(entries, cohorts)
		if err := s.store.ReplacePercentiles(ctx, comp.CompetitionID, seasonID, rows, timestamp); err != nil {
			return summary.IngestResult{}, fmt.Errorf("replace percentiles: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "processed player season slice",
		"competition_id", comp.CompetitionID,
		"season_id", seasonID,
		"season_label", season.Label,
		"players", len(entries),
		"min_minutes", limit,
		"dry_run", dryRun,
	)
	return summary.IngestResult{
		CompetitionID:    comp.CompetitionID,
		CompetitionName:  comp.Name,
		SeasonID:         seasonID,
		SeasonLabel:      season.Label,
		ProcessedPlayers: len(entries),
		DryRun:           dryRun,
	}, nil
}

// resolveSeasonID matches a human season label against the provider's
// season list for the competition.
func (s *SummaryService) resolveSeasonID(ctx context.Context, competitionID int64, label string) (int64, error) {
	rows, err := s.source.ListSeasons(ctx, competitionID)
	if err != nil && !statsbomb.IsNotFound(err) {
		return 0, fmt.Errorf("list seasons for competition %d: %w", competitionID, err)
	}
	if ref, ok := seasonForLabel(rows, label); ok {
		return ref.ID, nil
	}
	return 0, fmt.Errorf("unable to resolve season id for competition=%d label=%q", competitionID, label)
}

func (s *SummaryService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func competitionSelected(comp PlanCompetition, filters map[string]struct{}) bool {
	if len(filters) == 0 {
		return true
	}
	if _, ok := filters[strconv.FormatInt(comp.CompetitionID, 10)]; ok {
		return true
	}
	_, ok := filters[strings.ToLower(comp.Name)]
	return ok
}
