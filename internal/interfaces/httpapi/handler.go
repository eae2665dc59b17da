package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/platform/logging"
	"github.com/openfooty/statindex/internal/usecase"
)

type Handler struct {
	rankingService *usecase.RankingService
	summaryService *usecase.SummaryService
	planPath       string
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	rankingService *usecase.RankingService,
	summaryService *usecase.SummaryService,
	planPath string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rankingService: rankingService,
		summaryService: summaryService,
		planPath:       strings.TrimSpace(planPath),
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Rankings")
	defer span.End()

	query := r.URL.Query()
	req := rankingsRequest{
		Metric:      strings.TrimSpace(query.Get("metric")),
		SeasonLabel: strings.TrimSpace(query.Get("season")),
		SortOrder:   strings.ToLower(strings.TrimSpace(query.Get("order"))),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID, err := queryCompetitionID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	minMinutes, err := queryMinMinutes(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.rankingService.Rank(ctx, usecase.RankRequest{
		Metric:         req.Metric,
		SeasonLabel:    req.SeasonLabel,
		Competitions:   strings.TrimSpace(query.Get("competitions")),
		CompetitionID:  competitionID,
		MinMinutes:     minMinutes,
		PositionBucket: strings.TrimSpace(query.Get("position")),
		SortOrder:      req.SortOrder,
		Limit:          limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "rank query failed", "metric", req.Metric, "season", req.SeasonLabel, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, rankingRowToDTO(ctx, row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PlayerSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlayerSnapshot")
	defer span.End()

	query := r.URL.Query()
	req := snapshotRequest{
		SeasonLabel: strings.TrimSpace(query.Get("season")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID, err := queryPlayerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	competitionID, err := queryCompetitionID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.rankingService.Snapshot(ctx, usecase.SnapshotRequest{
		PlayerID:       playerID,
		PlayerName:     strings.TrimSpace(query.Get("name")),
		SeasonLabel:    req.SeasonLabel,
		Competitions:   strings.TrimSpace(query.Get("competitions")),
		CompetitionID:  competitionID,
		PositionBucket: strings.TrimSpace(query.Get("position")),
		Limit:          limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "player snapshot failed", "season", req.SeasonLabel, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snapshot))
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Metrics")
	defer span.End()

	query := r.URL.Query()
	req := metricsRequest{
		SeasonLabel: strings.TrimSpace(query.Get("season")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID, err := queryCompetitionID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	metrics, err := h.rankingService.ListMetrics(ctx, usecase.MetricsRequest{
		SeasonLabel:   req.SeasonLabel,
		Competitions:  strings.TrimSpace(query.Get("competitions")),
		CompetitionID: competitionID,
		Limit:         limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list metrics failed", "season", req.SeasonLabel, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]metricInfoDTO, 0, len(metrics))
	for _, metric := range metrics {
		items = append(items, metricInfoDTO{
			Name: metric.Name,
			Rows: metric.Rows,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) Coverage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Coverage")
	defer span.End()

	competitionID, err := queryCompetitionID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.rankingService.ListCoverage(ctx, usecase.CoverageRequest{
		Competitions:  strings.TrimSpace(r.URL.Query().Get("competitions")),
		CompetitionID: competitionID,
		Limit:         limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list coverage failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]coverageRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, coverageRowDTO{
			CompetitionID:   row.CompetitionID,
			CompetitionName: row.CompetitionName,
			SeasonLabel:     row.SeasonLabel,
			PlayerCount:     row.PlayerCount,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Runs")
	defer span.End()

	if h.summaryService == nil {
		writeError(ctx, w, fmt.Errorf("%w: summary service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.summaryService.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list ingestion runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ingestionRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, ingestionRunToDTO(ctx, run))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunIngestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestion")
	defer span.End()

	if h.summaryService == nil {
		writeError(ctx, w, fmt.Errorf("%w: summary service is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if h.planPath == "" {
		writeError(ctx, w, fmt.Errorf("%w: season plan path is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	// An empty body triggers a full refresh of the configured plan.
	var req runIngestionRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	plan, err := usecase.LoadIngestionPlan(h.planPath)
	if err != nil {
		h.logger.ErrorContext(ctx, "load ingestion plan failed", "path", h.planPath, "error", err)
		writeError(ctx, w, err)
		return
	}

	results, err := h.summaryService.Ingest(ctx, usecase.IngestOptions{
		Plan:               plan,
		ConfigPath:         h.planPath,
		CompetitionFilters: req.Competitions,
		DryRun:             req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "triggered ingestion failed", "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ingestResultDTO, 0, len(results))
	for _, result := range results {
		items = append(items, ingestResultToDTO(ctx, result))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type rankingsRequest struct {
	Metric      string `validate:"required"`
	SeasonLabel string `validate:"required"`
	SortOrder   string `validate:"omitempty,oneof=asc desc"`
}

type snapshotRequest struct {
	SeasonLabel string `validate:"required"`
}

type metricsRequest struct {
	SeasonLabel string `validate:"required"`
}

type runIngestionRequest struct {
	Competitions []string `json:"competitions" validate:"omitempty,dive,required"`
	DryRun       bool     `json:"dry_run"`
}

type rankingRowDTO struct {
	PlayerID        int64    `json:"playerId"`
	PlayerName      string   `json:"playerName"`
	TeamName        string   `json:"teamName,omitempty"`
	CompetitionID   int64    `json:"competitionId"`
	CompetitionName string   `json:"competitionName,omitempty"`
	SeasonLabel     string   `json:"seasonLabel"`
	Position        string   `json:"position,omitempty"`
	PositionBucket  string   `json:"positionBucket,omitempty"`
	Minutes         float64  `json:"minutes"`
	MetricValue     float64  `json:"metricValue"`
	Percentile      *float64 `json:"percentile,omitempty"`
}

type playerSnapshotDTO struct {
	PlayerID     int64            `json:"playerId"`
	PlayerName   string           `json:"playerName"`
	ResolvedFrom string           `json:"resolvedFrom,omitempty"`
	Metrics      []snapshotRowDTO `json:"metrics"`
}

type snapshotRowDTO struct {
	MetricName      string   `json:"metricName"`
	MetricValue     *float64 `json:"metricValue,omitempty"`
	Percentile      *float64 `json:"percentile,omitempty"`
	TeamName        string   `json:"teamName,omitempty"`
	Position        string   `json:"position,omitempty"`
	Minutes         float64  `json:"minutes"`
	CompetitionID   int64    `json:"competitionId"`
	CompetitionName string   `json:"competitionName,omitempty"`
}

type metricInfoDTO struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

type coverageRowDTO struct {
	CompetitionID   int64  `json:"competitionId"`
	CompetitionName string `json:"competitionName,omitempty"`
	SeasonLabel     string `json:"seasonLabel"`
	PlayerCount     int64  `json:"playerCount"`
}

type ingestionRunDTO struct {
	RunID       int64  `json:"runId"`
	StartedAt   string `json:"startedAt"`
	CompletedAt string `json:"completedAt,omitempty"`
	Status      string `json:"status"`
	ConfigPath  string `json:"configPath,omitempty"`
	Details     string `json:"details,omitempty"`
}

type ingestResultDTO struct {
	CompetitionID    int64  `json:"competitionId"`
	CompetitionName  string `json:"competitionName,omitempty"`
	SeasonID         int64  `json:"seasonId"`
	SeasonLabel      string `json:"seasonLabel"`
	ProcessedPlayers int    `json:"processedPlayers"`
	DryRun           bool   `json:"dryRun"`
}

func rankingRowToDTO(ctx context.Context, row ranking.Row) rankingRowDTO {
	ctx, span := startSpan(ctx, "httpapi.rankingRowToDTO")
	defer span.End()

	return rankingRowDTO{
		PlayerID:        row.PlayerID,
		PlayerName:      row.PlayerName,
		TeamName:        row.TeamName,
		CompetitionID:   row.CompetitionID,
		CompetitionName: row.CompetitionName,
		SeasonLabel:     row.SeasonLabel,
		Position:        row.Position,
		PositionBucket:  row.PositionBucket,
		Minutes:         row.Minutes,
		MetricValue:     row.MetricValue,
		Percentile:      row.Percentile,
	}
}

func snapshotToDTO(ctx context.Context, snapshot usecase.Snapshot) playerSnapshotDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	metrics := make([]snapshotRowDTO, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		metrics = append(metrics, snapshotRowDTO{
			MetricName:      row.MetricName,
			MetricValue:     row.MetricValue,
			Percentile:      row.Percentile,
			TeamName:        row.TeamName,
			Position:        row.Position,
			Minutes:         row.Minutes,
			CompetitionID:   row.CompetitionID,
			CompetitionName: row.CompetitionName,
		})
	}

	return playerSnapshotDTO{
		PlayerID:     snapshot.PlayerID,
		PlayerName:   snapshot.PlayerName,
		ResolvedFrom: snapshot.ResolvedFrom,
		Metrics:      metrics,
	}
}

func ingestionRunToDTO(ctx context.Context, run summary.IngestionRun) ingestionRunDTO {
	ctx, span := startSpan(ctx, "httpapi.ingestionRunToDTO")
	defer span.End()

	return ingestionRunDTO{
		RunID:       run.RunID,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
		Status:      run.Status,
		ConfigPath:  run.ConfigPath,
		Details:     run.Details,
	}
}

func ingestResultToDTO(ctx context.Context, result summary.IngestResult) ingestResultDTO {
	ctx, span := startSpan(ctx, "httpapi.ingestResultToDTO")
	defer span.End()

	return ingestResultDTO{
		CompetitionID:    result.CompetitionID,
		CompetitionName:  result.CompetitionName,
		SeasonID:         result.SeasonID,
		SeasonLabel:      result.SeasonLabel,
		ProcessedPlayers: result.ProcessedPlayers,
		DryRun:           result.DryRun,
	}
}

func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
	}
	return v, nil
}

func queryCompetitionID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("competition_id"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: competition_id must be a positive integer", usecase.ErrInvalidInput)
	}
	return v, nil
}

func queryPlayerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("player_id"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: player_id must be a positive integer", usecase.ErrInvalidInput)
	}
	return v, nil
}

func queryMinMinutes(r *http.Request) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("min_minutes"))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: min_minutes must be a non-negative number", usecase.ErrInvalidInput)
	}
	return &v, nil
}
