package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/usecase"
)

// Counts render in graph order; anything unexpected lands behind them.
var countOrder = []string{"competitions", "seasons", "teams", "players", "managers", "matches"}

func renderBuildReport(w io.Writer, report usecase.IndexBuildReport, elapsed time.Duration) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	seen := make(map[string]bool, len(report.Counts))
	for _, key := range countOrder {
		if count, ok := report.Counts[key]; ok {
			fmt.Fprintf(tw, "%s\t%d\n", key, count)
			seen[key] = true
		}
	}
	var rest []string
	for key := range report.Counts {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(tw, "%s\t%d\n", key, report.Counts[key])
	}
	tw.Flush()

	if report.DateStart != "" || report.DateEnd != "" {
		fmt.Fprintf(w, "match dates: %s .. %s\n", report.DateStart, report.DateEnd)
	}
	if len(report.Issues) > 0 {
		fmt.Fprintf(w, "validation issues (%d):\n", len(report.Issues))
		for _, issue := range report.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
	fmt.Fprintf(w, "index built in %s\n", elapsed.Round(time.Millisecond))
}

func renderIngestResults(w io.Writer, results []summary.IngestResult, elapsed time.Duration) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no slices matched the plan")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPETITION\tSEASON\tPLAYERS\tMODE")
	for _, result := range results {
		mode := "write"
		if result.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(tw, "%s (%d)\t%s\t%d\t%s\n",
			result.CompetitionName, result.CompetitionID, result.SeasonLabel, result.ProcessedPlayers, mode)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d slice(s) in %s\n", len(results), elapsed.Round(time.Millisecond))
}

func renderRankRows(w io.Writer, rows []ranking.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no rows")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tTEAM\tCOMPETITION\tSEASON\tPOS\tMIN\tVALUE\tPCTL")
	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.0f\t%.2f\t%s\n",
			i+1,
			row.PlayerName,
			row.TeamName,
			row.CompetitionName,
			row.SeasonLabel,
			positionLabel(row.PositionBucket, row.Position),
			row.Minutes,
			row.MetricValue,
			formatPercentile(row.Percentile),
		)
	}
	tw.Flush()
}

func renderSnapshot(w io.Writer, snap usecase.Snapshot) {
	fmt.Fprintf(w, "%s (player %d)\n", snap.PlayerName, snap.PlayerID)
	if snap.ResolvedFrom != "" {
		fmt.Fprintf(w, "resolved from %q\n", snap.ResolvedFrom)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE\tPCTL\tCOMPETITION\tTEAM\tMIN")
	for _, row := range snap.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f\n",
			row.MetricName,
			formatValue(row.MetricValue),
			formatPercentile(row.Percentile),
			row.CompetitionName,
			row.TeamName,
			row.Minutes,
		)
	}
	tw.Flush()
}

func renderMetricInfos(w io.Writer, infos []ranking.MetricInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "no metrics stored")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tROWS")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\n", info.Name, info.Rows)
	}
	tw.Flush()
}

func renderCoverage(w io.Writer, rows []ranking.CoverageRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "store is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPETITION\tSEASON\tPLAYERS")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n",
			row.CompetitionID, row.CompetitionName, row.SeasonLabel, row.PlayerCount)
	}
	tw.Flush()
}

func renderRuns(w io.Writer, runs []summary.IngestionRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no ingestion runs recorded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tCOMPLETED\tSTATUS\tDETAILS")
	for _, run := range runs {
		completed := run.CompletedAt
		if completed == "" {
			completed = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			run.RunID, run.StartedAt, completed, run.Status, truncate(run.Details, 72))
	}
	tw.Flush()
}

func positionLabel(bucket, position string) string {
	if bucket != "" {
		return bucket
	}
	if position != "" {
		return position
	}
	return "-"
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPercentile(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *p)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
