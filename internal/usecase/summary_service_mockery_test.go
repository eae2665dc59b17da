package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/openfooty/statindex/external/statsbomb"
	statsbombmock "github.com/openfooty/statindex/internal/mocks/external/statsbomb"
	"github.com/openfooty/statindex/internal/platform/logging"
)

func TestSummaryService_Ingest_FetchProtocolUsingMockery(t *testing.T) {
	t.Parallel()

	source := statsbombmock.NewSource(t)
	store := newStubSummaryStore()
	service := NewSummaryService(source, store, logging.NewNop())
	service.now = fixedClock

	plan := IngestionPlan{
		TrackedCompetitions: []PlanCompetition{
			{
				Name:          "Premier League",
				CompetitionID: 2,
				Seasons:       []PlanSeason{{Label: "2024/2025"}},
			},
		},
	}

	source.
		On("ListSeasons", mock.Anything, int64(2)).
		Return([]statsbomb.SeasonRecord{{SeasonID: 90, SeasonName: "2024/2025"}}, nil).
		Once()
	source.
		On("GetPlayerSeasonStats", mock.Anything, int64(2), int64(90)).
		Return([]statsbomb.PlayerSeasonRecord{
			playerRow(901, "Erling Haaland", "Centre Forward", 2500, 1.05),
		}, nil).
		Once()

	results, err := service.Ingest(context.Background(), IngestOptions{Plan: plan})
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if len(results) != 1 || results[0].SeasonID != 90 || results[0].ProcessedPlayers != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
}
