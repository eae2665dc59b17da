package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const planFixture = `{
  "tracked_competitions": [
    {
      "name": "Premier League",
      "competition_id": 2,
      "seasons": [
        {
          "label": "2024/2025",
          "season_id": 90,
          "min_minutes": 600,
          "min_minutes_percent": 0.25,
          "min_minutes_floor": 180,
          "percentile_positions": [
            {"name": "ST", "include": ["Centre Forward", "Striker"]}
          ]
        }
      ]
    }
  ]
}`

func TestLoadIngestionPlan_ReadsAndValidates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(planFixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	plan, err := LoadIngestionPlan(path)
	if err != nil {
		t.Fatalf("LoadIngestionPlan error: %v", err)
	}

	if len(plan.TrackedCompetitions) != 1 {
		t.Fatalf("unexpected competitions: %+v", plan.TrackedCompetitions)
	}
	comp := plan.TrackedCompetitions[0]
	if comp.CompetitionID != 2 || len(comp.Seasons) != 1 {
		t.Fatalf("unexpected competition: %+v", comp)
	}

	season := comp.Seasons[0]
	policy := season.Thresholds()
	if policy.MinMinutes != 600 || policy.MinMinutesPercent != 0.25 || policy.MinMinutesFloor != 180 {
		t.Fatalf("threshold policy not mapped: %+v", policy)
	}

	buckets := season.Buckets()
	if len(buckets) != 1 || buckets[0].Name != "ST" || len(buckets[0].Include) != 2 {
		t.Fatalf("buckets not mapped: %+v", buckets)
	}
}

func TestLoadIngestionPlan_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadIngestionPlan(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadIngestionPlan_MalformedJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadIngestionPlan(path); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionPlan_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		plan IngestionPlan
	}{
		{name: "no competitions", plan: IngestionPlan{}},
		{
			name: "missing competition id",
			plan: IngestionPlan{TrackedCompetitions: []PlanCompetition{
				{Name: "Premier League", Seasons: []PlanSeason{{Label: "2024/2025"}}},
			}},
		},
		{
			name: "no seasons",
			plan: IngestionPlan{TrackedCompetitions: []PlanCompetition{
				{Name: "Premier League", CompetitionID: 2},
			}},
		},
		{
			name: "blank season label",
			plan: IngestionPlan{TrackedCompetitions: []PlanCompetition{
				{Name: "Premier League", CompetitionID: 2, Seasons: []PlanSeason{{Label: "   "}}},
			}},
		},
		{
			name: "minutes percent above one",
			plan: IngestionPlan{TrackedCompetitions: []PlanCompetition{
				{Name: "Premier League", CompetitionID: 2, Seasons: []PlanSeason{{Label: "2024/2025", MinMinutesPercent: 1.5}}},
			}},
		},
		{
			name: "bucket without positions",
			plan: IngestionPlan{TrackedCompetitions: []PlanCompetition{
				{Name: "Premier League", CompetitionID: 2, Seasons: []PlanSeason{
					{Label: "2024/2025", PercentilePositions: []PlanBucket{{Name: "ST"}}},
				}},
			}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.plan.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
