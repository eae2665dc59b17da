package usecase

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/openfooty/statindex/internal/domain/summary"
)

var planValidator = validator.New()

// IngestionPlan is the declarative slice list one summary refresh executes:
// which competitions, which season labels, and the minute thresholds and
// percentile cohorts per season.
type IngestionPlan struct {
	TrackedCompetitions []PlanCompetition `json:"tracked_competitions" validate:"required,min=1,dive"`
}

type PlanCompetition struct {
	Name          string       `json:"name" validate:"required"`
	CompetitionID int64        `json:"competition_id" validate:"required,gt=0"`
	Seasons       []PlanSeason `json:"seasons" validate:"required,min=1,dive"`
}

// PlanSeason tracks one season of a competition. SeasonID is optional; a
// zero value means the label is resolved against the provider at run time.
type PlanSeason struct {
	Label               string       `json:"label" validate:"required"`
	SeasonID            int64        `json:"season_id,omitempty" validate:"gte=0"`
	MinMinutes          float64      `json:"min_minutes,omitempty" validate:"gte=0"`
	MinMinutesPercent   float64      `json:"min_minutes_percent,omitempty" validate:"gte=0,lte=1"`
	MinMinutesFloor     float64      `json:"min_minutes_floor,omitempty" validate:"gte=0"`
	PercentilePositions []PlanBucket `json:"percentile_positions,omitempty" validate:"dive"`
}

type PlanBucket struct {
	Name    string   `json:"name" validate:"required"`
	Include []string `json:"include" validate:"required,min=1"`
}

// Buckets converts the season's cohort configuration to the domain shape.
func (s PlanSeason) Buckets() []summary.PositionBucket {
	buckets := make([]summary.PositionBucket, 0, len(s.PercentilePositions))
	for _, bucket := range s.PercentilePositions {
		buckets = append(buckets, summary.PositionBucket{
			Name:    bucket.Name,
			Include: bucket.Include,
		})
	}
	return buckets
}

// Thresholds converts the season's minute limits to the domain policy.
func (s PlanSeason) Thresholds() summary.ThresholdPolicy {
	return summary.ThresholdPolicy{
		MinMinutes:        s.MinMinutes,
		MinMinutesPercent: s.MinMinutesPercent,
		MinMinutesFloor:   s.MinMinutesFloor,
	}
}

// LoadIngestionPlan reads and validates a plan file. The file must exist; a
// run with no plan is a configuration error, not an empty refresh.
func LoadIngestionPlan(path string) (IngestionPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return IngestionPlan{}, fmt.Errorf("%w: read ingestion plan %s: %v", ErrInvalidInput, path, err)
	}

	var plan IngestionPlan
	if err := sonic.Unmarshal(raw, &plan); err != nil {
		return IngestionPlan{}, fmt.Errorf("%w: parse ingestion plan %s: %v", ErrInvalidInput, path, err)
	}
	if err := plan.Validate(); err != nil {
		return IngestionPlan{}, err
	}
	return plan, nil
}

// Validate checks the plan's structure before any run starts.
func (p IngestionPlan) Validate() error {
	if err := planValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: invalid ingestion plan: %v", ErrInvalidInput, err)
	}
	for _, comp := range p.TrackedCompetitions {
		for _, season := range comp.Seasons {
			if strings.TrimSpace(season.Label) == "" {
				return fmt.Errorf("%w: competition %q has a season with no label", ErrInvalidInput, comp.Name)
			}
		}
	}
	return nil
}
