package usecase

import (
	"context"
	"fmt"

	"github.com/openfooty/statindex/internal/domain/catalog"
	"github.com/openfooty/statindex/internal/platform/logging"
)

// IndexBuildReport summarizes one index rebuild for callers that render it.
type IndexBuildReport struct {
	Counts    map[string]int `json:"counts"`
	Issues    []string       `json:"issues"`
	DateStart string         `json:"date_start,omitempty"`
	DateEnd   string         `json:"date_end,omitempty"`
}

// IndexService runs the full rebuild: walk the upstream feeds into a graph,
// validate it, then serialize both index forms. The JSON files and the
// search database always come from the same finalized graph.
type IndexService struct {
	graphs *GraphService
	index  catalog.IndexWriter
	search catalog.SearchWriter
	logger *logging.Logger
}

func NewIndexService(
	graphs *GraphService,
	index catalog.IndexWriter,
	search catalog.SearchWriter,
	logger *logging.Logger,
) *IndexService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IndexService{
		graphs: graphs,
		index:  index,
		search: search,
		logger: logger,
	}
}

// BuildIndex rebuilds every index artifact wholesale. Validation issues are
// advisory and never stop serialization; only a writer failure does.
func (s *IndexService) BuildIndex(ctx context.Context) (IndexBuildReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IndexService.BuildIndex")
	defer span.End()

	if s.graphs == nil {
		return IndexBuildReport{}, fmt.Errorf("%w: graph builder is not configured", ErrDependencyUnavailable)
	}

	graph, err := s.graphs.Build(ctx)
	if err != nil {
		return IndexBuildReport{}, fmt.Errorf("build entity graph: %w", err)
	}

	issues := catalog.Validate(graph)
	if len(issues) > 0 {
		s.logger.WarnContext(ctx, "index build produced validation issues", "issues", len(issues))
	}

	if s.index != nil {
		if err := s.index.WriteIndex(ctx, graph, issues); err != nil {
			return IndexBuildReport{}, fmt.Errorf("write json index: %w", err)
		}
	}
	if s.search != nil {
		if err := s.search.Rebuild(ctx, graph); err != nil {
			return IndexBuildReport{}, fmt.Errorf("rebuild search index: %w", err)
		}
	}

	start, end := graph.DateCoverage()
	return IndexBuildReport{
		Counts:    graph.Counts(),
		Issues:    issues,
		DateStart: start,
		DateEnd:   end,
	}, nil
}
