package catalog

import "context"

// IndexWriter persists a finalized graph as the JSON index file set.
type IndexWriter interface {
	WriteIndex(ctx context.Context, graph *Graph, issues []string) error
}

// SearchWriter rebuilds the relational search database from a finalized
// graph. Rebuilds are wholesale: any previous database is discarded first.
type SearchWriter interface {
	Rebuild(ctx context.Context, graph *Graph) error
}
