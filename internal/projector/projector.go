// Package projector turns scored result records into graph nodes and edges.
package projector

import (
	"sort"

	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/similarity"
)

const (
	// DefaultMaxNodes caps the node count so the pairwise edge pass stays
	// interactive. The cap is load-bearing: edges cost O(n^2).
	DefaultMaxNodes = 100
	// DefaultEdgeThreshold is the strict similarity cutoff for edge inclusion.
	DefaultEdgeThreshold = 0.35

	minRadius   = 8.0
	radiusRange = 16.0
)

// Options configures a projection pass.
type Options struct {
	// Dimension is the category key attribute.
	Dimension similarity.Dimension
	// MinScore is the display threshold expressed 0-100; normalized internally.
	MinScore float64
	// MaxNodes caps the projected node count; 0 means DefaultMaxNodes.
	MaxNodes int
	// EdgeThreshold is the strict similarity cutoff; 0 means DefaultEdgeThreshold.
	EdgeThreshold float64
	// Similarity overrides the scorer weights; nil means defaults.
	Similarity *similarity.Config
}

// Project filters and ranks records, builds one node per surviving record, and
// one edge per pair whose similarity strictly exceeds the threshold. Empty
// input yields an empty graph, never an error.
func Project(records []*models.ResultRecord, opts Options) *models.Graph {
	maxNodes := opts.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	threshold := opts.EdgeThreshold
	if threshold == 0 {
		threshold = DefaultEdgeThreshold
	}
	minScore := opts.MinScore / 100

	kept := make([]*models.ResultRecord, 0, len(records))
	for _, r := range records {
		if r != nil && r.Score >= minScore {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > maxNodes {
		kept = kept[:maxNodes]
	}

	graph := &models.Graph{
		Nodes: make([]*models.Node, 0, len(kept)),
		Edges: []*models.Edge{},
	}
	for _, r := range kept {
		graph.Nodes = append(graph.Nodes, &models.Node{
			ID:       r.ID,
			Name:     r.Name,
			Score:    r.Score,
			Radius:   minRadius + r.Score*radiusRange,
			Category: similarity.CategoryKey(r, opts.Dimension),
			Record:   r,
		})
	}

	scorer := similarity.NewScorer(opts.Similarity, opts.Dimension)
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			sim := scorer.Score(kept[i], kept[j])
			if sim > threshold {
				graph.Edges = append(graph.Edges, &models.Edge{
					Source:     kept[i].ID,
					Target:     kept[j].ID,
					Similarity: sim,
				})
			}
		}
	}
	return graph
}
