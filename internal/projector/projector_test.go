package projector

import (
	"fmt"
	"math"
	"testing"

	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/similarity"
)

func makeRecords(n int, base float64) []*models.ResultRecord {
	records := make([]*models.ResultRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &models.ResultRecord{
			ID:           fmt.Sprintf("r%03d", i),
			Name:         fmt.Sprintf("record %d", i),
			Kind:         models.KindDocument,
			Score:        base + float64(i)/float64(n)*(1-base),
			DocumentType: "Contract",
		})
	}
	return records
}

func TestProject_EmptyInput(t *testing.T) {
	graph := Project(nil, Options{})
	if len(graph.Nodes) != 0 || len(graph.Edges) != 0 {
		t.Errorf("Project(nil) = %d nodes, %d edges; want empty", len(graph.Nodes), len(graph.Edges))
	}
}

func TestProject_CapKeepsTopByScore(t *testing.T) {
	records := makeRecords(150, 0.2)
	graph := Project(records, Options{MinScore: 10})

	if len(graph.Nodes) != DefaultMaxNodes {
		t.Fatalf("got %d nodes, want %d", len(graph.Nodes), DefaultMaxNodes)
	}
	// Nodes must be the top-100 by score, in descending order.
	for i := 1; i < len(graph.Nodes); i++ {
		if graph.Nodes[i].Score > graph.Nodes[i-1].Score {
			t.Fatalf("nodes not sorted by score at %d", i)
		}
	}
	minKept := graph.Nodes[len(graph.Nodes)-1].Score
	dropped := 0
	for _, r := range records {
		if r.Score < minKept {
			dropped++
		}
	}
	if dropped != len(records)-DefaultMaxNodes {
		t.Errorf("cap dropped %d records, want %d", dropped, len(records)-DefaultMaxNodes)
	}
}

func TestProject_ThresholdNormalization(t *testing.T) {
	records := []*models.ResultRecord{
		{ID: "hi", Score: 0.8},
		{ID: "mid", Score: 0.5},
		{ID: "lo", Score: 0.2},
	}
	graph := Project(records, Options{MinScore: 50})
	if len(graph.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(graph.Nodes))
	}
	for _, n := range graph.Nodes {
		if n.ID == "lo" {
			t.Error("record below threshold was kept")
		}
	}
}

func TestProject_NodeAttributes(t *testing.T) {
	r := &models.ResultRecord{
		ID: "doc-1", Name: "Service Agreement", Kind: models.KindDocument,
		Score: 0.5, DocumentType: "Contract",
	}
	graph := Project([]*models.ResultRecord{r}, Options{Dimension: similarity.DimensionDocumentType})
	if len(graph.Nodes) != 1 {
		t.Fatal("want one node")
	}
	node := graph.Nodes[0]
	if node.Radius != 8+0.5*16 {
		t.Errorf("radius = %v, want 16", node.Radius)
	}
	if node.Category != "Contract" {
		t.Errorf("category = %q", node.Category)
	}
	if node.Record != r {
		t.Error("node must keep a back-reference to its source record")
	}
}

func TestProject_EdgeInclusion(t *testing.T) {
	// Same non-generic category and equal scores: similarity 0.4 + 0.1 = 0.5 > 0.35.
	// Different categories, equal scores: 0.1, no edge.
	records := []*models.ResultRecord{
		{ID: "a", Score: 0.9, DocumentType: "Contract"},
		{ID: "b", Score: 0.9, DocumentType: "Contract"},
		{ID: "c", Score: 0.9, DocumentType: "Memo"},
	}
	graph := Project(records, Options{})
	if len(graph.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(graph.Edges))
	}
	edge := graph.Edges[0]
	if edge.Source != "a" || edge.Target != "b" {
		t.Errorf("edge = %s->%s, want a->b (iteration order)", edge.Source, edge.Target)
	}
	if math.Abs(edge.Similarity-0.5) > 1e-9 {
		t.Errorf("similarity = %v, want 0.5", edge.Similarity)
	}
}

func TestProject_EdgeThresholdIsStrict(t *testing.T) {
	// Equal scores, no other signal: similarity exactly 0.1 with default weights;
	// raise score proximity so the pair sits exactly on the threshold.
	cfg := similarity.DefaultConfig()
	cfg.ScoreProximityWeight = 0.35
	records := []*models.ResultRecord{
		{ID: "a", Score: 0.5},
		{ID: "b", Score: 0.5},
	}
	graph := Project(records, Options{Similarity: cfg})
	if len(graph.Edges) != 0 {
		t.Errorf("similarity equal to threshold must not produce an edge, got %d", len(graph.Edges))
	}
}

func TestProject_Deterministic(t *testing.T) {
	records := makeRecords(40, 0.3)
	a := Project(records, Options{})
	b := Project(records, Options{})
	if len(a.Edges) != len(b.Edges) {
		t.Fatalf("edge counts differ: %d vs %d", len(a.Edges), len(b.Edges))
	}
	for i := range a.Edges {
		if *a.Edges[i] != *b.Edges[i] {
			t.Fatalf("edge %d differs between identical passes", i)
		}
	}
}
