package similarity

import (
	"math"
	"testing"

	"github.com/relmap/relmap/internal/models"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScorer_Score_Documents(t *testing.T) {
	scorer := NewScorer(nil, DimensionDocumentType)

	tests := []struct {
		name string
		a, b *models.ResultRecord
		want float64
	}{
		{
			name: "full stack of document bonuses",
			a: &models.ResultRecord{
				ID: "a", Kind: models.KindDocument, Score: 0.9,
				DocumentType: "Contract", ParentEntity: "Acme Matter", FileType: "pdf",
			},
			b: &models.ResultRecord{
				ID: "b", Kind: models.KindDocument, Score: 0.8,
				DocumentType: "Contract", ParentEntity: "Acme Matter", FileType: "pdf",
			},
			// 0.4 + 0.3 + 0.1 + (1-0.1)*0.1
			want: 0.89,
		},
		{
			name: "category only",
			a:    &models.ResultRecord{ID: "a", DocumentType: "Brief", Score: 0.5},
			b:    &models.ResultRecord{ID: "b", DocumentType: "Brief", Score: 0.5},
			want: 0.4 + 0.1,
		},
		{
			name: "generic fallback category excluded",
			a:    &models.ResultRecord{ID: "a", Score: 0.5},
			b:    &models.ResultRecord{ID: "b", Score: 0.5},
			want: 0.1,
		},
		{
			name: "explicit Uncategorized excluded",
			a:    &models.ResultRecord{ID: "a", DocumentType: "Uncategorized", Score: 1},
			b:    &models.ResultRecord{ID: "b", DocumentType: "Uncategorized", Score: 1},
			want: 0.1,
		},
		{
			name: "score proximity floor",
			a:    &models.ResultRecord{ID: "a", DocumentType: "X", Score: 1},
			b:    &models.ResultRecord{ID: "b", DocumentType: "Y", Score: 0},
			want: 0,
		},
		{
			name: "file type differs",
			a:    &models.ResultRecord{ID: "a", ParentEntity: "M1", FileType: "pdf", Score: 0.5},
			b:    &models.ResultRecord{ID: "b", ParentEntity: "M1", FileType: "docx", Score: 0.5},
			want: 0.3 + 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.a, tt.b)
			if !approxEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScorer_Score_Entities(t *testing.T) {
	scorer := NewScorer(nil, DimensionMatterType)

	a := &models.ResultRecord{
		ID: "m1", Kind: models.KindEntity, Score: 0.7, MatterType: "Litigation",
		Organizations: []string{"Acme Corp", "Globex"},
		People:        []string{"J. Doe"},
		Keywords:      []string{"breach", "damages"},
	}
	b := &models.ResultRecord{
		ID: "m2", Kind: models.KindEntity, Score: 0.7, MatterType: "Litigation",
		Organizations: []string{"globex"},
		People:        []string{"R. Roe"},
		Keywords:      []string{"damages"},
	}

	// 0.4 category + 0.3 org + 0.2 keyword + 0.1 proximity, no people overlap.
	want := 0.4 + 0.3 + 0.2 + 0.1
	if got := scorer.Score(a, b); !approxEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScorer_Score_MixedKindGetsNoDomainBonus(t *testing.T) {
	scorer := NewScorer(nil, DimensionFileType)
	doc := &models.ResultRecord{
		ID: "d", Kind: models.KindDocument, Score: 0.5,
		FileType: "pdf", ParentEntity: "Shared", Organizations: []string{"Acme"},
	}
	ent := &models.ResultRecord{
		ID: "e", Kind: models.KindEntity, Score: 0.5,
		FileType: "pdf", ParentEntity: "Shared", Organizations: []string{"Acme"},
	}
	// Same file_type category still counts, but no domain bonus crosses kinds.
	want := 0.4 + 0.1
	if got := scorer.Score(doc, ent); !approxEqual(got, want) {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestScorer_Score_EmptyListsNeverMatch(t *testing.T) {
	scorer := NewScorer(nil, DimensionMatterType)
	a := &models.ResultRecord{ID: "a", Kind: models.KindEntity, Score: 0.5}
	b := &models.ResultRecord{ID: "b", Kind: models.KindEntity, Score: 0.5}
	if got := scorer.Score(a, b); !approxEqual(got, 0.1) {
		t.Errorf("Score() with empty lists = %v, want 0.1", got)
	}
}

func TestScorer_Score_Symmetric(t *testing.T) {
	scorer := NewScorer(nil, DimensionDocumentType)
	records := []*models.ResultRecord{
		{ID: "1", Kind: models.KindDocument, Score: 0.9, DocumentType: "Contract", ParentEntity: "Acme", FileType: "pdf"},
		{ID: "2", Kind: models.KindDocument, Score: 0.2, DocumentType: "Contract", FileType: "docx"},
		{ID: "3", Kind: models.KindEntity, Score: 0.6, MatterType: "Litigation", Organizations: []string{"Acme"}, Keywords: []string{"ip"}},
		{ID: "4", Kind: models.KindEntity, Score: 0.4, Organizations: []string{"acme"}, People: []string{"J. Doe"}},
		{ID: "5", Score: 0.0},
	}
	for i := range records {
		for j := range records {
			ab := scorer.Score(records[i], records[j])
			ba := scorer.Score(records[j], records[i])
			if !approxEqual(ab, ba) {
				t.Errorf("Score(%s,%s)=%v but Score(%s,%s)=%v",
					records[i].ID, records[j].ID, ab, records[j].ID, records[i].ID, ba)
			}
		}
	}
}

func TestScorer_Score_Bounds(t *testing.T) {
	scorer := NewScorer(nil, DimensionMatterType)
	records := []*models.ResultRecord{
		{ID: "1", Kind: models.KindEntity, Score: 1, MatterType: "Litigation",
			Organizations: []string{"Acme"}, People: []string{"J. Doe"}, Keywords: []string{"ip"}},
		{ID: "2", Kind: models.KindEntity, Score: 1, MatterType: "Litigation",
			Organizations: []string{"Acme"}, People: []string{"J. Doe"}, Keywords: []string{"ip"}},
		{ID: "3", Score: 0},
	}
	for i := range records {
		for j := range records {
			got := scorer.Score(records[i], records[j])
			if got < 0 || got > 1.1+epsilon {
				t.Errorf("Score(%s,%s) = %v out of [0, 1.1]", records[i].ID, records[j].ID, got)
			}
		}
	}
}
