// Package similarity computes pairwise relatedness between result records.
//
// Scores are additive heuristics, not probabilities: each signal contributes a
// fixed bonus and no normalization is applied, so the practical range is
// [0, ~1.1]. The formula is symmetric, so Score(a, b) == Score(b, a).
package similarity

import (
	"math"

	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/pkg/utils"
)

// Scorer computes pairwise similarity along a fixed category dimension.
// Scorers are stateless and safe for concurrent use.
type Scorer struct {
	config    *Config
	dimension Dimension
}

// NewScorer creates a scorer. A nil config uses defaults.
func NewScorer(config *Config, dimension Dimension) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()
	return &Scorer{config: config, dimension: dimension}
}

// Dimension returns the category dimension the scorer was built with.
func (s *Scorer) Dimension() Dimension {
	return s.dimension
}

// Score returns the pairwise similarity of a and b. Pure and deterministic;
// missing attributes contribute no bonus.
func (s *Scorer) Score(a, b *models.ResultRecord) float64 {
	score := 0.0

	// Shared category, unless it is a generic fallback.
	catA := CategoryKey(a, s.dimension)
	if catA == CategoryKey(b, s.dimension) && !IsGenericCategory(catA) {
		score += s.config.CategoryWeight
	}

	// Domain bonuses apply only to same-kind pairs.
	if a.IsDocument() == b.IsDocument() {
		if a.IsDocument() {
			if sameNonEmpty(a.ParentEntity, b.ParentEntity) {
				score += s.config.ParentEntityWeight
			}
			if sameNonEmpty(a.FileType, b.FileType) {
				score += s.config.FileTypeWeight
			}
		} else {
			if sharesElement(a.Organizations, b.Organizations) {
				score += s.config.OrganizationWeight
			}
			if sharesElement(a.People, b.People) {
				score += s.config.PeopleWeight
			}
			if sharesElement(a.Keywords, b.Keywords) {
				score += s.config.KeywordWeight
			}
		}
	}

	// Score proximity always contributes, up to the full weight for equal scores.
	score += (1 - math.Abs(a.Score-b.Score)) * s.config.ScoreProximityWeight

	return score
}

// sameNonEmpty reports whether a and b are equal (case-insensitive) and non-empty.
func sameNonEmpty(a, b string) bool {
	na, nb := utils.NormalizeKey(a), utils.NormalizeKey(b)
	return na != "" && na == nb
}

// sharesElement reports whether the two lists share at least one element.
// Empty lists never match.
func sharesElement(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		if k := utils.NormalizeKey(v); k != "" {
			seen[k] = struct{}{}
		}
	}
	for _, v := range b {
		if k := utils.NormalizeKey(v); k != "" {
			if _, ok := seen[k]; ok {
				return true
			}
		}
	}
	return false
}
