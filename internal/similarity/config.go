package similarity

// Config holds the additive weights of the pairwise scorer.
type Config struct {
	// CategoryWeight is the bonus for a shared non-generic category key.
	CategoryWeight float64 `yaml:"category_weight"` // default: 0.4

	// Document-like pair bonuses.
	ParentEntityWeight float64 `yaml:"parent_entity_weight"` // default: 0.3
	FileTypeWeight     float64 `yaml:"file_type_weight"`     // default: 0.1

	// Non-document pair bonuses.
	OrganizationWeight float64 `yaml:"organization_weight"` // default: 0.3
	PeopleWeight       float64 `yaml:"people_weight"`       // default: 0.1
	KeywordWeight      float64 `yaml:"keyword_weight"`      // default: 0.2

	// ScoreProximityWeight scales the (1 - |scoreA - scoreB|) term.
	ScoreProximityWeight float64 `yaml:"score_proximity_weight"` // default: 0.1
}

// DefaultConfig returns the default scorer weights.
func DefaultConfig() *Config {
	return &Config{
		CategoryWeight:       0.4,
		ParentEntityWeight:   0.3,
		FileTypeWeight:       0.1,
		OrganizationWeight:   0.3,
		PeopleWeight:         0.1,
		KeywordWeight:        0.2,
		ScoreProximityWeight: 0.1,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.CategoryWeight == 0 {
		c.CategoryWeight = defaults.CategoryWeight
	}
	if c.ParentEntityWeight == 0 {
		c.ParentEntityWeight = defaults.ParentEntityWeight
	}
	if c.FileTypeWeight == 0 {
		c.FileTypeWeight = defaults.FileTypeWeight
	}
	if c.OrganizationWeight == 0 {
		c.OrganizationWeight = defaults.OrganizationWeight
	}
	if c.PeopleWeight == 0 {
		c.PeopleWeight = defaults.PeopleWeight
	}
	if c.KeywordWeight == 0 {
		c.KeywordWeight = defaults.KeywordWeight
	}
	if c.ScoreProximityWeight == 0 {
		c.ScoreProximityWeight = defaults.ScoreProximityWeight
	}
}
