package similarity

import (
	"strings"

	"github.com/relmap/relmap/internal/models"
)

// Dimension selects which record attribute is used as the category key for
// clustering, coloring, and the same-category similarity bonus.
type Dimension string

const (
	// DimensionDocumentType clusters by document type (entities fall back to matter type).
	DimensionDocumentType Dimension = "document_type"
	// DimensionMatterType clusters by matter type.
	DimensionMatterType Dimension = "matter_type"
	// DimensionFileType clusters by file extension/type.
	DimensionFileType Dimension = "file_type"
	// DimensionOrganization clusters by first listed organization.
	DimensionOrganization Dimension = "organization"
)

// Generic fallback category keys. These carry no discriminating signal and
// never contribute to the same-category bonus.
const (
	FallbackDocument = "Uncategorized"
	FallbackEntity   = "Unknown"
)

// ParseDimension maps a string to a Dimension, defaulting to document type.
func ParseDimension(s string) Dimension {
	switch Dimension(strings.ToLower(strings.TrimSpace(s))) {
	case DimensionMatterType:
		return DimensionMatterType
	case DimensionFileType:
		return DimensionFileType
	case DimensionOrganization:
		return DimensionOrganization
	default:
		return DimensionDocumentType
	}
}

// CategoryKey derives the category key for a record along the given dimension.
// Missing values resolve to a kind-appropriate generic fallback.
func CategoryKey(r *models.ResultRecord, dim Dimension) string {
	var key string
	switch dim {
	case DimensionMatterType:
		key = r.MatterType
	case DimensionFileType:
		key = r.FileType
	case DimensionOrganization:
		if len(r.Organizations) > 0 {
			key = r.Organizations[0]
		}
	default:
		if r.IsDocument() {
			key = r.DocumentType
		} else {
			key = r.MatterType
		}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		if r.IsDocument() {
			return FallbackDocument
		}
		return FallbackEntity
	}
	return key
}

// IsGenericCategory reports whether key is one of the fallback values that are
// excluded from the same-category bonus.
func IsGenericCategory(key string) bool {
	switch key {
	case FallbackDocument, FallbackEntity:
		return true
	}
	return false
}
