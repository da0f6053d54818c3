// Package models defines core data structures for result records, graphs, and projections.
package models

// RecordKind distinguishes document results from non-document entities
// (matters, projects, invoices).
type RecordKind string

const (
	// KindDocument is a document-like result.
	KindDocument RecordKind = "document"
	// KindEntity is a non-document result (matter, project, invoice).
	KindEntity RecordKind = "entity"
)

// DateField selects which date attribute of a record the timeline uses.
type DateField string

const (
	// DateCreated is the record creation date.
	DateCreated DateField = "created"
	// DateModified is the record last-modified date.
	DateModified DateField = "modified"
	// DateEvent is the domain event date (filing date, invoice date, etc.).
	DateEvent DateField = "event"
)

// ParseDateField maps a request string onto a DateField. Unrecognized or
// empty values fall back to DateCreated.
func ParseDateField(s string) DateField {
	switch DateField(s) {
	case DateModified:
		return DateModified
	case DateEvent:
		return DateEvent
	default:
		return DateCreated
	}
}

// ResultRecord is a scored search hit supplied by the upstream search service.
// Records are read-only inputs to the projection pipeline; only id, name, and
// score are required, every other field degrades to "no signal" when absent.
type ResultRecord struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Kind  RecordKind `json:"kind,omitempty"`
	Score float64    `json:"score"`

	DocumentType string `json:"document_type,omitempty"`
	MatterType   string `json:"matter_type,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	ParentEntity string `json:"parent_entity,omitempty"`

	Organizations []string `json:"organizations,omitempty"`
	People        []string `json:"people,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`

	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date,omitempty"`
	EventDate    string `json:"event_date,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// IsDocument reports whether the record is document-like. Records with no
// explicit kind are treated as documents.
func (r *ResultRecord) IsDocument() bool {
	return r.Kind != KindEntity
}

// DateValue returns the raw value of the given date field, or "" when unset.
func (r *ResultRecord) DateValue(field DateField) string {
	switch field {
	case DateModified:
		return r.ModifiedDate
	case DateEvent:
		return r.EventDate
	default:
		return r.CreatedDate
	}
}
