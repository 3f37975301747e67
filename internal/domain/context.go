package domain

// ContextRecord is the trimmed projection of a generated entity that descendants read.
type ContextRecord struct {
	Kind       EntityKind `json:"kind"`
	EntityID   string     `json:"entity_id"`
	ParentID   string     `json:"parent_id,omitempty"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	Audience   string     `json:"audience,omitempty"`
	Difficulty string     `json:"difficulty,omitempty"`
	Style      string     `json:"style,omitempty"`
	// Fallback marks a stand-in record used when the real one is absent.
	Fallback bool `json:"-"`
}

// FallbackContext returns the generic stand-in for an absent ancestor context.
func FallbackContext(kind EntityKind, id string) *ContextRecord {
	rec := &ContextRecord{Kind: kind, EntityID: id, Fallback: true}
	switch kind {
	case KindCourse:
		rec.Title = "Course"
		rec.Summary = "Course description not available"
		rec.Audience = "Target audience not specified"
	case KindModule:
		rec.Title = "Module"
		rec.Summary = "Module summary not available"
	case KindLesson:
		rec.Title = "Lesson"
		rec.Summary = "Lesson objective not available"
	default:
		return nil
	}
	return rec
}

// Ancestry holds the context records loaded for a request, nearest first.
type Ancestry []*ContextRecord

// Of returns the record of the given kind, if loaded.
func (a Ancestry) Of(kind EntityKind) *ContextRecord {
	for _, rec := range a {
		if rec != nil && rec.Kind == kind {
			return rec
		}
	}
	return nil
}
