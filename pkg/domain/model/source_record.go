package model

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Source lifecycle status codes as stored by the CMS. The meaning of the
// numeric codes comes from the source system: 1 is published, 0 is a
// draft-like state. Records may also carry no status at all.
const (
	SourceStatusDraft     = 0
	SourceStatusPublished = 1
)

// SourceRecord is a read-only news document fetched from the source store.
// The CMS schema drifted over the years, so the article body may live in any
// of several fields (Content, Text, Body) and short descriptions in others
// (Spot, SEODescription); the normalizer resolves them in a fixed order.
type SourceRecord struct {
	ID             types.SourceID
	Title          string
	Content        string // primary rich-text body, may contain HTML
	Text           string // plain-text alternate
	Body           string // legacy alternate
	Summary        string
	Spot           string // short description shown on listing pages
	SEODescription string
	URL            string
	Slug           string
	Status         *int // nil when the CMS never set one
	PublishedAt    *time.Time
	Categories     []int64
	Tags           []int64
	HitCount       int64
	Media          map[string]any // attachment metadata, preserved as-is
}

// DateRange filters source records by publication date. Either bound may be
// nil for an open interval.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range has no bounds
func (r *DateRange) IsZero() bool {
	return r == nil || (r.From == nil && r.To == nil)
}
