package model

// SummaryMaxLength is the cap for derived summaries. When cleaned content is
// longer, the summary is the first SummaryMaxLength characters plus
// SummaryTruncationMarker.
const (
	SummaryMaxLength        = 200
	SummaryTruncationMarker = "..."
)

// NormalizedContent is the ephemeral output of the content normalizer. It is
// derived per source record and never persisted on its own.
type NormalizedContent struct {
	Content string // cleaned plain text
	Summary string // explicit or derived, capped at SummaryMaxLength
	IsValid bool
	Issues  []string
}
