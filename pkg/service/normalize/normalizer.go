package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Policy holds the tunable content validation thresholds. The two presets
// correspond to the migration-eligibility modes: strict admits only
// substantial published articles, permissive also lets drafts and very short
// records through.
type Policy struct {
	Mode             types.ValidationMode
	MinContentLength int
	MaxTitleLength   int
	Statuses         []int
	AllowNoStatus    bool
}

// StrictPolicy returns the strict validation preset
func StrictPolicy() Policy {
	return Policy{
		Mode:             types.ValidationModeStrict,
		MinContentLength: 50,
		MaxTitleLength:   200,
		Statuses:         []int{model.SourceStatusPublished},
	}
}

// PermissivePolicy returns the permissive validation preset
func PermissivePolicy() Policy {
	return Policy{
		Mode:             types.ValidationModePermissive,
		MinContentLength: 5,
		MaxTitleLength:   500,
		Statuses:         []int{model.SourceStatusDraft, model.SourceStatusPublished},
		AllowNoStatus:    true,
	}
}

// PolicyFor returns the preset for the given mode
func PolicyFor(mode types.ValidationMode) Policy {
	if mode == types.ValidationModePermissive {
		return PermissivePolicy()
	}
	return StrictPolicy()
}

func (p Policy) statusAllowed(status *int) bool {
	if status == nil {
		return p.AllowNoStatus
	}
	for _, s := range p.Statuses {
		if s == *status {
			return true
		}
	}
	return false
}

// contentSource is one strategy for locating the article body. The CMS moved
// the body across fields over time, so candidates are tried in a fixed order
// and the first non-empty one wins.
type contentSource struct {
	name    string
	extract func(*model.SourceRecord) string
}

var contentSources = []contentSource{
	{"content", func(r *model.SourceRecord) string { return r.Content }},
	{"text", func(r *model.SourceRecord) string { return r.Text }},
	{"body", func(r *model.SourceRecord) string { return r.Body }},
	{"summary", func(r *model.SourceRecord) string { return r.Summary }},
	{"seoDescription", func(r *model.SourceRecord) string { return r.SEODescription }},
}

// Normalizer validates raw source records against a Policy and produces
// cleaned plain-text content with a derived summary
type Normalizer struct {
	policy Policy
}

// New creates a Normalizer with the given policy
func New(policy Policy) *Normalizer {
	return &Normalizer{policy: policy}
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Clean strips markup from free text: script/style blocks first, then any
// remaining tags, then whitespace runs collapse to single spaces. This is a
// best-effort sanitizer, not an HTML parser; malformed markup may leave stray
// characters behind. Clean is idempotent.
func Clean(s string) string {
	s = scriptRe.ReplaceAllString(s, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// resolveBody returns the first non-empty body candidate, raw (uncleaned)
func resolveBody(record *model.SourceRecord) string {
	for _, src := range contentSources {
		if v := strings.TrimSpace(src.extract(record)); v != "" {
			return v
		}
	}
	return ""
}

// Normalize validates a source record and returns its cleaned content and
// summary. Validation failures are reported in Issues with IsValid=false;
// they are policy decisions, not errors.
func (n *Normalizer) Normalize(record *model.SourceRecord) *model.NormalizedContent {
	result := &model.NormalizedContent{}

	if strings.TrimSpace(record.Title) == "" {
		result.Issues = append(result.Issues, "Missing or empty title")
	} else if len([]rune(record.Title)) > n.policy.MaxTitleLength {
		result.Issues = append(result.Issues,
			fmt.Sprintf("Title too long (maximum %d characters)", n.policy.MaxTitleLength))
	}

	raw := resolveBody(record)
	if raw == "" {
		result.Issues = append(result.Issues, "Missing or empty content")
	} else {
		result.Content = Clean(raw)
		if len([]rune(result.Content)) < n.policy.MinContentLength {
			result.Issues = append(result.Issues,
				fmt.Sprintf("Content too short (minimum %d characters)", n.policy.MinContentLength))
		}
	}

	if !n.policy.statusAllowed(record.Status) {
		if record.Status == nil {
			result.Issues = append(result.Issues, "Ineligible status: none")
		} else {
			result.Issues = append(result.Issues, fmt.Sprintf("Ineligible status: %d", *record.Status))
		}
	}

	result.Summary = n.summarize(record, result.Content)
	result.IsValid = len(result.Issues) == 0

	return result
}

// summarize picks the explicit summary or short description when present,
// otherwise derives one from the cleaned body. Either way the result is
// capped at SummaryMaxLength characters with a truncation marker.
func (n *Normalizer) summarize(record *model.SourceRecord, cleaned string) string {
	for _, candidate := range []string{record.Summary, record.Spot} {
		if v := Clean(candidate); v != "" {
			return truncateSummary(v)
		}
	}
	return truncateSummary(cleaned)
}

func truncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= model.SummaryMaxLength {
		return s
	}
	return string(runes[:model.SummaryMaxLength]) + model.SummaryTruncationMarker
}
