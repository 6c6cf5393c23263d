package transform

import (
	"os"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// Rule is one keyword rule of the event categorizer
type Rule struct {
	Category types.EventCategory
	pattern  *regexp.Regexp
}

// NewRule builds a rule matching any of the given keywords. Keywords are
// matched as literal substrings of the lowercased title+content.
func NewRule(category types.EventCategory, keywords []string) (Rule, error) {
	if len(keywords) == 0 {
		return Rule{}, goerr.New("rule requires at least one keyword", goerr.V("category", category))
	}
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(kw))
	}
	pattern, err := regexp.Compile(strings.Join(quoted, "|"))
	if err != nil {
		return Rule{}, goerr.Wrap(err, "failed to compile rule pattern", goerr.V("category", category))
	}
	return Rule{Category: category, pattern: pattern}, nil
}

// defaultRules returns the built-in keyword rules in priority order. The
// source CMS is Turkish, so keywords cover both languages.
func defaultRules() []Rule {
	specs := []struct {
		category types.EventCategory
		keywords []string
	}{
		{types.EventCategoryPolitics, []string{
			"politic", "election", "parliament", "minister", "government", "president",
			"seçim", "siyaset", "parti", "meclis", "bakan", "cumhurbaşkan", "hükümet",
		}},
		{types.EventCategoryEconomy, []string{
			"econom", "market", "inflation", "dollar", "finance", "stock",
			"ekonomi", "borsa", "döviz", "dolar", "faiz", "enflasyon", "merkez bankası",
		}},
		{types.EventCategorySports, []string{
			"sport", "football", "match", "league", "champion",
			"spor", "futbol", "maç", "transfer", "şampiyon", "galatasaray", "fenerbahçe",
		}},
		{types.EventCategoryTechnology, []string{
			"technolog", "software", "artificial intelligence", "robot", "smartphone",
			"teknoloji", "yazılım", "yapay zeka", "telefon", "internet", "uygulama",
		}},
		{types.EventCategoryHealth, []string{
			"health", "hospital", "doctor", "virus", "vaccine",
			"sağlık", "hastane", "doktor", "aşı", "kanser", "tedavi",
		}},
	}

	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		rule, err := NewRule(spec.category, spec.keywords)
		if err != nil {
			// built-in keywords are static, a compile failure is a programming error
			panic(err)
		}
		rules = append(rules, rule)
	}
	return rules
}

// Categorizer assigns an event category by evaluating keyword rules in a
// fixed priority order against the lowercased title+content. First match
// wins; no match falls back to EventCategoryGeneral. Deterministic and
// order-sensitive, deliberately not ML-based.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer creates a categorizer with the built-in rules
func NewCategorizer() *Categorizer {
	return &Categorizer{rules: defaultRules()}
}

// NewCategorizerWithRules creates a categorizer with custom rules, evaluated
// in the given order
func NewCategorizerWithRules(rules []Rule) *Categorizer {
	return &Categorizer{rules: rules}
}

// Categorize returns the event category for the given title and content
func (c *Categorizer) Categorize(title, content string) types.EventCategory {
	text := strings.ToLower(title + " " + content)
	for _, rule := range c.rules {
		if rule.pattern.MatchString(text) {
			return rule.Category
		}
	}
	return types.EventCategoryGeneral
}

// ruleFile is the TOML schema for custom categorizer rules
type ruleFile struct {
	Rules []struct {
		Category string   `toml:"category"`
		Keywords []string `toml:"keywords"`
	} `toml:"rule"`
}

// LoadRules reads categorizer rules from a TOML file. Rules apply in file
// order, so the file also defines the priority.
func LoadRules(path string) ([]Rule, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rules file", goerr.V("path", path))
	}

	var file ruleFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rules file", goerr.V("path", path))
	}
	if len(file.Rules) == 0 {
		return nil, goerr.New("rules file defines no rules", goerr.V("path", path))
	}

	rules := make([]Rule, 0, len(file.Rules))
	for _, raw := range file.Rules {
		category := types.EventCategory(raw.Category)
		if !category.IsValid() {
			return nil, goerr.New("invalid rule category",
				goerr.V("path", path), goerr.V("category", raw.Category))
		}
		rule, err := NewRule(category, raw.Keywords)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
