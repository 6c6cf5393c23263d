package types

// EventCategory is the rule-derived topical category of an article
type EventCategory string

const (
	EventCategoryPolitics   EventCategory = "politics"
	EventCategoryEconomy    EventCategory = "economy"
	EventCategorySports     EventCategory = "sports"
	EventCategoryTechnology EventCategory = "technology"
	EventCategoryHealth     EventCategory = "health"
	EventCategoryGeneral    EventCategory = "general"
)

// AllEventCategories returns all rule categories in priority order. The
// categorizer evaluates rules in exactly this order and the first match wins;
// EventCategoryGeneral is the fallback and has no rule of its own.
func AllEventCategories() []EventCategory {
	return []EventCategory{
		EventCategoryPolitics,
		EventCategoryEconomy,
		EventCategorySports,
		EventCategoryTechnology,
		EventCategoryHealth,
	}
}

// IsValid checks if the event category is valid
func (c EventCategory) IsValid() bool {
	switch c {
	case EventCategoryPolitics,
		EventCategoryEconomy,
		EventCategorySports,
		EventCategoryTechnology,
		EventCategoryHealth,
		EventCategoryGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation of the event category
func (c EventCategory) String() string {
	return string(c)
}
