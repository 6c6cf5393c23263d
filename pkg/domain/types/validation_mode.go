package types

import "fmt"

// ValidationMode selects which content validation policy applies during
// migration. The source CMS is inconsistent about which lifecycle statuses are
// migration-eligible, so instead of hardcoding one rule the mode is
// configurable: strict admits only published records with substantial content,
// permissive also admits drafts and very short bodies.
type ValidationMode string

const (
	ValidationModeStrict     ValidationMode = "strict"
	ValidationModePermissive ValidationMode = "permissive"
)

// IsValid checks if the validation mode is valid
func (m ValidationMode) IsValid() bool {
	switch m {
	case ValidationModeStrict, ValidationModePermissive:
		return true
	default:
		return false
	}
}

// String returns the string representation of the validation mode
func (m ValidationMode) String() string {
	return string(m)
}

// ParseValidationMode parses a string into a ValidationMode
func ParseValidationMode(s string) (ValidationMode, error) {
	mode := ValidationMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid validation mode: %s", s)
	}
	return mode, nil
}
