package analyzer

import (
	"fmt"
	"regexp"
)

// symbolPattern matches ticker symbols as the upstream APIs accept them:
// letters, digits, dots and dashes, at most 20 characters. Everything else
// is rejected before any URL is built from it.
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.-]{1,20}$`)

// ValidateSymbol rejects symbols that could not be a real ticker.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol %q", symbol)
	}
	return nil
}
