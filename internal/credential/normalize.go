package credential

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// DefaultMinPasswordLength is the shortest password accepted at signup.
const DefaultMinPasswordLength = 4

// Normalize trims surrounding whitespace and lower-cases s. It is idempotent.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeUsername returns the canonical form of a typed username or
// common.ErrValidation when nothing but whitespace was entered.
func NormalizeUsername(raw string) (string, error) {
	u := Normalize(raw)
	if u == "" {
		return "", fmt.Errorf("%w: username cannot be empty", common.ErrValidation)
	}
	return u, nil
}

// NormalizePassword trims raw and, when fold is set, lower-cases it as well.
// Folding exists only for records written by the legacy tool.
func NormalizePassword(raw string, fold bool) string {
	if fold {
		return Normalize(raw)
	}
	return strings.TrimSpace(raw)
}

// ValidatePassword checks a normalized password against the minimum length,
// counted in characters rather than bytes.
func ValidatePassword(pw string, minLen int) error {
	if pw == "" {
		return fmt.Errorf("%w: password cannot be empty", common.ErrValidation)
	}
	if utf8.RuneCountInString(pw) < minLen {
		return fmt.Errorf("%w: password shorter than %d characters", common.ErrValidation, minLen)
	}
	return nil
}

// DisplayName title-cases a stored username for greetings. The result is
// presentational and must never be written back to a Record.
func DisplayName(username string) string {
	return cases.Title(language.Und).String(username)
}
