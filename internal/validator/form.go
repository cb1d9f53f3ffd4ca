package validator

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Rule declares how one form field is sanitized and checked.
//
// Apply runs the steps in a fixed order: trim, default, checks, escape.
// Length is measured in runes on the trimmed value, before escaping.
type Rule struct {
	Field   string
	Message string
	// LengthMessage replaces the generated message for MinLen/MaxLen failures.
	LengthMessage string
	Trim          bool
	Escape        bool
	Required      bool
	MinLen        int
	MaxLen        int
	ISO8601       bool
	In            []string
	Default       string
}

// Apply sanitizes raw according to rule, records the first failing check on
// v, and returns the sanitized value whether or not the checks passed.
func (v *Validator) Apply(rule Rule, raw string) string {
	value := raw
	if rule.Trim {
		value = strings.TrimSpace(value)
	}
	if value == "" && rule.Default != "" {
		value = rule.Default
	}
	v.checkRule(rule, value)
	if rule.Escape {
		value = Escape(value)
	}
	return value
}

func (v *Validator) checkRule(rule Rule, value string) {
	if value == "" {
		// Empty optional fields are not checked any further.
		v.Check(!rule.Required, rule.Field, rule.Message)
		return
	}
	n := utf8.RuneCountInString(value)
	if (rule.MinLen > 0 && n < rule.MinLen) || (rule.MaxLen > 0 && n > rule.MaxLen) {
		v.AddError(rule.Field, rule.lengthMessage())
		return
	}
	if rule.ISO8601 {
		_, err := ParseDate(value)
		v.Check(err == nil, rule.Field, rule.Message)
	}
	if len(rule.In) > 0 {
		v.Check(In(value, rule.In...), rule.Field, rule.Message)
	}
}

func (r Rule) lengthMessage() string {
	if r.LengthMessage != "" {
		return r.LengthMessage
	}
	switch {
	case r.MinLen > 0 && r.MaxLen > 0:
		return fmt.Sprintf("must be between %d and %d characters long", r.MinLen, r.MaxLen)
	case r.MinLen > 0:
		return fmt.Sprintf("must be at least %d characters long", r.MinLen)
	default:
		return fmt.Sprintf("must not be more than %d characters long", r.MaxLen)
	}
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces HTML-significant characters with their entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses an ISO 8601 calendar date or date-time.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
