package validator

import (
	"net/mail"
	"strings"
)

// ValidEmail accepts a bare RFC 5322 address whose domain has at least one dot.
// Display-name forms like "Bob <bob@x.com>" are rejected.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return isEmail(value) },
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid email address",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

func isEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || addr.Name != "" {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return strings.Contains(domain, ".")
}
