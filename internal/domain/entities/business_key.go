package entities

import (
	"fmt"
	"strings"
)

// Business key prefixes. A business key is the human readable identifier shown in
// the dashboard (ORD-001), distinct from the internal record id.
const (
	OrderKeyPrefix    = "ORD"
	EstimateKeyPrefix = "EST"
)

// FormatBusinessKey renders PREFIX-n with n zero-padded to at least 3 digits.
func FormatBusinessKey(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// HasKeyPrefix reports whether ref looks like a business key with the given prefix.
func HasKeyPrefix(ref, prefix string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(ref)), prefix+"-")
}
