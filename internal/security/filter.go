// Package security implements the Security Filter: it vets every inbound
// query against the caller's role before the Supervisor dispatches, and
// provides the data-sensitivity envelope applied to outbound records.
package security

import (
	"strings"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// SensitiveKeywords is the fixed keyword set scanned for on every query.
// Matches are case-insensitive.
var SensitiveKeywords = []string{
	"financial", "salary", "budget", "confidential", "internal",
	"strategic", "acquisition", "merger", "lawsuit", "legal", "compliance",
}

// Decision is the Security Filter's verdict on one query: either Denied
// (Allowed=false) with a Reason, or Allowed with a possibly-sanitized
// query text and a Flagged bit set when sanitization occurred.
type Decision struct {
	Allowed  bool
	Reason   string
	Query    string
	Flagged  bool
}

const (
	ReasonInsufficientPermissions = "insufficient_permissions"
	ReasonFilterError             = "security_filter_error"
)

// roleLevel thresholds from spec §4.5: above level 2, any sensitive-keyword
// match is a hard deny; above level 3, the query is sanitized rather than
// denied outright.
const (
	denyAboveLevel     = 2
	sanitizeAboveLevel = 3
)

// Filter vets inbound queries and enforces the data-sensitivity envelope.
// It carries no mutable state, so a single instance is safe for concurrent
// use across turns.
type Filter struct{}

// NewFilter constructs a Security Filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Vet runs the spec §4.5 algorithm against queryText for the given caller.
// Any panic recovered here, or any unexpected internal error, must still
// surface as Denied — the filter never fails open.
func (f *Filter) Vet(queryText string, caller models.CallerIdentity) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			decision = Decision{Allowed: false, Reason: ReasonFilterError}
		}
	}()

	userLevel := caller.Role.RoleLevel()
	lower := strings.ToLower(queryText)

	matched := false
	for _, kw := range SensitiveKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}

	if matched && userLevel > denyAboveLevel {
		return Decision{Allowed: false, Reason: ReasonInsufficientPermissions}
	}

	if userLevel > sanitizeAboveLevel {
		return Decision{Allowed: true, Query: sanitize(queryText), Flagged: true}
	}

	return Decision{Allowed: true, Query: queryText, Flagged: false}
}

// sanitize removes every sensitive keyword (and its case variants) from
// text, collapsing the resulting whitespace.
func sanitize(text string) string {
	result := text
	for _, kw := range SensitiveKeywords {
		result = replaceFold(result, kw, "")
	}
	return strings.Join(strings.Fields(result), " ")
}

// replaceFold removes all case-insensitive occurrences of old in s.
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	lowerS := strings.ToLower(s)
	lowerOld := strings.ToLower(old)
	i := 0
	for {
		idx := strings.Index(lowerS[i:], lowerOld)
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+idx])
		b.WriteString(new)
		i += idx + len(old)
	}
	return b.String()
}
