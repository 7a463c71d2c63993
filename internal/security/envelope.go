package security

import "github.com/haasonsaas/orchestrator/pkg/models"

// Sensitive is anything that carries a data-sensitivity classification:
// Memory records and ToolResult payloads both qualify once tagged.
type Sensitive interface {
	SensitivityLevel() models.SensitivityLevel
}

// FilterBySensitivity drops every record whose SensitivityLevel exceeds the
// caller's maximum, independent of the keyword-based Vet. Order of the
// surviving records is preserved.
func FilterBySensitivity[T Sensitive](records []T, caller models.CallerIdentity) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.SensitivityLevel() <= caller.MaxSensitivity {
			out = append(out, r)
		}
	}
	return out
}
