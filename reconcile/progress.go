package reconcile

import (
	"math"

	"github.com/medbot/intake/domain"
)

// requiredFieldCount is the size of the fixed required-field set:
// medication name, symptoms, severity, timeline start, previous-reactions
// flag, and patient age.
const requiredFieldCount = 6

// Progress returns the report's completion percentage: the share of
// required fields holding a present, non-empty value, rounded half-up.
// Deterministic and side-effect free.
func Progress(report *domain.Report) int {
	if report == nil {
		return 0
	}

	completed := 0
	if present(report.MedicationName) {
		completed++
	}
	if present(report.ReactionSymptoms) {
		completed++
	}
	if report.ReactionSeverity != nil {
		completed++
	}
	if present(report.TimelineStart) {
		completed++
	}
	if report.PreviousReactions != nil {
		completed++
	}
	if present(report.PatientAge) {
		completed++
	}

	return int(math.Round(float64(completed) / requiredFieldCount * 100))
}

func present(v *string) bool {
	return v != nil && *v != ""
}
