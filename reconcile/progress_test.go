package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medbot/intake/domain"
)

func strPtr(v string) *string { return &v }

func TestProgressEmptyReport(t *testing.T) {
	assert.Equal(t, 0, Progress(&domain.Report{}))
	assert.Equal(t, 0, Progress(nil))
}

func TestProgressSingleField(t *testing.T) {
	// round(100 * 1/6) = 17
	report := domain.Report{MedicationName: strPtr("Aspirin")}
	assert.Equal(t, 17, Progress(&report))
}

func TestProgressFourFields(t *testing.T) {
	// round(100 * 4/6) = 67
	severity := 3
	report := domain.Report{
		MedicationName:   strPtr("Aspirin"),
		ReactionSymptoms: strPtr("Nausea"),
		ReactionSeverity: &severity,
		TimelineStart:    strPtr("2 hours after dose"),
	}
	assert.Equal(t, 67, Progress(&report))
}

func TestProgressComplete(t *testing.T) {
	severity := 2
	previous := false
	report := domain.Report{
		MedicationName:    strPtr("Aspirin"),
		ReactionSymptoms:  strPtr("Nausea"),
		ReactionSeverity:  &severity,
		TimelineStart:     strPtr("immediately"),
		PreviousReactions: &previous,
		PatientAge:        strPtr("30-40"),
	}
	assert.Equal(t, 100, Progress(&report))
}

func TestProgressIgnoresOptionalFields(t *testing.T) {
	// Only the six required fields count.
	report := domain.Report{
		MedicationDose:   strPtr("200mg"),
		PatientGender:    strPtr("female"),
		OtherMedications: strPtr("none"),
		AdditionalNotes:  strPtr("n/a"),
	}
	assert.Equal(t, 0, Progress(&report))
}

func TestProgressEmptyStringNotCounted(t *testing.T) {
	report := domain.Report{MedicationName: strPtr("")}
	assert.Equal(t, 0, Progress(&report))
}

func TestProgressMonotonicAndDeterministic(t *testing.T) {
	severity := 4
	previous := true
	fills := []func(r *domain.Report){
		func(r *domain.Report) { r.MedicationName = strPtr("Aspirin") },
		func(r *domain.Report) { r.ReactionSymptoms = strPtr("Rash") },
		func(r *domain.Report) { r.ReactionSeverity = &severity },
		func(r *domain.Report) { r.TimelineStart = strPtr("next morning") },
		func(r *domain.Report) { r.PreviousReactions = &previous },
		func(r *domain.Report) { r.PatientAge = strPtr("50-60") },
	}

	var report domain.Report
	last := Progress(&report)
	for _, fill := range fills {
		fill(&report)
		got := Progress(&report)
		assert.GreaterOrEqual(t, got, last)
		assert.Equal(t, got, Progress(&report)) // scoring twice agrees
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		last = got
	}
	assert.Equal(t, 100, last)
}
