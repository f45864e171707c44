package domain

import (
	"encoding/json"
	"time"
)

// SessionUpdate is a partial update to a session. Nil fields are left
// untouched by the store.
type SessionUpdate struct {
	EndTime            *time.Time
	ProgressPercentage *int
	IsComplete         *bool
	CollectedData      json.RawMessage
}

// ReportUpdate is a partial update to a report. Nil fields are left
// untouched, which is what keeps report fields from being cleared by a
// later partial extraction.
type ReportUpdate struct {
	MedicationName      *string
	MedicationDose      *string
	ReactionSymptoms    *string
	ReactionSeverity    *int
	TimelineStart       *string
	TimelineDescription *string
	PatientAge          *string
	PatientGender       *string
	OtherMedications    *string
	PreviousReactions   *bool
	AdditionalNotes     *string
	IsComplete          *bool
}

// Apply merges the update onto a copy of the report and returns it.
// Fields absent from the update keep their existing values.
func (u ReportUpdate) Apply(r Report) Report {
	if u.MedicationName != nil {
		r.MedicationName = u.MedicationName
	}
	if u.MedicationDose != nil {
		r.MedicationDose = u.MedicationDose
	}
	if u.ReactionSymptoms != nil {
		r.ReactionSymptoms = u.ReactionSymptoms
	}
	if u.ReactionSeverity != nil {
		r.ReactionSeverity = u.ReactionSeverity
	}
	if u.TimelineStart != nil {
		r.TimelineStart = u.TimelineStart
	}
	if u.TimelineDescription != nil {
		r.TimelineDescription = u.TimelineDescription
	}
	if u.PatientAge != nil {
		r.PatientAge = u.PatientAge
	}
	if u.PatientGender != nil {
		r.PatientGender = u.PatientGender
	}
	if u.OtherMedications != nil {
		r.OtherMedications = u.OtherMedications
	}
	if u.PreviousReactions != nil {
		r.PreviousReactions = u.PreviousReactions
	}
	if u.AdditionalNotes != nil {
		r.AdditionalNotes = u.AdditionalNotes
	}
	if u.IsComplete != nil {
		r.IsComplete = *u.IsComplete
	}
	return r
}

// IsEmpty reports whether the update would change nothing.
func (u ReportUpdate) IsEmpty() bool {
	return u.MedicationName == nil && u.MedicationDose == nil &&
		u.ReactionSymptoms == nil && u.ReactionSeverity == nil &&
		u.TimelineStart == nil && u.TimelineDescription == nil &&
		u.PatientAge == nil && u.PatientGender == nil &&
		u.OtherMedications == nil && u.PreviousReactions == nil &&
		u.AdditionalNotes == nil && u.IsComplete == nil
}
