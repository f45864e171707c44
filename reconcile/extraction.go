// Package reconcile merges assistant extractions into ADR reports and
// scores report completeness.
package reconcile

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/medbot/intake/domain"
)

// placeholder is the literal the assistant uses for fields it could not
// extract. Values equal to it are treated the same as absent ones.
const placeholder = "Not provided"

// Extraction is the typed, cleaned view of the assistant's extractedData
// payload. Nil fields were absent, empty, placeholder text, or failed
// coercion; they must never touch the report.
type Extraction struct {
	MedicationName    *string
	MedicationDose    *string
	ReactionSymptoms  *string
	ReactionSeverity  *int
	TimelineStart     *string
	PatientAge        *string
	OtherMedications  *string
	PreviousReactions *bool
}

// ParseExtraction cleans and coerces a raw extraction payload. String
// fields survive only when non-empty and not the placeholder; severity is
// coerced to an integer in [1,5]; previousReactions to a boolean. Values
// that fail coercion are dropped, leaving the report field unknown.
func ParseExtraction(raw map[string]json.RawMessage) Extraction {
	var e Extraction
	e.MedicationName = cleanString(raw["medicationName"])
	e.MedicationDose = cleanString(raw["medicationDose"])
	e.ReactionSymptoms = cleanString(raw["reactionSymptoms"])
	e.ReactionSeverity = cleanSeverity(raw["reactionSeverity"])
	e.TimelineStart = cleanString(raw["timelineStart"])
	e.PatientAge = cleanString(raw["patientAge"])
	e.OtherMedications = cleanString(raw["otherMedications"])
	e.PreviousReactions = cleanBool(raw["previousReactions"])
	return e
}

// IsEmpty reports whether no field survived cleaning.
func (e Extraction) IsEmpty() bool {
	return e.MedicationName == nil && e.MedicationDose == nil &&
		e.ReactionSymptoms == nil && e.ReactionSeverity == nil &&
		e.TimelineStart == nil && e.PatientAge == nil &&
		e.OtherMedications == nil && e.PreviousReactions == nil
}

// Update converts the extraction into a report update carrying the
// explicit completion signal. Nil fields stay nil, so previously recorded
// report values are left untouched by the merge.
func (e Extraction) Update(isComplete bool) domain.ReportUpdate {
	return domain.ReportUpdate{
		MedicationName:    e.MedicationName,
		MedicationDose:    e.MedicationDose,
		ReactionSymptoms:  e.ReactionSymptoms,
		ReactionSeverity:  e.ReactionSeverity,
		TimelineStart:     e.TimelineStart,
		PatientAge:        e.PatientAge,
		OtherMedications:  e.OtherMedications,
		PreviousReactions: e.PreviousReactions,
		IsComplete:        &isComplete,
	}
}

// Fields returns the cleaned mapping in wire form, for echoing back to
// the caller as extractedData.
func (e Extraction) Fields() map[string]any {
	fields := make(map[string]any)
	if e.MedicationName != nil {
		fields["medicationName"] = *e.MedicationName
	}
	if e.MedicationDose != nil {
		fields["medicationDose"] = *e.MedicationDose
	}
	if e.ReactionSymptoms != nil {
		fields["reactionSymptoms"] = *e.ReactionSymptoms
	}
	if e.ReactionSeverity != nil {
		fields["reactionSeverity"] = *e.ReactionSeverity
	}
	if e.TimelineStart != nil {
		fields["timelineStart"] = *e.TimelineStart
	}
	if e.PatientAge != nil {
		fields["patientAge"] = *e.PatientAge
	}
	if e.OtherMedications != nil {
		fields["otherMedications"] = *e.OtherMedications
	}
	if e.PreviousReactions != nil {
		fields["previousReactions"] = *e.PreviousReactions
	}
	return fields
}

func cleanString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == placeholder {
		return nil
	}
	return &s
}

// cleanSeverity accepts a JSON number or free text with a leading rating
// ("3", "4 - Severe") and rejects anything outside the 1-5 scale.
func cleanSeverity(raw json.RawMessage) *int {
	if raw == nil {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		v := int(n)
		if float64(v) == n && v >= 1 && v <= 5 {
			return &v
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == placeholder {
		return nil
	}
	digits := s
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = s[:i]
			break
		}
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v < 1 || v > 5 {
		return nil
	}
	return &v
}

// cleanBool accepts a JSON boolean or yes/no style text. Anything else is
// dropped: the previous-reactions flag stays unknown rather than guessed.
func cleanBool(raw json.RawMessage) *bool {
	if raw == nil {
		return nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		v := true
		return &v
	case "false", "no":
		v := false
		return &v
	}
	return nil
}
