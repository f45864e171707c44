package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medbot/intake/domain"
)

func rawPayload(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("bad payload literal: %v", err)
	}
	return raw
}

func TestParseExtractionDropsPlaceholders(t *testing.T) {
	e := ParseExtraction(rawPayload(t, `{
		"medicationName": "Aspirin",
		"medicationDose": "",
		"reactionSymptoms": "Not provided",
		"reactionSeverity": null,
		"timelineStart": "   ",
		"patientAge": "30-40"
	}`))

	assert.NotNil(t, e.MedicationName)
	assert.Equal(t, "Aspirin", *e.MedicationName)
	assert.Nil(t, e.MedicationDose)
	assert.Nil(t, e.ReactionSymptoms)
	assert.Nil(t, e.ReactionSeverity)
	assert.Nil(t, e.TimelineStart)
	assert.NotNil(t, e.PatientAge)
	assert.Equal(t, "30-40", *e.PatientAge)

	fields := e.Fields()
	assert.Equal(t, map[string]any{
		"medicationName": "Aspirin",
		"patientAge":     "30-40",
	}, fields)
}

func TestParseExtractionSeverity(t *testing.T) {
	cases := []struct {
		name string
		json string
		want *int
	}{
		{"number", `{"reactionSeverity": 3}`, intPtr(3)},
		{"numeric string", `{"reactionSeverity": "4"}`, intPtr(4)},
		{"labeled string", `{"reactionSeverity": "4 - Severe"}`, intPtr(4)},
		{"placeholder", `{"reactionSeverity": "Not provided"}`, nil},
		{"out of range", `{"reactionSeverity": 7}`, nil},
		{"zero", `{"reactionSeverity": "0"}`, nil},
		{"fractional", `{"reactionSeverity": 3.5}`, nil},
		{"garbage", `{"reactionSeverity": "severe"}`, nil},
		{"absent", `{}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := ParseExtraction(rawPayload(t, tc.json))
			if tc.want == nil {
				assert.Nil(t, e.ReactionSeverity)
			} else {
				assert.NotNil(t, e.ReactionSeverity)
				assert.Equal(t, *tc.want, *e.ReactionSeverity)
			}
		})
	}
}

func TestParseExtractionPreviousReactions(t *testing.T) {
	cases := []struct {
		name string
		json string
		want *bool
	}{
		{"bool true", `{"previousReactions": true}`, boolPtr(true)},
		{"bool false", `{"previousReactions": false}`, boolPtr(false)},
		{"yes", `{"previousReactions": "yes"}`, boolPtr(true)},
		{"no", `{"previousReactions": "No"}`, boolPtr(false)},
		{"string true", `{"previousReactions": "true"}`, boolPtr(true)},
		{"unknown text", `{"previousReactions": "maybe"}`, nil},
		{"placeholder", `{"previousReactions": "Not provided"}`, nil},
		{"absent", `{}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := ParseExtraction(rawPayload(t, tc.json))
			if tc.want == nil {
				assert.Nil(t, e.PreviousReactions)
			} else {
				assert.NotNil(t, e.PreviousReactions)
				assert.Equal(t, *tc.want, *e.PreviousReactions)
			}
		})
	}
}

func TestExtractionIsEmpty(t *testing.T) {
	assert.True(t, ParseExtraction(nil).IsEmpty())
	assert.True(t, ParseExtraction(rawPayload(t, `{"medicationName": "Not provided"}`)).IsEmpty())
	assert.False(t, ParseExtraction(rawPayload(t, `{"medicationName": "Aspirin"}`)).IsEmpty())
}

func TestMergeLocality(t *testing.T) {
	// merge(R, E) agrees with R on fields absent from E, with E elsewhere.
	name := "Aspirin"
	symptoms := "Nausea"
	report := domain.Report{
		SessionID:        "s1",
		MedicationName:   &name,
		ReactionSymptoms: &symptoms,
	}

	e := ParseExtraction(rawPayload(t, `{
		"reactionSeverity": "3",
		"timelineStart": "2 hours after dose"
	}`))
	merged := e.Update(false).Apply(report)

	assert.Equal(t, "Aspirin", *merged.MedicationName)
	assert.Equal(t, "Nausea", *merged.ReactionSymptoms)
	assert.Equal(t, 3, *merged.ReactionSeverity)
	assert.Equal(t, "2 hours after dose", *merged.TimelineStart)
	assert.Equal(t, 67, Progress(&merged))
}

func TestMergeEmptyExtractionIsNoop(t *testing.T) {
	name := "Aspirin"
	report := domain.Report{SessionID: "s1", MedicationName: &name}

	e := ParseExtraction(rawPayload(t, `{"reactionSeverity": "Not provided"}`))
	assert.True(t, e.IsEmpty())

	merged := e.Update(false).Apply(report)
	assert.Equal(t, report.MedicationName, merged.MedicationName)
	assert.Nil(t, merged.ReactionSeverity)
	assert.Equal(t, Progress(&report), Progress(&merged))
}

func TestMergeNeverClearsRecordedField(t *testing.T) {
	name := "Aspirin"
	report := domain.Report{SessionID: "s1", MedicationName: &name}

	// The extraction mentions medicationName only as a placeholder.
	e := ParseExtraction(rawPayload(t, `{
		"medicationName": "Not provided",
		"reactionSymptoms": "Hives"
	}`))
	merged := e.Update(false).Apply(report)

	assert.NotNil(t, merged.MedicationName)
	assert.Equal(t, "Aspirin", *merged.MedicationName)
	assert.Equal(t, "Hives", *merged.ReactionSymptoms)
}

func TestUpdateCarriesCompletionSignal(t *testing.T) {
	e := ParseExtraction(rawPayload(t, `{"medicationName": "Aspirin"}`))

	report := e.Update(true).Apply(domain.Report{SessionID: "s1"})
	assert.True(t, report.IsComplete)

	report = e.Update(false).Apply(report)
	assert.False(t, report.IsComplete)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
