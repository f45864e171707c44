package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/medbot/intake/domain"
)

// notProvided is the sentinel used in the prompt for fields the report
// does not hold yet. The extraction cleaner drops it on the way back in.
const notProvided = "Not provided"

const promptHeader = `You are MedBot, a compassionate AI assistant specialized in collecting adverse drug reaction (ADR) reports. Your role is to:

1. Guide users through reporting adverse drug reactions in a caring, professional manner
2. Ask relevant follow-up questions based on the conversation flow
3. Extract and structure information for medical safety reporting
4. Ensure all required data is collected: medication name/dose, symptoms, timeline, severity, patient demographics`

const promptFooter = `Guidelines:
- Be empathetic and reassuring about privacy/HIPAA compliance
- Ask one question at a time to avoid overwhelming the user
- Provide quick action suggestions when appropriate
- Extract structured data from responses
- Determine appropriate next questions based on missing information

Respond with JSON in this exact format:
{
  "message": "Your response to the user",
  "extractedData": {
    "medicationName": "extracted medication name if mentioned",
    "medicationDose": "extracted dose if mentioned",
    "reactionSymptoms": "extracted symptoms if mentioned",
    "reactionSeverity": "1-5 severity rating if mentioned",
    "timelineStart": "timeline information if mentioned",
    "patientAge": "age range if mentioned",
    "otherMedications": "other medications if mentioned",
    "previousReactions": "boolean if mentioned"
  },
  "isComplete": false,
  "metadata": {
    "confidenceScore": 0.8,
    "questionType": "medication_name|reaction_symptoms|etc",
    "quickActions": ["suggestion1", "suggestion2"]
  }
}`

// buildSystemPrompt combines the current report state and the ordered
// question flow into a deterministic system prompt.
func buildSystemPrompt(report *domain.Report, questions []domain.QuestionTemplate) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nCurrent ADR Report Status:\n")
	fmt.Fprintf(&b, "- Medication: %s\n", textValue(report.MedicationName))
	fmt.Fprintf(&b, "- Symptoms: %s\n", textValue(report.ReactionSymptoms))
	fmt.Fprintf(&b, "- Severity: %s\n", intValue(report.ReactionSeverity))
	fmt.Fprintf(&b, "- Timeline: %s\n", textValue(report.TimelineStart))
	fmt.Fprintf(&b, "- Previous reactions: %s\n", boolValue(report.PreviousReactions))
	fmt.Fprintf(&b, "- Demographics: %s\n", textValue(report.PatientAge))

	b.WriteString("\nQuestion Flow Available:\n")
	for _, q := range questions {
		fmt.Fprintf(&b, "- %s: %s\n", q.QuestionKey, q.QuestionText)
	}

	b.WriteString("\n")
	b.WriteString(promptFooter)
	return b.String()
}

func textValue(v *string) string {
	if v == nil || *v == "" {
		return notProvided
	}
	return *v
}

func intValue(v *int) string {
	if v == nil {
		return notProvided
	}
	return strconv.Itoa(*v)
}

func boolValue(v *bool) string {
	if v == nil {
		return notProvided
	}
	return strconv.FormatBool(*v)
}
