package store

import "github.com/medbot/intake/domain"

// defaultQuestionFlow returns the fixed intake question set. The dependsOn
// chain forms a single linear sequence; priority determines ask order.
func defaultQuestionFlow() []domain.QuestionTemplate {
	return []domain.QuestionTemplate{
		{
			QuestionKey:  "medication_name",
			QuestionText: "What medication are you reporting a reaction to? Please include the name and dosage if known.",
			QuestionType: domain.QuestionTypeText,
			Priority:     1,
			IsActive:     true,
		},
		{
			QuestionKey:  "reaction_symptoms",
			QuestionText: "Could you describe the reaction or symptoms you experienced? Please be as detailed as possible.",
			QuestionType: domain.QuestionTypeText,
			Priority:     2,
			DependsOn:    "medication_name",
			IsActive:     true,
		},
		{
			QuestionKey:  "reaction_severity",
			QuestionText: "How would you rate the severity of your reaction on a scale of 1-5, where 1 is mild and 5 is severe?",
			QuestionType: domain.QuestionTypeScale,
			Options: []domain.Option{
				{Value: 1, Label: "1 - Mild"},
				{Value: 2, Label: "2 - Moderate"},
				{Value: 3, Label: "3 - Noticeable"},
				{Value: 4, Label: "4 - Severe"},
				{Value: 5, Label: "5 - Very Severe"},
			},
			Priority:  3,
			DependsOn: "reaction_symptoms",
			IsActive:  true,
		},
		{
			QuestionKey:  "timeline_start",
			QuestionText: "When did you first notice these symptoms? Was it immediately after taking the medication or some time later?",
			QuestionType: domain.QuestionTypeText,
			Priority:     4,
			DependsOn:    "reaction_severity",
			IsActive:     true,
		},
		{
			QuestionKey:  "previous_reactions",
			QuestionText: "Have you taken this medication before without any problems, or is this the first time you've used it?",
			QuestionType: domain.QuestionTypeBoolean,
			Options: []domain.Option{
				{Value: true, Label: "I've taken it before with no issues"},
				{Value: false, Label: "This is my first time taking it"},
			},
			Priority:  5,
			DependsOn: "timeline_start",
			IsActive:  true,
		},
		{
			QuestionKey:  "patient_demographics",
			QuestionText: "Could you share some basic information - your age range and any other medications you're currently taking?",
			QuestionType: domain.QuestionTypeText,
			Priority:     6,
			DependsOn:    "previous_reactions",
			IsActive:     true,
		},
	}
}
