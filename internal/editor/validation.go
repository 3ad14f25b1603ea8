package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// MinSymptomNameLength is the shortest accepted symptom name after trimming.
const MinSymptomNameLength = 3

// Rule names reported in ValidationError.Rule and in metrics.
const (
	RuleSymptomNameMinLength = "symptom_name_min_length"
	RuleConditionVocabulary  = "condition_vocabulary"
	RuleConsultantRequired   = "consultant_required"
)

// Rule checks a draft and returns nil when it is acceptable.
type Rule[T any] func(draft T) *ValidationError

// SymptomNameMinLength rejects any symptom whose trimmed name is shorter than
// MinSymptomNameLength characters.
func SymptomNameMinLength(symptoms []record.Symptom) *ValidationError {
	for i, s := range symptoms {
		if utf8.RuneCountInString(strings.TrimSpace(s.Name)) < MinSymptomNameLength {
			return &ValidationError{
				Rule:    RuleSymptomNameMinLength,
				Index:   i,
				Message: fmt.Sprintf("Symptom name must be at least %d characters long!", MinSymptomNameLength),
			}
		}
	}
	return nil
}

// NonEmptyConsultant rejects consultations without a consultant name. It is
// not applied by default.
func NonEmptyConsultant(consultations []record.MedicalConsultation) *ValidationError {
	for i, c := range consultations {
		if strings.TrimSpace(c.Consultant) == "" {
			return &ValidationError{
				Rule:    RuleConsultantRequired,
				Index:   i,
				Message: "Consultant name is required!",
			}
		}
	}
	return nil
}

// ConditionInVocabulary rejects a condition with a value outside v.
func ConditionInVocabulary(v record.Vocabulary) Rule[record.CurrentCondition] {
	return func(c record.CurrentCondition) *ValidationError {
		if err := v.ValidateCondition(c); err != nil {
			return &ValidationError{
				Rule:    RuleConditionVocabulary,
				Index:   -1,
				Message: "Current condition has an unknown value: " + err.Error(),
			}
		}
		return nil
	}
}

func validate[T any](draft T, rules []Rule[T]) *ValidationError {
	for _, rule := range rules {
		if verr := rule(draft); verr != nil {
			return verr
		}
	}
	return nil
}
