package record

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Status is the open/closed state of a record.
type Status string

// Severity grades how bad the condition is.
type Severity string

// ImprovementStatus tracks the trend of the condition.
type ImprovementStatus string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"

	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"

	ImprovementStable    ImprovementStatus = "stable"
	ImprovementImproving ImprovementStatus = "improving"
	ImprovementWorsening ImprovementStatus = "worsening"
)

// Vocabulary is the known set of values each condition field accepts.
type Vocabulary struct {
	Statuses            []string `yaml:"statuses"`
	Severities          []string `yaml:"severities"`
	ImprovementStatuses []string `yaml:"improvement_statuses"`
}

// DefaultVocabulary is used when no vocabulary file is configured.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Statuses:            []string{string(StatusOpen), string(StatusClosed)},
		Severities:          []string{string(SeverityMild), string(SeverityModerate), string(SeveritySevere)},
		ImprovementStatuses: []string{string(ImprovementStable), string(ImprovementImproving), string(ImprovementWorsening)},
	}
}

type vocabularyFile struct {
	Condition Vocabulary `yaml:"condition"`
}

// LoadVocabulary reads a vocabulary.yml file. Lists missing from the file
// fall back to the defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, err
	}
	var vf vocabularyFile
	if err := yaml.Unmarshal(b, &vf); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	def := DefaultVocabulary()
	v := vf.Condition
	if len(v.Statuses) == 0 {
		v.Statuses = def.Statuses
	}
	if len(v.Severities) == 0 {
		v.Severities = def.Severities
	}
	if len(v.ImprovementStatuses) == 0 {
		v.ImprovementStatuses = def.ImprovementStatuses
	}
	return v, nil
}

func (v Vocabulary) ValidStatus(s Status) bool {
	return contains(v.Statuses, string(s))
}

func (v Vocabulary) ValidSeverity(s Severity) bool {
	return contains(v.Severities, string(s))
}

func (v Vocabulary) ValidImprovementStatus(s ImprovementStatus) bool {
	return contains(v.ImprovementStatuses, string(s))
}

// ValidateCondition reports the first field whose value is outside the vocabulary.
func (v Vocabulary) ValidateCondition(c CurrentCondition) error {
	if !v.ValidStatus(c.Status) {
		return fmt.Errorf("%w: status %q", ErrUnknownValue, c.Status)
	}
	if !v.ValidSeverity(c.Severity) {
		return fmt.Errorf("%w: severity %q", ErrUnknownValue, c.Severity)
	}
	if !v.ValidImprovementStatus(c.ImprovementStatus) {
		return fmt.Errorf("%w: improvement status %q", ErrUnknownValue, c.ImprovementStatus)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
