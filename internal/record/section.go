package record

import "fmt"

// Section names one editable part of a health record.
type Section string

const (
	SectionDescription      Section = "description"
	SectionSymptoms         Section = "symptoms"
	SectionCurrentCondition Section = "currentCondition"
	SectionTreatments       Section = "treatmentsTried"
	SectionConsultations    Section = "medicalConsultations"
)

// Sections lists every editable section in summary display order.
var Sections = []Section{
	SectionDescription,
	SectionSymptoms,
	SectionCurrentCondition,
	SectionTreatments,
	SectionConsultations,
}

// ParseSection maps a wire name onto a Section.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Title is the heading shown above the section.
func (s Section) Title() string {
	switch s {
	case SectionDescription:
		return "Description"
	case SectionSymptoms:
		return "Symptoms"
	case SectionCurrentCondition:
		return "Current Condition"
	case SectionTreatments:
		return "Treatments Tried"
	case SectionConsultations:
		return "Medical Consultations"
	default:
		return string(s)
	}
}
