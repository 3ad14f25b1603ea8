package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// Model is what the summary screen displays.
type Model struct {
	Loading  bool          `json:"loading"`
	Sections []SectionView `json:"sections"`
}

// SectionView is one block of the summary with its edit target.
type SectionView struct {
	Section record.Section `json:"section"`
	Title   string         `json:"title"`
	Lines   []string       `json:"lines"`
}

// Render builds the summary for rec.
func Render(rec record.HealthRecord, loading bool) Model {
	m := Model{Loading: loading}
	for _, section := range record.Sections {
		m.Sections = append(m.Sections, SectionView{
			Section: section,
			Title:   section.Title(),
			Lines:   sectionLines(rec, section),
		})
	}
	return m
}

func sectionLines(rec record.HealthRecord, section record.Section) []string {
	lines := []string{}
	switch section {
	case record.SectionDescription:
		lines = append(lines, rec.Description)
	case record.SectionSymptoms:
		for _, s := range rec.Symptoms {
			lines = append(lines, "Name: "+s.Name, "Start Date: "+s.StartDate)
		}
	case record.SectionCurrentCondition:
		lines = append(lines,
			"Status: "+string(rec.CurrentCondition.Status),
			"Severity: "+string(rec.CurrentCondition.Severity),
			"Improvement Status: "+string(rec.CurrentCondition.ImprovementStatus),
		)
	case record.SectionTreatments:
		lines = append(lines, rec.TreatmentsTried...)
	case record.SectionConsultations:
		for _, c := range rec.MedicalConsultations {
			lines = append(lines,
				"Consultant: "+c.Consultant,
				"Date: "+c.Date,
				"Diagnosis: "+c.Diagnosis,
				"Follow-up action: "+strings.Join(c.FollowUpActions, ", "),
			)
		}
	}
	return lines
}

// WriteText prints the model as plain text.
func (m Model) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Health Record"); err != nil {
		return err
	}
	if m.Loading {
		if _, err := fmt.Fprintln(w, "(loading)"); err != nil {
			return err
		}
	}
	for _, s := range m.Sections {
		if _, err := fmt.Fprintf(w, "\n%s\n", s.Title); err != nil {
			return err
		}
		for _, line := range s.Lines {
			if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Section returns the view for section, if present.
func (m Model) Section(section record.Section) (SectionView, bool) {
	for _, s := range m.Sections {
		if s.Section == section {
			return s, true
		}
	}
	return SectionView{}, false
}
