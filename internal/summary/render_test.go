package summary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

func TestRender_AllSections(t *testing.T) {
	rec := fetchedRecord()
	rec.TreatmentsTried = []string{"Ibuprofen", "Rest"}
	rec.MedicalConsultations = []record.MedicalConsultation{{
		Consultant:      "Dr. Smit",
		Date:            "2024-02-10",
		Diagnosis:       "Tension headache",
		FollowUpActions: []string{"Keep a diary", "Return in 6 weeks"},
	}}

	m := Render(rec, false)

	require.Len(t, m.Sections, len(record.Sections))
	for i, section := range record.Sections {
		assert.Equal(t, section, m.Sections[i].Section)
	}

	desc, _ := m.Section(record.SectionDescription)
	assert.Equal(t, []string{"Ongoing headache"}, desc.Lines)

	cond, _ := m.Section(record.SectionCurrentCondition)
	assert.Equal(t, []string{"Status: open", "Severity: mild", "Improvement Status: stable"}, cond.Lines)

	treatments, _ := m.Section(record.SectionTreatments)
	assert.Equal(t, []string{"Ibuprofen", "Rest"}, treatments.Lines)

	consultations, _ := m.Section(record.SectionConsultations)
	assert.Contains(t, consultations.Lines, "Follow-up action: Keep a diary, Return in 6 weeks")
	assert.Equal(t, "Medical Consultations", consultations.Title)
}

func TestRender_EmptyRecord(t *testing.T) {
	m := Render(record.Default(), true)

	assert.True(t, m.Loading)
	symptoms, ok := m.Section(record.SectionSymptoms)
	require.True(t, ok)
	assert.NotNil(t, symptoms.Lines)
	assert.Empty(t, symptoms.Lines)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(fetchedRecord(), false).WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Health Record")
	assert.Contains(t, out, "Symptoms\n  Name: Migraine\n  Start Date: 2024-01-01\n")
	assert.NotContains(t, out, "(loading)")
}
