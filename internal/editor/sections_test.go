package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/messaging"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/navigation"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

func TestOpen_EverySection(t *testing.T) {
	for _, section := range record.Sections {
		t.Run(string(section), func(t *testing.T) {
			f := newFixture(t, sampleRecord(), section)

			e, err := Open(section, f.deps)

			require.NoError(t, err)
			assert.Equal(t, section, e.Section())
			assert.False(t, e.Closed())
			assert.NotNil(t, e.Draft())
		})
	}
}

func TestOpen_UnknownSection(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionDescription)

	_, err := Open(record.Section("updates"), f.deps)

	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestDescription_Save(t *testing.T) {
	before := sampleRecord()
	f := newFixture(t, before, record.SectionDescription)
	e := NewDescription(f.deps)
	assert.Equal(t, "Ongoing headache", e.Text())

	require.NoError(t, e.SetDescription("Headache every morning"))
	require.NoError(t, e.Save(context.Background()))

	after := f.store.Record()
	assert.Equal(t, "Headache every morning", after.Description)
	after.Description = before.Description
	assert.Equal(t, before.Clone(), after)
	assert.Equal(t, navigation.ScreenSummary, f.nav.Current().ID)
	f.publisher.AssertEventCount(t, messaging.EventSectionSaved, 1)
}

func TestDescription_AcceptsEmpty(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionDescription)
	e := NewDescription(f.deps)

	require.NoError(t, e.SetDescription(""))

	require.NoError(t, e.Save(context.Background()))
	assert.Empty(t, f.store.Record().Description)
}

func TestCondition_UpdateField(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionCurrentCondition)
	e := NewCondition(f.deps)

	require.NoError(t, e.UpdateField(ConditionSeverity, "severe"))
	require.NoError(t, e.UpdateField(ConditionImprovementStatus, "worsening"))
	require.NoError(t, e.UpdateField(ConditionStatus, "closed"))

	assert.Equal(t, record.CurrentCondition{
		Status:            record.StatusClosed,
		Severity:          record.SeveritySevere,
		ImprovementStatus: record.ImprovementWorsening,
	}, e.Value())

	require.NoError(t, e.Save(context.Background()))
	assert.Equal(t, e.Value(), f.store.Record().CurrentCondition)
}

func TestCondition_RejectsUnknownValues(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionCurrentCondition)
	e := NewCondition(f.deps)

	assert.ErrorIs(t, e.UpdateField(ConditionSeverity, "extreme"), record.ErrUnknownValue)
	assert.ErrorIs(t, e.UpdateField(ConditionStatus, "pending"), record.ErrUnknownValue)
	assert.ErrorIs(t, e.UpdateField(ConditionImprovementStatus, "better"), record.ErrUnknownValue)
	assert.ErrorIs(t, e.UpdateField(ConditionField(42), "open"), ErrUnknownField)
	assert.Equal(t, record.Default().CurrentCondition, e.Value())
}

func TestCondition_SaveRejectsOutOfVocabularyRecord(t *testing.T) {
	rec := sampleRecord()
	rec.CurrentCondition.Severity = "legacy"
	f := newFixture(t, rec, record.SectionCurrentCondition)
	e := NewCondition(f.deps)

	err := e.Save(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, RuleConditionVocabulary, verr.Rule)
	assert.Equal(t, -1, verr.Index)
	assert.Equal(t, uint64(0), f.store.Version())
	assert.Len(t, f.notes.Messages(), 1)
}

func TestCondition_CustomVocabulary(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionCurrentCondition)
	vocab := record.DefaultVocabulary()
	vocab.Severities = append(vocab.Severities, "critical")
	f.deps.Vocabulary = vocab
	e := NewCondition(f.deps)

	require.NoError(t, e.UpdateField(ConditionSeverity, "critical"))
	require.NoError(t, e.Save(context.Background()))
	assert.Equal(t, record.Severity("critical"), f.store.Record().CurrentCondition.Severity)
}

func TestParseConditionField(t *testing.T) {
	for in, want := range map[string]ConditionField{
		"status":            ConditionStatus,
		"severity":          ConditionSeverity,
		"improvementStatus": ConditionImprovementStatus,
	} {
		got, err := ParseConditionField(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseConditionField("mood")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestTreatments_Edit(t *testing.T) {
	before := sampleRecord()
	f := newFixture(t, before, record.SectionTreatments)
	e := NewTreatments(f.deps)

	idx := addItem(t, e)
	require.NoError(t, e.UpdateItem(idx, "Paracetamol"))
	require.NoError(t, e.UpdateItem(0, "Ibuprofen 400mg"))
	assert.ErrorIs(t, e.UpdateItem(9, "x"), ErrIndexOutOfRange)

	require.NoError(t, e.Save(context.Background()))

	after := f.store.Record()
	assert.Equal(t, []string{"Ibuprofen 400mg", "Paracetamol"}, after.TreatmentsTried)
	after.TreatmentsTried = before.TreatmentsTried
	assert.Equal(t, before.Clone(), after)
}

func TestTreatments_RemoveAndCancel(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionTreatments)
	e := NewTreatments(f.deps)

	require.NoError(t, e.RemoveItem(0))
	assert.Empty(t, e.Items())
	assert.ErrorIs(t, e.RemoveItem(0), ErrIndexOutOfRange)

	require.NoError(t, e.Cancel())
	assert.Equal(t, []string{"Ibuprofen"}, f.store.Record().TreatmentsTried)
}

func TestConsultations_Edit(t *testing.T) {
	before := sampleRecord()
	f := newFixture(t, before, record.SectionConsultations)
	e := NewConsultations(f.deps)

	idx := addItem(t, e)
	require.NoError(t, e.UpdateItem(idx, ConsultationConsultant, "Dr. de Vries"))
	require.NoError(t, e.UpdateItem(idx, ConsultationDiagnosis, "Migraine with aura"))
	require.NoError(t, e.Picker().Open(idx))
	require.NoError(t, e.Picker().Confirm(time.Date(2024, 3, 14, 0, 0, 0, 0, time.Local)))
	action, err := e.AddFollowUp(idx)
	require.NoError(t, err)
	require.NoError(t, e.UpdateFollowUp(idx, action, "Start triptans"))

	require.NoError(t, e.Save(context.Background()))

	after := f.store.Record()
	require.Len(t, after.MedicalConsultations, 2)
	assert.Equal(t, record.MedicalConsultation{
		Consultant:      "Dr. de Vries",
		Date:            "2024-03-14",
		Diagnosis:       "Migraine with aura",
		FollowUpActions: []string{"Start triptans"},
	}, after.MedicalConsultations[1])
	assert.Equal(t, before.MedicalConsultations[0], after.MedicalConsultations[0])
	after.MedicalConsultations = before.MedicalConsultations
	assert.Equal(t, before.Clone(), after)
}

func TestConsultations_FollowUpBounds(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionConsultations)
	e := NewConsultations(f.deps)

	_, err := e.AddFollowUp(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, e.UpdateFollowUp(0, 5, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.RemoveFollowUp(0, 5), ErrIndexOutOfRange)

	require.NoError(t, e.RemoveFollowUp(0, 0))
	assert.Empty(t, e.Items()[0].FollowUpActions)
	assert.Equal(t, []string{"Keep a diary"}, f.store.Record().MedicalConsultations[0].FollowUpActions)
}

func TestConsultations_UpdateItemErrors(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionConsultations)
	e := NewConsultations(f.deps)

	assert.ErrorIs(t, e.UpdateItem(0, ConsultationField(0), "x"), ErrUnknownField)
	assert.ErrorIs(t, e.UpdateItem(0, ConsultationDate, "next tuesday"), record.ErrInvalidDate)
	assert.ErrorIs(t, e.UpdateItem(2, ConsultationDiagnosis, "x"), ErrIndexOutOfRange)

	_, err := ParseConsultationField("notes")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestConsultations_NonEmptyConsultantRule(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionConsultations)
	e := NewConsultations(f.deps, NonEmptyConsultant)
	addItem(t, e)

	err := e.Save(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, RuleConsultantRequired, verr.Rule)
	assert.Equal(t, 1, verr.Index)
	assert.Len(t, f.store.Record().MedicalConsultations, 1)
}

func TestConsultations_AcceptsBlankWithoutRules(t *testing.T) {
	f := newFixture(t, sampleRecord(), record.SectionConsultations)
	e := NewConsultations(f.deps)
	addItem(t, e)

	require.NoError(t, e.Save(context.Background()))
	assert.Len(t, f.store.Record().MedicalConsultations, 2)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{Rule: "x"}))
	assert.False(t, IsValidationError(ErrClosed))
}
