package editor

import (
	"context"
	"fmt"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// ConsultationField selects the consultation property an update applies to.
type ConsultationField int

const (
	ConsultationConsultant ConsultationField = iota + 1
	ConsultationDate
	ConsultationDiagnosis
)

func ParseConsultationField(s string) (ConsultationField, error) {
	switch s {
	case "consultant":
		return ConsultationConsultant, nil
	case "date":
		return ConsultationDate, nil
	case "diagnosis":
		return ConsultationDiagnosis, nil
	default:
		return 0, fmt.Errorf("%w: consultation %q", ErrUnknownField, s)
	}
}

// Consultations edits the medical consultation list and each consultation's
// follow-up actions.
type Consultations struct {
	base
	draft  []record.MedicalConsultation
	rules  []Rule[[]record.MedicalConsultation]
	picker *DatePicker
}

var _ Editor = (*Consultations)(nil)

func NewConsultations(deps Deps, rules ...Rule[[]record.MedicalConsultation]) *Consultations {
	e := &Consultations{
		base:  newBase(record.SectionConsultations, deps),
		draft: record.CloneConsultations(deps.Store.Record().MedicalConsultations),
		rules: rules,
	}
	e.picker = newDatePicker(e)
	return e
}

func (e *Consultations) Items() []record.MedicalConsultation {
	return record.CloneConsultations(e.draft)
}

func (e *Consultations) Draft() interface{} { return e.Items() }

// Picker is the consultation date picker.
func (e *Consultations) Picker() *DatePicker { return e.picker }

func (e *Consultations) AddItem() (int, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	e.draft = append(e.draft, record.MedicalConsultation{FollowUpActions: []string{}})
	return len(e.draft) - 1, nil
}

func (e *Consultations) UpdateItem(index int, field ConsultationField, value string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	switch field {
	case ConsultationConsultant:
		e.draft[index].Consultant = value
	case ConsultationDate:
		date, err := record.ParseDate(value)
		if err != nil {
			return err
		}
		e.draft[index].Date = date
	case ConsultationDiagnosis:
		e.draft[index].Diagnosis = value
	default:
		return fmt.Errorf("%w: consultation field %d", ErrUnknownField, field)
	}
	return nil
}

func (e *Consultations) RemoveItem(index int) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.picker.State() == PickerPicking {
		return ErrPickerOpen
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	e.draft = append(e.draft[:index], e.draft[index+1:]...)
	return nil
}

// AddFollowUp appends an empty follow-up action to consultation index and
// returns the action's index.
func (e *Consultations) AddFollowUp(index int) (int, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return 0, err
	}
	e.draft[index].FollowUpActions = append(e.draft[index].FollowUpActions, "")
	return len(e.draft[index].FollowUpActions) - 1, nil
}

func (e *Consultations) UpdateFollowUp(index, action int, value string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	if err := checkIndex(action, len(e.draft[index].FollowUpActions)); err != nil {
		return err
	}
	e.draft[index].FollowUpActions[action] = value
	return nil
}

func (e *Consultations) RemoveFollowUp(index, action int) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	actions := e.draft[index].FollowUpActions
	if err := checkIndex(action, len(actions)); err != nil {
		return err
	}
	e.draft[index].FollowUpActions = append(actions[:action], actions[action+1:]...)
	return nil
}

func (e *Consultations) Save(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	if verr := validate(e.draft, e.rules); verr != nil {
		return e.reject(ctx, verr)
	}
	saved := record.CloneConsultations(e.draft)
	return e.commit(ctx, len(saved), func(rec *record.HealthRecord) {
		rec.MedicalConsultations = saved
	})
}

func (e *Consultations) itemCount() int { return len(e.draft) }

func (e *Consultations) itemDate(index int) string { return e.draft[index].Date }

func (e *Consultations) setItemDate(index int, date string) { e.draft[index].Date = date }
