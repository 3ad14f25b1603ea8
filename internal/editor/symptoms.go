package editor

import (
	"context"
	"fmt"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// SymptomField selects the symptom property an update applies to.
type SymptomField int

const (
	SymptomName SymptomField = iota + 1
	SymptomStartDate
)

// ParseSymptomField maps the wire names "name" and "startDate".
func ParseSymptomField(s string) (SymptomField, error) {
	switch s {
	case "name":
		return SymptomName, nil
	case "startDate":
		return SymptomStartDate, nil
	default:
		return 0, fmt.Errorf("%w: symptom %q", ErrUnknownField, s)
	}
}

// Symptoms edits the symptom list.
type Symptoms struct {
	base
	draft  []record.Symptom
	rules  []Rule[[]record.Symptom]
	picker *DatePicker
}

var _ Editor = (*Symptoms)(nil)

// NewSymptoms opens a symptoms draft. SymptomNameMinLength always applies;
// extra rules run after it.
func NewSymptoms(deps Deps, extra ...Rule[[]record.Symptom]) *Symptoms {
	e := &Symptoms{
		base:  newBase(record.SectionSymptoms, deps),
		draft: record.CloneSymptoms(deps.Store.Record().Symptoms),
		rules: append([]Rule[[]record.Symptom]{SymptomNameMinLength}, extra...),
	}
	e.picker = newDatePicker(e)
	return e
}

// Items returns a copy of the draft.
func (e *Symptoms) Items() []record.Symptom {
	return record.CloneSymptoms(e.draft)
}

func (e *Symptoms) Draft() interface{} { return e.Items() }

// Picker is the start date picker.
func (e *Symptoms) Picker() *DatePicker { return e.picker }

// AddItem appends a blank symptom and returns its index.
func (e *Symptoms) AddItem() (int, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	e.draft = append(e.draft, record.Symptom{})
	return len(e.draft) - 1, nil
}

// UpdateItem sets one field of the symptom at index. Start dates are
// normalized to the canonical calendar-date form.
func (e *Symptoms) UpdateItem(index int, field SymptomField, value string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	switch field {
	case SymptomName:
		e.draft[index].Name = value
	case SymptomStartDate:
		date, err := record.ParseDate(value)
		if err != nil {
			return err
		}
		e.draft[index].StartDate = date
	default:
		return fmt.Errorf("%w: symptom field %d", ErrUnknownField, field)
	}
	return nil
}

// RemoveItem deletes the symptom at index. It is refused while the date
// picker is open so the picked index stays valid.
func (e *Symptoms) RemoveItem(index int) error {
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

// Save validates the whole list; a single bad name rejects the save.
func (e *Symptoms) Save(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	if verr := validate(e.draft, e.rules); verr != nil {
		return e.reject(ctx, verr)
	}
	saved := record.CloneSymptoms(e.draft)
	return e.commit(ctx, len(saved), func(rec *record.HealthRecord) {
		rec.Symptoms = saved
	})
}

func (e *Symptoms) itemCount() int { return len(e.draft) }

func (e *Symptoms) itemDate(index int) string { return e.draft[index].StartDate }

func (e *Symptoms) setItemDate(index int, date string) { e.draft[index].StartDate = date }
