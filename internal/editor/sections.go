package editor

import (
	"context"
	"fmt"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// Description edits the free-text description.
type Description struct {
	base
	draft string
	rules []Rule[string]
}

var _ Editor = (*Description)(nil)

func NewDescription(deps Deps, rules ...Rule[string]) *Description {
	return &Description{
		base:  newBase(record.SectionDescription, deps),
		draft: deps.Store.Record().Description,
		rules: rules,
	}
}

func (e *Description) Text() string { return e.draft }

func (e *Description) Draft() interface{} { return e.draft }

func (e *Description) SetDescription(text string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	e.draft = text
	return nil
}

func (e *Description) Save(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	if verr := validate(e.draft, e.rules); verr != nil {
		return e.reject(ctx, verr)
	}
	saved := e.draft
	return e.commit(ctx, 0, func(rec *record.HealthRecord) {
		rec.Description = saved
	})
}

// ConditionField selects which part of the current condition is updated.
type ConditionField int

const (
	ConditionStatus ConditionField = iota + 1
	ConditionSeverity
	ConditionImprovementStatus
)

func ParseConditionField(s string) (ConditionField, error) {
	switch s {
	case "status":
		return ConditionStatus, nil
	case "severity":
		return ConditionSeverity, nil
	case "improvementStatus":
		return ConditionImprovementStatus, nil
	default:
		return 0, fmt.Errorf("%w: condition %q", ErrUnknownField, s)
	}
}

// Condition edits status, severity and improvement status. Values are
// checked against the vocabulary both on update and on save.
type Condition struct {
	base
	draft record.CurrentCondition
	rules []Rule[record.CurrentCondition]
}

var _ Editor = (*Condition)(nil)

func NewCondition(deps Deps, extra ...Rule[record.CurrentCondition]) *Condition {
	e := &Condition{
		base:  newBase(record.SectionCurrentCondition, deps),
		draft: deps.Store.Record().CurrentCondition,
	}
	e.rules = append([]Rule[record.CurrentCondition]{ConditionInVocabulary(e.deps.Vocabulary)}, extra...)
	return e
}

func (e *Condition) Value() record.CurrentCondition { return e.draft }

func (e *Condition) Draft() interface{} { return e.draft }

func (e *Condition) UpdateField(field ConditionField, value string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	v := e.deps.Vocabulary
	switch field {
	case ConditionStatus:
		if !v.ValidStatus(record.Status(value)) {
			return fmt.Errorf("%w: status %q", record.ErrUnknownValue, value)
		}
		e.draft.Status = record.Status(value)
	case ConditionSeverity:
		if !v.ValidSeverity(record.Severity(value)) {
			return fmt.Errorf("%w: severity %q", record.ErrUnknownValue, value)
		}
		e.draft.Severity = record.Severity(value)
	case ConditionImprovementStatus:
		if !v.ValidImprovementStatus(record.ImprovementStatus(value)) {
			return fmt.Errorf("%w: improvement status %q", record.ErrUnknownValue, value)
		}
		e.draft.ImprovementStatus = record.ImprovementStatus(value)
	default:
		return fmt.Errorf("%w: condition field %d", ErrUnknownField, field)
	}
	return nil
}

func (e *Condition) Save(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	if verr := validate(e.draft, e.rules); verr != nil {
		return e.reject(ctx, verr)
	}
	saved := e.draft
	return e.commit(ctx, 0, func(rec *record.HealthRecord) {
		rec.CurrentCondition = saved
	})
}

// Treatments edits the list of treatments tried.
type Treatments struct {
	base
	draft []string
	rules []Rule[[]string]
}

var _ Editor = (*Treatments)(nil)

func NewTreatments(deps Deps, rules ...Rule[[]string]) *Treatments {
	return &Treatments{
		base:  newBase(record.SectionTreatments, deps),
		draft: record.CloneStrings(deps.Store.Record().TreatmentsTried),
		rules: rules,
	}
}

func (e *Treatments) Items() []string { return record.CloneStrings(e.draft) }

func (e *Treatments) Draft() interface{} { return e.Items() }

func (e *Treatments) AddItem() (int, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	e.draft = append(e.draft, "")
	return len(e.draft) - 1, nil
}

func (e *Treatments) UpdateItem(index int, value string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	e.draft[index] = value
	return nil
}

func (e *Treatments) RemoveItem(index int) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if err := checkIndex(index, len(e.draft)); err != nil {
		return err
	}
	e.draft = append(e.draft[:index], e.draft[index+1:]...)
	return nil
}

func (e *Treatments) Save(ctx context.Context) error {
	if e.Closed() {
		return ErrClosed
	}
	if verr := validate(e.draft, e.rules); verr != nil {
		return e.reject(ctx, verr)
	}
	saved := record.CloneStrings(e.draft)
	return e.commit(ctx, len(saved), func(rec *record.HealthRecord) {
		rec.TreatmentsTried = saved
	})
}
