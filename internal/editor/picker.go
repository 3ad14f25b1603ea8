package editor

import (
	"time"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// PickerState is the state of a DatePicker.
type PickerState int

const (
	PickerIdle PickerState = iota
	PickerPicking
)

func (s PickerState) String() string {
	if s == PickerPicking {
		return "picking"
	}
	return "idle"
}

// dateTarget is the list a DatePicker writes into.
type dateTarget interface {
	checkOpen() error
	itemCount() int
	itemDate(index int) string
	setItemDate(index int, date string)
}

// DatePicker is the date selection sub-flow of a list editor. It moves
// idle -> picking(index) on Open, and back to idle on Confirm (which writes
// the canonical date into the item) or Dismiss (which writes nothing).
type DatePicker struct {
	target dateTarget
	state  PickerState
	index  int
	now    func() time.Time
}

func newDatePicker(target dateTarget) *DatePicker {
	return &DatePicker{target: target, now: time.Now}
}

// Open starts picking a date for the item at index.
func (p *DatePicker) Open(index int) error {
	if err := p.target.checkOpen(); err != nil {
		return err
	}
	if p.state == PickerPicking {
		return ErrPickerOpen
	}
	if err := checkIndex(index, p.target.itemCount()); err != nil {
		return err
	}
	p.state = PickerPicking
	p.index = index
	return nil
}

// Confirm applies date to the item being picked and closes the picker.
func (p *DatePicker) Confirm(date time.Time) error {
	if err := p.target.checkOpen(); err != nil {
		return err
	}
	if p.state != PickerPicking {
		return ErrPickerIdle
	}
	p.target.setItemDate(p.index, record.FormatDate(date))
	p.state = PickerIdle
	return nil
}

// Dismiss closes the picker without touching the draft.
func (p *DatePicker) Dismiss() {
	p.state = PickerIdle
}

func (p *DatePicker) State() PickerState { return p.state }

// Picking returns the index being picked for, if any.
func (p *DatePicker) Picking() (int, bool) {
	if p.state != PickerPicking {
		return 0, false
	}
	return p.index, true
}

// Initial is the date the picker widget should show: the item's current
// date when it has one, today otherwise.
func (p *DatePicker) Initial() time.Time {
	if p.state == PickerPicking {
		if t, ok := record.DateTime(p.target.itemDate(p.index)); ok {
			return t
		}
	}
	return p.now()
}
