package http

import (
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/editor"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

var errUnknownOp = errors.New("unknown operation")

type pickerEditor interface {
	Picker() *editor.DatePicker
}

// applyMutation dispatches a PATCH /edit body onto the typed editor API.
func applyMutation(e editor.Editor, req MutationRequest) error {
	switch ed := e.(type) {
	case *editor.Description:
		if req.Op != "set" {
			return opError(req.Op, e.Section())
		}
		return ed.SetDescription(req.Value)

	case *editor.Condition:
		if req.Op != "set" {
			return opError(req.Op, e.Section())
		}
		field, err := editor.ParseConditionField(req.Field)
		if err != nil {
			return err
		}
		return ed.UpdateField(field, req.Value)

	case *editor.Symptoms:
		switch req.Op {
		case "add":
			_, err := ed.AddItem()
			return err
		case "update":
			field, err := editor.ParseSymptomField(req.Field)
			if err != nil {
				return err
			}
			return ed.UpdateItem(req.Index, field, req.Value)
		case "remove":
			return ed.RemoveItem(req.Index)
		}

	case *editor.Treatments:
		switch req.Op {
		case "add":
			_, err := ed.AddItem()
			return err
		case "update":
			return ed.UpdateItem(req.Index, req.Value)
		case "remove":
			return ed.RemoveItem(req.Index)
		}

	case *editor.Consultations:
		switch req.Op {
		case "add":
			_, err := ed.AddItem()
			return err
		case "update":
			field, err := editor.ParseConsultationField(req.Field)
			if err != nil {
				return err
			}
			return ed.UpdateItem(req.Index, field, req.Value)
		case "remove":
			return ed.RemoveItem(req.Index)
		case "addFollowUp":
			_, err := ed.AddFollowUp(req.Index)
			return err
		case "updateFollowUp":
			return ed.UpdateFollowUp(req.Index, req.Action, req.Value)
		case "removeFollowUp":
			return ed.RemoveFollowUp(req.Index, req.Action)
		}
	}
	return opError(req.Op, e.Section())
}

// applyPicker drives the date picker of a list editor.
func applyPicker(e editor.Editor, req PickerRequest) error {
	pe, ok := e.(pickerEditor)
	if !ok {
		return fmt.Errorf("%w: section %s has no date picker", errUnknownOp, e.Section())
	}
	p := pe.Picker()

	switch req.Op {
	case "open":
		return p.Open(req.Index)
	case "confirm":
		// Accepts the canonical form and RFC 3339 timestamps from the picker widget.
		canonical, err := record.ParseDate(req.Date)
		if err != nil {
			return err
		}
		date, ok := record.DateTime(canonical)
		if !ok {
			return fmt.Errorf("%w: %q", record.ErrInvalidDate, req.Date)
		}
		return p.Confirm(date)
	case "dismiss":
		p.Dismiss()
		return nil
	default:
		return fmt.Errorf("%w: picker %q", errUnknownOp, req.Op)
	}
}

func opError(op string, section record.Section) error {
	return fmt.Errorf("%w: %q on %s", errUnknownOp, op, section)
}
