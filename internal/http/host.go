// Package http exposes one editing session over JSON so a thin mobile or web
// shell can drive the summary screen and the section editors.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/editor"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/navigation"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/notify"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/summary"
)

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/health-record-editor/http")

// Host serializes requests onto the single-threaded view and editors.
type Host struct {
	mu     sync.Mutex
	ctx    context.Context
	view   *summary.View
	nav    *navigation.Stack
	notes  *notify.Collector
	logger zerolog.Logger
}

// NewHost creates a host for view. ctx bounds background fetches and should
// live as long as the server. notes must be among the notifiers the view's
// editors report to.
func NewHost(ctx context.Context, view *summary.View, nav *navigation.Stack, notes *notify.Collector, logger zerolog.Logger) *Host {
	return &Host{
		ctx:    ctx,
		view:   view,
		nav:    nav,
		notes:  notes,
		logger: logger.With().Str("component", "screen-host").Logger(),
	}
}

type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message"`
	Rule          string   `json:"rule,omitempty"`
	Index         *int     `json:"index,omitempty"`
	Notifications []string `json:"notifications,omitempty"`
}

type RecordResponse struct {
	Screen        navigation.ScreenID `json:"screen"`
	Summary       summary.Model       `json:"summary"`
	Notifications []string            `json:"notifications"`
}

type PickerResponse struct {
	State   string `json:"state"`
	Index   *int   `json:"index,omitempty"`
	Initial string `json:"initial,omitempty"`
}

type EditorResponse struct {
	Screen        navigation.ScreenID `json:"screen"`
	Section       record.Section      `json:"section"`
	Draft         interface{}         `json:"draft"`
	Picker        *PickerResponse     `json:"picker,omitempty"`
	Notifications []string            `json:"notifications"`
}

type MutationRequest struct {
	Op     string `json:"op"`
	Index  int    `json:"index"`
	Action int    `json:"action"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

type PickerRequest struct {
	Op    string `json:"op"`
	Index int    `json:"index"`
	Date  string `json:"date"`
}

func (h *Host) GetRecord(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.respondRecord(w, http.StatusOK)
}

// Refresh re-runs the fetch. With ?wait=true it answers once the fetch has
// been applied or dropped.
func (h *Host) Refresh(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	done, err := h.view.Refresh(h.ctx)
	if err != nil {
		h.respondFailure(w, err)
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	if r.URL.Query().Get("wait") != "true" {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.respondRecord(w, http.StatusAccepted)
		return
	}

	select {
	case <-done:
	case <-r.Context().Done():
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.respondRecord(w, http.StatusOK)
}

func (h *Host) OpenEditor(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	section, err := record.ParseSection(mux.Vars(r)["section"])
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "unknown_section", err.Error())
		return
	}
	e, err := h.view.Edit(section)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondEditor(w, http.StatusCreated, e)
}

func (h *Host) GetEditor(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.activeEditor(w)
	if !ok {
		return
	}
	h.respondEditor(w, http.StatusOK, e)
}

func (h *Host) Mutate(w http.ResponseWriter, r *http.Request) {
	var req MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.activeEditor(w)
	if !ok {
		return
	}
	if err := applyMutation(e, req); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondEditor(w, http.StatusOK, e)
}

func (h *Host) Picker(w http.ResponseWriter, r *http.Request) {
	var req PickerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.activeEditor(w)
	if !ok {
		return
	}
	if err := applyPicker(e, req); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondEditor(w, http.StatusOK, e)
}

func (h *Host) Save(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.activeEditor(w)
	if !ok {
		return
	}

	ctx, span := tracer.Start(r.Context(), "editor.Save",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("section", string(e.Section()))),
	)
	defer span.End()

	if err := e.Save(ctx); err != nil {
		var verr *editor.ValidationError
		if errors.As(err, &verr) {
			span.SetStatus(codes.Error, "validation failed")
			span.SetAttributes(attribute.String("validation.rule", verr.Rule))
		} else {
			span.SetStatus(codes.Error, err.Error())
		}
		h.respondFailure(w, err)
		return
	}
	h.respondRecord(w, http.StatusOK)
}

func (h *Host) Cancel(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.activeEditor(w)
	if !ok {
		return
	}
	if err := e.Cancel(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondRecord(w, http.StatusOK)
}

func (h *Host) activeEditor(w http.ResponseWriter) (editor.Editor, bool) {
	e := h.view.ActiveEditor()
	if e == nil {
		h.respondError(w, http.StatusNotFound, "no_editor", "No section is being edited")
		return nil, false
	}
	return e, true
}

func (h *Host) respondRecord(w http.ResponseWriter, status int) {
	respondJSON(w, status, RecordResponse{
		Screen:        h.nav.Current().ID,
		Summary:       h.view.Model(),
		Notifications: h.drain(),
	})
}

func (h *Host) respondEditor(w http.ResponseWriter, status int, e editor.Editor) {
	resp := EditorResponse{
		Screen:  h.nav.Current().ID,
		Section: e.Section(),
		Draft:   e.Draft(),
	}
	if pe, ok := e.(pickerEditor); ok {
		p := pe.Picker()
		resp.Picker = &PickerResponse{State: p.State().String()}
		if index, picking := p.Picking(); picking {
			resp.Picker.Index = &index
			resp.Picker.Initial = record.FormatDate(p.Initial())
		}
	}
	resp.Notifications = h.drain()
	respondJSON(w, status, resp)
}

// respondFailure maps editor, view and record errors onto HTTP statuses.
func (h *Host) respondFailure(w http.ResponseWriter, err error) {
	var verr *editor.ValidationError
	switch {
	case errors.As(err, &verr):
		index := verr.Index
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:         "validation_error",
			Message:       verr.Message,
			Rule:          verr.Rule,
			Index:         &index,
			Notifications: h.drain(),
		})
	case errors.Is(err, summary.ErrEditorOpen), errors.Is(err, editor.ErrClosed),
		errors.Is(err, editor.ErrPickerOpen), errors.Is(err, editor.ErrPickerIdle):
		h.respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, editor.ErrIndexOutOfRange), errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrUnknownSection), errors.Is(err, record.ErrInvalidDate),
		errors.Is(err, record.ErrUnknownValue), errors.Is(err, errUnknownOp):
		h.respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.logger.Error().Err(err).Msg("request failed")
		h.respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (h *Host) respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:         errorType,
		Message:       message,
		Notifications: h.drain(),
	})
}

func (h *Host) drain() []string {
	messages := h.notes.Drain()
	if messages == nil {
		messages = []string{}
	}
	return messages
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
