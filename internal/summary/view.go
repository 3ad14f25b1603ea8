// Package summary is the read-only health record screen. It fetches the
// record when mounted, renders the store, and opens section editors.
package summary

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/editor"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/messaging"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/navigation"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

var ErrEditorOpen = errors.New("an editor is open")

// FetchFailedMessage is shown to the user when the record cannot be loaded.
const FetchFailedMessage = "Could not load your health record. Please try again later."

// View owns the fetch-on-mount task and the currently open editor.
//
// A fetch result is applied only when the mount that started it is still
// current, no editor is open, and the store has not been replaced since the
// fetch began. Anything else is dropped so a late response never overwrites
// a newer local edit. Store subscribers run while the view's lock is held
// and must not call back into the View.
type View struct {
	deps    editor.Deps
	fetcher record.Fetcher
	logger  zerolog.Logger

	mu      sync.Mutex
	mountID uint64
	cancel  context.CancelFunc
	active  editor.Editor
}

// New creates a summary view. deps are handed to every editor it opens.
func New(fetcher record.Fetcher, deps editor.Deps) *View {
	if deps.Publisher == nil {
		deps.Publisher = messaging.Noop{}
	}
	if len(deps.Vocabulary.Statuses) == 0 {
		deps.Vocabulary = record.DefaultVocabulary()
	}
	return &View{
		deps:    deps,
		fetcher: fetcher,
		logger:  deps.Logger.With().Str("component", "summary").Int("record_id", deps.RecordID).Logger(),
	}
}

// Mount starts fetching the record. The returned channel is closed once the
// fetch has finished and its result was applied or dropped.
func (v *View) Mount(ctx context.Context) <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mountLocked(ctx)
}

func (v *View) mountLocked(ctx context.Context) <-chan struct{} {
	if v.cancel != nil {
		v.cancel()
	}
	v.mountID++
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel

	done := make(chan struct{})
	id := v.mountID
	startVersion := v.deps.Store.Version()
	v.deps.Store.SetLoading(true)

	go func() {
		defer close(done)
		defer cancel()
		rec, err := v.fetcher.GetHealthRecord(ctx, v.deps.RecordID)
		v.finish(ctx, id, startVersion, rec, err)
	}()
	return done
}

// Unmount cancels an in-flight fetch. Its result, if it still arrives, is dropped.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mountID++
	v.deps.Store.SetLoading(false)
}

// Refresh re-runs the fetch. It is refused while an editor is open.
func (v *View) Refresh(ctx context.Context) (<-chan struct{}, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editorOpenLocked() {
		return nil, ErrEditorOpen
	}
	return v.mountLocked(ctx), nil
}

func (v *View) finish(ctx context.Context, id, startVersion uint64, rec record.HealthRecord, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	current := id == v.mountID
	if current {
		v.deps.Store.SetLoading(false)
	}

	if err == nil {
		err = v.deps.Vocabulary.ValidateCondition(rec.CurrentCondition)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || !current {
			v.deps.Metrics.RecordFetch(ctx, "canceled")
			v.logger.Debug().Err(err).Msg("fetch canceled")
			return
		}
		ferr := &record.FetchError{ID: v.deps.RecordID, Err: err}
		v.deps.Metrics.RecordFetch(ctx, "failed")
		v.logger.Error().Err(ferr).Msg("error fetching health record")
		v.deps.Notifier.Notify(FetchFailedMessage)
		return
	}

	switch {
	case !current:
		v.deps.Metrics.RecordFetch(ctx, "canceled")
		v.logger.Debug().Msg("dropping fetch result for unmounted view")
		return
	case v.editorOpenLocked():
		v.deps.Metrics.RecordFetch(ctx, "stale")
		v.logger.Warn().Msg("dropping fetch result while an editor is open")
		return
	case v.deps.Store.Version() != startVersion:
		v.deps.Metrics.RecordFetch(ctx, "stale")
		v.logger.Warn().Msg("dropping fetch result older than local edits")
		return
	}

	v.deps.Store.ReplaceRecord(rec)
	v.deps.Metrics.RecordFetch(ctx, "applied")
	v.logger.Info().Int("symptoms", len(rec.Symptoms)).Msg("health record loaded")

	event := messaging.NewRecordFetchedEvent(v.deps.RecordID, len(rec.Symptoms))
	if err := v.deps.Publisher.Publish(context.WithoutCancel(ctx), messaging.EventRecordFetched, event); err != nil {
		v.logger.Error().Err(err).Msg("failed to publish record fetched event")
	}
}

// Edit navigates to the editor for section and returns it.
func (v *View) Edit(section record.Section) (editor.Editor, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editorOpenLocked() {
		return nil, ErrEditorOpen
	}

	e, err := editor.Open(section, v.deps)
	if err != nil {
		return nil, err
	}
	if err := v.deps.Navigator.NavigateTo(navigation.ScreenEditSection, navigation.Params{Section: section}); err != nil {
		return nil, err
	}
	v.active = e
	v.logger.Debug().Str("section", string(section)).Msg("editor opened")
	return e, nil
}

// ActiveEditor returns the open editor, or nil once it has saved or canceled.
func (v *View) ActiveEditor() editor.Editor {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.editorOpenLocked() {
		return nil
	}
	return v.active
}

func (v *View) editorOpenLocked() bool {
	if v.active == nil {
		return false
	}
	if v.active.Closed() {
		v.active = nil
		return false
	}
	return true
}

// Model renders the store as it is right now.
func (v *View) Model() Model {
	return Render(v.deps.Store.Record(), v.deps.Store.Loading())
}
