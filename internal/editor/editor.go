// Package editor holds the per-section view-model logic behind the edit screens.
//
// Every editor copies its section out of the record store into a draft,
// mutates only the draft, and on Save validates it, merges it back into the
// current record and returns to the previous screen. Cancel throws the draft
// away. Editors are driven from a single logical thread and are not safe for
// concurrent use.
package editor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/messaging"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/navigation"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/notify"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/store"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/telemetry"
)

// Editor is the contract shared by all section editors.
type Editor interface {
	Section() record.Section
	// Draft returns a copy of the current draft for rendering.
	Draft() interface{}
	Save(ctx context.Context) error
	Cancel() error
	Closed() bool
}

// Deps are the collaborators an editor works with. Store, Navigator and
// Notifier are required; the rest may be left zero.
type Deps struct {
	Store      store.Backing
	Navigator  navigation.Navigator
	Notifier   notify.Notifier
	Publisher  messaging.PublisherInterface
	Saver      record.Saver
	Metrics    *telemetry.Metrics
	Logger     zerolog.Logger
	RecordID   int
	Vocabulary record.Vocabulary
}

// Open creates the editor for section, seeded from the store.
func Open(section record.Section, deps Deps) (Editor, error) {
	switch section {
	case record.SectionDescription:
		return NewDescription(deps), nil
	case record.SectionSymptoms:
		return NewSymptoms(deps), nil
	case record.SectionCurrentCondition:
		return NewCondition(deps), nil
	case record.SectionTreatments:
		return NewTreatments(deps), nil
	case record.SectionConsultations:
		return NewConsultations(deps), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
}

type base struct {
	deps    Deps
	section record.Section
	logger  zerolog.Logger
	closed  atomic.Bool
}

func newBase(section record.Section, deps Deps) base {
	if deps.Publisher == nil {
		deps.Publisher = messaging.Noop{}
	}
	if len(deps.Vocabulary.Statuses) == 0 {
		deps.Vocabulary = record.DefaultVocabulary()
	}
	return base{
		deps:    deps,
		section: section,
		logger:  deps.Logger.With().Str("section", string(section)).Logger(),
	}
}

func (b *base) Section() record.Section { return b.section }

// Closed may be called from any goroutine.
func (b *base) Closed() bool { return b.closed.Load() }

func (b *base) checkOpen() error {
	if b.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Cancel discards the draft and returns to the previous screen. The store is
// never touched.
func (b *base) Cancel() error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.closed.Store(true)
	b.logger.Debug().Msg("edit canceled")
	return b.deps.Navigator.GoBack()
}

// reject reports a validation failure to the user and leaves the store alone.
func (b *base) reject(ctx context.Context, verr *ValidationError) error {
	b.deps.Metrics.RecordSave(ctx, string(b.section), "rejected")
	b.deps.Metrics.RecordValidationFailure(ctx, verr.Rule)
	b.logger.Info().Str("rule", verr.Rule).Int("index", verr.Index).Msg("save rejected")
	b.deps.Notifier.Notify(verr.Message)
	return verr
}

// commit merges the draft into the current record, replaces the store's
// record and navigates back. Event publishing and write-back are best effort.
func (b *base) commit(ctx context.Context, itemCount int, merge func(rec *record.HealthRecord)) error {
	if b.closed.Load() {
		return ErrClosed
	}

	rec := b.deps.Store.Record()
	merge(&rec)
	b.deps.Store.ReplaceRecord(rec)
	b.closed.Store(true)

	b.deps.Metrics.RecordSave(ctx, string(b.section), "saved")
	b.logger.Info().Int("items", itemCount).Msg("section saved")

	event := messaging.NewSectionSavedEvent(b.deps.RecordID, string(b.section), itemCount)
	if err := b.deps.Publisher.Publish(ctx, messaging.EventSectionSaved, event); err != nil {
		b.logger.Error().Err(err).Msg("failed to publish section saved event")
	}

	if b.deps.Saver != nil {
		if err := b.deps.Saver.SaveHealthRecord(ctx, b.deps.RecordID, rec); err != nil {
			b.logger.Error().Err(err).Msg("failed to write health record back")
			b.deps.Notifier.Notify("Your changes are saved on this device but could not be sent yet.")
		}
	}

	return b.deps.Navigator.GoBack()
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, length)
	}
	return nil
}
