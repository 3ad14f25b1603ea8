package editor

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/navigation"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/notify"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/store"
	"github.com/WailSalutem-Health-Care/health-record-editor/internal/testutil"
)

type fixture struct {
	store     *store.Store
	nav       *navigation.Stack
	notes     *notify.Collector
	publisher *testutil.MockPublisher
	deps      Deps
}

// newFixture builds deps around a store seeded with rec and a navigation
// stack already showing the edit screen for section.
func newFixture(t *testing.T, rec record.HealthRecord, section record.Section) *fixture {
	t.Helper()

	f := &fixture{
		store:     store.NewWithRecord(rec),
		nav:       navigation.NewStack(navigation.ScreenSummary),
		notes:     notify.NewCollector(),
		publisher: testutil.NewMockPublisher(),
	}
	if err := f.nav.NavigateTo(navigation.ScreenEditSection, navigation.Params{Section: section}); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	f.deps = Deps{
		Store:     f.store,
		Navigator: f.nav,
		Notifier:  f.notes,
		Publisher: f.publisher,
		Logger:    zerolog.Nop(),
		RecordID:  1,
	}
	return f
}

func sampleRecord() record.HealthRecord {
	rec := record.Default()
	rec.Description = "Ongoing headache"
	rec.Symptoms = []record.Symptom{{Name: "Migraine", StartDate: "2024-01-01"}}
	rec.TreatmentsTried = []string{"Ibuprofen"}
	rec.MedicalConsultations = []record.MedicalConsultation{{
		Consultant:      "Dr. Smit",
		Date:            "2024-02-10",
		Diagnosis:       "Tension headache",
		FollowUpActions: []string{"Keep a diary"},
	}}
	rec.Updates = []record.Update{{ID: "u1", Date: "2024-01-02", Note: "created"}}
	return rec
}

type mockSaver struct {
	saveFunc func(ctx context.Context, id int, rec record.HealthRecord) error
	calls    int
}

func (m *mockSaver) SaveHealthRecord(ctx context.Context, id int, rec record.HealthRecord) error {
	m.calls++
	if m.saveFunc != nil {
		return m.saveFunc(ctx, id, rec)
	}
	return nil
}

type itemAdder interface {
	AddItem() (int, error)
}

func addItem(t *testing.T, e itemAdder) int {
	t.Helper()
	idx, err := e.AddItem()
	require.NoError(t, err)
	return idx
}
