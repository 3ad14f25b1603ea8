package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProvider_Disabled(t *testing.T) {
	p, err := InitProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.Nil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordFetch(ctx, "applied")
		m.RecordSave(ctx, "symptoms", "saved")
		m.RecordValidationFailure(ctx, "symptom_name_min_length")
		m.RecordHTTPRequest(ctx, "GET", "/record", 200, 1.5)
	})
}

func TestInitMetrics_AgainstGlobalProvider(t *testing.T) {
	m, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordFetch(ctx, "failed")
		m.RecordSave(ctx, "description", "saved")
		m.RecordValidationFailure(ctx, "symptom_name_min_length")
	})
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "AlwaysOnSampler", false},
		{"always_on", "AlwaysOnSampler", false},
		{"ALWAYS_OFF", "AlwaysOffSampler", false},
		{"traceidratio", "TraceIDRatioBased{0.1}", false},
		{"traceidratio:0.25", "TraceIDRatioBased{0.25}", false},
		{"parentbased_always_on", "ParentBased{root:AlwaysOnSampler", false},
		{"traceidratio:2", "", true},
		{"traceidratio:abc", "", true},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newSampler(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, s.Description(), tt.want)
		})
	}
}

func TestInitProvider_RejectsBadSampler(t *testing.T) {
	_, err := InitProvider(context.Background(), Config{Enabled: true, TracesSampler: "sometimes"})
	assert.Error(t, err)
}
