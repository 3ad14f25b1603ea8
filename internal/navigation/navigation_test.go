package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

func TestStack_NavigateAndGoBack(t *testing.T) {
	s := NewStack(ScreenSummary)
	assert.Equal(t, ScreenSummary, s.Current().ID)

	require.NoError(t, s.NavigateTo(ScreenEditSection, Params{Section: record.SectionSymptoms}))
	assert.Equal(t, Screen{ID: ScreenEditSection, Params: Params{Section: record.SectionSymptoms}}, s.Current())
	assert.Equal(t, 2, s.Depth())

	require.NoError(t, s.GoBack())
	assert.Equal(t, ScreenSummary, s.Current().ID)
}

func TestStack_GoBackAtRoot(t *testing.T) {
	s := NewStack(ScreenSummary)

	assert.ErrorIs(t, s.GoBack(), ErrNoHistory)
	assert.Equal(t, 1, s.Depth())
}
