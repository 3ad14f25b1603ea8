package notify

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Drain(t *testing.T) {
	c := NewCollector()
	c.Notify("first")
	c.Notify("second")

	assert.Equal(t, []string{"first", "second"}, c.Messages())
	assert.Equal(t, []string{"first", "second"}, c.Drain())
	assert.Empty(t, c.Messages())
}

func TestLog_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(zerolog.New(&buf))

	n.Notify("Symptom name must be at least 3 characters long!")

	assert.Contains(t, buf.String(), "Symptom name must be at least 3 characters long!")
	assert.Contains(t, buf.String(), `"component":"notify"`)
}

func TestMulti_FansOut(t *testing.T) {
	a, b := NewCollector(), NewCollector()

	Multi{a, b}.Notify("hello")

	assert.Equal(t, []string{"hello"}, a.Messages())
	assert.Equal(t, []string{"hello"}, b.Messages())
}
