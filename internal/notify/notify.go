// Package notify surfaces messages to the person using the app.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Notifier shows a message to the user. Implementations must not block the caller
// for longer than it takes to hand the message over.
type Notifier interface {
	Notify(message string)
}

// Log writes notifications to a zerolog logger. It is the notifier used when
// no interactive surface is attached.
type Log struct {
	logger zerolog.Logger
}

// NewLog creates a Log notifier.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "notify").Logger()}
}

func (l *Log) Notify(message string) {
	l.logger.Warn().Str("message", message).Msg("user notification")
}

// Collector keeps notifications in memory until they are drained. The screen
// host hands them to the shell with its next response.
type Collector struct {
	mu       sync.Mutex
	messages []string
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Notify(message string) {
	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()
}

// Messages returns a copy of the pending notifications.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}

// Drain returns the pending notifications and clears them.
func (c *Collector) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.messages
	c.messages = nil
	return out
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(message string) {
	for _, n := range m {
		n.Notify(message)
	}
}
