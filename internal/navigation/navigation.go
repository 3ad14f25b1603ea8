// Package navigation models moving between the summary and the section editors.
package navigation

import (
	"errors"
	"sync"

	"github.com/WailSalutem-Health-Care/health-record-editor/internal/record"
)

// ScreenID names a screen that can be navigated to.
type ScreenID string

const (
	ScreenSummary     ScreenID = "summary"
	ScreenEditSection ScreenID = "edit-section"
)

var ErrNoHistory = errors.New("no previous screen")

// Params travel with a navigation. Editors read their data from the store,
// so only the section identifier is passed.
type Params struct {
	Section record.Section `json:"section,omitempty"`
}

// Navigator is the capability the core needs from the surrounding shell.
type Navigator interface {
	NavigateTo(screen ScreenID, params Params) error
	GoBack() error
}

// Screen is one entry in the navigation history.
type Screen struct {
	ID     ScreenID `json:"id"`
	Params Params   `json:"params"`
}

// Stack is an in-process Navigator that keeps screen history.
type Stack struct {
	mu      sync.RWMutex
	history []Screen
}

// Ensure Stack implements Navigator
var _ Navigator = (*Stack)(nil)

// NewStack creates a stack rooted at root.
func NewStack(root ScreenID) *Stack {
	return &Stack{history: []Screen{{ID: root}}}
}

func (s *Stack) NavigateTo(screen ScreenID, params Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Screen{ID: screen, Params: params})
	return nil
}

func (s *Stack) GoBack() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) <= 1 {
		return ErrNoHistory
	}
	s.history = s.history[:len(s.history)-1]
	return nil
}

// Current returns the screen on top of the stack.
func (s *Stack) Current() Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[len(s.history)-1]
}

// Depth is the number of screens in the history.
func (s *Stack) Depth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
