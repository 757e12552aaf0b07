package forms

import (
	"sync"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(prompt string) (bool, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(prompt string) (bool, error)

func (f PromptFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Guard gates actions that would throw away unsaved changes.
type Guard struct {
	mu       sync.Mutex
	dirty    bool
	tracker  func() bool
	prompter Prompter
}

// NewGuard builds a guard. tracker, when set, is consulted in addition to the
// flag managed by SetDirty.
func NewGuard(prompter Prompter, tracker func() bool) *Guard {
	return &Guard{prompter: prompter, tracker: tracker}
}

func (g *Guard) SetDirty(dirty bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dirty = dirty
}

func (g *Guard) Dirty() bool {
	g.mu.Lock()
	dirty := g.dirty
	g.mu.Unlock()
	if dirty {
		return true
	}
	return g.tracker != nil && g.tracker()
}

// Confirm runs action directly when clean. When dirty the prompter is asked
// first and action only runs on a yes. ran reports whether action ran.
func (g *Guard) Confirm(action func() error, prompt string) (ran bool, err error) {
	if g.Dirty() {
		if prompt == "" {
			prompt = "You have unsaved changes. Leave anyway?"
		}
		if g.prompter == nil {
			return false, nil
		}
		ok, err := g.prompter.Confirm(prompt)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, action()
}
