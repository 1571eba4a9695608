package confirm

import (
	"context"
	"errors"
	"sync"
)

// ErrConfirmationPending is returned when a confirmation is requested while
// an earlier one is still unresolved. Only one confirmation may be
// outstanding at a time; silently replacing the pending resolver would lose
// the first caller's answer.
var ErrConfirmationPending = errors.New("a confirmation request is already pending")

// Prompt describes what the user is being asked to confirm.
type Prompt struct {
	Title   string
	ChainID string
	Details map[string]string
}

// Gate is a single-slot user-confirmation gate. The executing pipeline
// calls Request and blocks; the UI observes the pending prompt and resolves
// it exactly once with Approve or Reject.
type Gate struct {
	mu      sync.Mutex
	pending chan bool
	prompt  *Prompt

	// OnPrompt, when set, is invoked with each new prompt. The CLI uses it
	// to render the confirmation question.
	OnPrompt func(Prompt)
}

// NewGate creates an idle gate.
func NewGate() *Gate {
	return &Gate{}
}

// Request asks the user to confirm and blocks until Approve, Reject, or
// context cancellation. Returns true only on explicit approval.
func (g *Gate) Request(ctx context.Context, prompt Prompt) (bool, error) {
	g.mu.Lock()
	if g.pending != nil {
		g.mu.Unlock()
		return false, ErrConfirmationPending
	}
	ch := make(chan bool, 1)
	g.pending = ch
	g.prompt = &prompt
	onPrompt := g.OnPrompt
	g.mu.Unlock()

	if onPrompt != nil {
		onPrompt(prompt)
	}

	select {
	case approved := <-ch:
		return approved, nil
	case <-ctx.Done():
		g.clear()
		return false, ctx.Err()
	}
}

// Pending returns the prompt currently awaiting an answer, if any.
func (g *Gate) Pending() *Prompt {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompt
}

// Approve resolves the pending request affirmatively.
func (g *Gate) Approve() {
	g.resolve(true)
}

// Reject resolves the pending request negatively.
func (g *Gate) Reject() {
	g.resolve(false)
}

func (g *Gate) resolve(approved bool) {
	g.mu.Lock()
	ch := g.pending
	g.pending = nil
	g.prompt = nil
	g.mu.Unlock()

	if ch != nil {
		ch <- approved
	}
}

func (g *Gate) clear() {
	g.mu.Lock()
	g.pending = nil
	g.prompt = nil
	g.mu.Unlock()
}
