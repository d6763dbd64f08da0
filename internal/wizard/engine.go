// Package wizard sequences the intake flow: an ordered step table with
// per-step gates and conditional skips over a single accumulating form.
package wizard

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/remedytax/intake-engine/internal/model"
)

// ErrTerminalStep is returned when Next is called on a step that navigation
// cannot leave (payment is driven by its own handler; Confirmation is final).
var ErrTerminalStep = errors.New("step cannot be advanced")

// Engine is the step sequencer. It owns no session state; callers pass the
// session's form and current step id.
type Engine struct {
	steps []Step
	index map[model.StepID]int
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine clock, used by date-sensitive gates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds the engine with the full step table.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	e.steps = stepTable(func() time.Time { return e.now() })
	e.index = make(map[model.StepID]int, len(e.steps))
	for i, s := range e.steps {
		e.index[s.ID] = i
	}
	return e
}

// First returns the entry step of a fresh session.
func (e *Engine) First() model.StepID {
	return e.steps[0].ID
}

// Gate re-evaluates the given step's gate against the form. The UI uses this
// to decide whether Next is enabled, fresh on every form change.
func (e *Engine) Gate(id model.StepID, f *model.FormState) ([]model.Message, error) {
	i, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("unknown step %q", id)
	}
	return e.steps[i].Gate(f), nil
}

// Next merges the raw patch into the form and, when the step's gate produces
// no blocking message, advances to the next non-skipped step. The returned
// step id is the session's new current step; on a blocked submission it is
// unchanged and the messages explain why.
func (e *Engine) Next(current model.StepID, f *model.FormState, raw json.RawMessage) (model.StepID, []model.Message, error) {
	i, ok := e.index[current]
	if !ok {
		return current, nil, fmt.Errorf("unknown step %q", current)
	}
	step := e.steps[i]
	if step.ID == model.StepPaymentCollection || step.ID == model.StepConfirmation {
		return current, nil, ErrTerminalStep
	}

	applyMsgs, err := step.Apply(f, raw)
	if err != nil {
		return current, nil, err
	}
	msgs := append(applyMsgs, step.Gate(f)...)
	if model.HasBlocking(msgs) {
		return current, msgs, nil
	}

	for j := i + 1; j < len(e.steps); j++ {
		next := e.steps[j]
		if next.Skip != nil && next.Skip(f) {
			continue
		}
		return next.ID, msgs, nil
	}
	return current, nil, ErrTerminalStep
}

// Previous retreats exactly one non-skipped step. The form is untouched, so
// re-advancing shows previously entered values.
func (e *Engine) Previous(current model.StepID, f *model.FormState) (model.StepID, error) {
	i, ok := e.index[current]
	if !ok {
		return current, fmt.Errorf("unknown step %q", current)
	}
	for j := i - 1; j >= 0; j-- {
		prev := e.steps[j]
		if prev.Skip != nil && prev.Skip(f) {
			continue
		}
		return prev.ID, nil
	}
	return current, errors.New("already at the first step")
}
