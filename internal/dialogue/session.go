package dialogue

import (
	"errors"
	"time"

	"github.com/crimson-sun/pennyworth/internal/model"
)

// ErrSessionDone is returned when input is offered to a session that has
// already reached a terminal state.
var ErrSessionDone = errors.New("dialogue: session already finished")

// State tags where a session is in its lifecycle.
type State int

const (
	// StateResolving is the initial state before an intent is attached.
	StateResolving State = iota

	// StateAwaitingSlot means the session is waiting for the value of the
	// slot at the current index.
	StateAwaitingSlot

	// StateExecuted is terminal: the session emitted its Action.
	StateExecuted

	// StateAborted is terminal: a slot exhausted its retries.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAwaitingSlot:
		return "awaiting_slot"
	case StateExecuted:
		return "executed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Turn is what a session hands back after consuming one utterance: the new
// state, an optional prompt to speak, and the Action once executed.
type Turn struct {
	State  State
	Prompt *model.Prompt
	Action *model.Action
}

// Session walks one conversation through an intent's slot schema. A session
// is owned by a single conversation and is not safe for concurrent use.
type Session struct {
	id         string
	intent     model.Intent
	schema     Schema
	slots      map[string]any
	index      int
	retries    int
	maxRetries int
	state      State
}

// Begin attaches an intent and schema to a fresh session and returns the
// first turn. Intents with an empty schema execute immediately.
func Begin(id string, intent model.Intent, schema Schema, maxRetries int) (*Session, Turn) {
	s := &Session{
		id:         id,
		intent:     intent,
		schema:     schema,
		slots:      make(map[string]any, len(schema)),
		maxRetries: maxRetries,
		state:      StateResolving,
	}

	if len(schema) == 0 {
		return s, s.execute()
	}

	s.state = StateAwaitingSlot
	return s, Turn{
		State:  s.state,
		Prompt: s.prompt(model.PromptAsk, schema[0].Prompt),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Intent returns the intent this session is collecting slots for.
func (s *Session) Intent() model.Intent { return s.intent }

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.state == StateExecuted || s.state == StateAborted
}

// Offer feeds one captured utterance to the session. ok is false when the
// capture produced no text; that counts against the retry budget just like
// an invalid value. Previously filled slots are never touched.
func (s *Session) Offer(input string, ok bool) (Turn, error) {
	if s.Done() {
		return Turn{State: s.state}, ErrSessionDone
	}

	slot := s.schema[s.index]

	if !ok || !slot.Valid(input) {
		return s.retry(slot), nil
	}

	value := any(input)
	if slot.Parse != nil {
		parsed, err := slot.Parse(input)
		if err != nil {
			return s.retry(slot), nil
		}
		value = parsed
	}

	s.slots[slot.Name] = value
	s.retries = 0
	s.index++

	if s.index == len(s.schema) {
		return s.execute(), nil
	}
	return Turn{
		State:  s.state,
		Prompt: s.prompt(model.PromptAsk, s.schema[s.index].Prompt),
	}, nil
}

// retry re-prompts for the current slot, aborting once the retry budget is
// exhausted.
func (s *Session) retry(slot Slot) Turn {
	s.retries++
	if s.retries > s.maxRetries {
		s.state = StateAborted
		return Turn{
			State:  s.state,
			Prompt: s.prompt(model.PromptError, "Sorry, I couldn't get what I needed. Let's start over."),
		}
	}
	return Turn{
		State:  s.state,
		Prompt: s.prompt(model.PromptRetry, slot.Retry),
	}
}

// execute finalizes the session and emits its single Action.
func (s *Session) execute() Turn {
	s.state = StateExecuted

	slots := make(map[string]any, len(s.slots))
	for k, v := range s.slots {
		slots[k] = v
	}

	return Turn{
		State: s.state,
		Action: &model.Action{
			SessionID: s.id,
			Intent:    s.intent,
			Slots:     slots,
			Timestamp: time.Now().UTC(),
		},
	}
}

func (s *Session) prompt(kind model.PromptKind, text string) *model.Prompt {
	return &model.Prompt{SessionID: s.id, Kind: kind, Text: text}
}
