// Package conversation runs the assistant's turn loop: listen for an
// utterance, resolve it to an intent, walk the slot schema, execute the
// completed action, and speak every prompt along the way.
package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/crimson-sun/pennyworth/internal/action"
	"github.com/crimson-sun/pennyworth/internal/dialogue"
	"github.com/crimson-sun/pennyworth/internal/listener"
	"github.com/crimson-sun/pennyworth/internal/model"
	"github.com/crimson-sun/pennyworth/internal/speaker"
)

const greeting = "Welcome to your personal finance assistant."

const commandMenu = "You can say the following commands: " +
	"Log Expense, Set Budget, Check Budget, View Expenses, " +
	"Check Exchange Rate, Check Stock Price, Check Cryptocurrency Price, Exit."

// Resolver maps an utterance to an intent.
type Resolver interface {
	Resolve(text string) (model.Intent, error)
}

// Executor runs a completed Action.
type Executor interface {
	Execute(ctx context.Context, act model.Action) (model.Result, error)
}

// Config wires a Manager's collaborators.
type Config struct {
	Resolver   Resolver
	Registry   *dialogue.Registry
	Executor   Executor
	Speaker    speaker.Speaker
	Listener   listener.Listener
	MaxRetries int
}

// Manager owns one conversation: at most one dialogue session is active at a
// time, and utterances are processed strictly in order.
type Manager struct {
	resolver   Resolver
	registry   *dialogue.Registry
	exec       Executor
	speak      speaker.Speaker
	listen     listener.Listener
	maxRetries int
	log        *slog.Logger

	session *dialogue.Session
}

// New creates a conversation manager.
func New(cfg Config) *Manager {
	return &Manager{
		resolver:   cfg.Resolver,
		registry:   cfg.Registry,
		exec:       cfg.Executor,
		speak:      cfg.Speaker,
		listen:     cfg.Listener,
		maxRetries: cfg.MaxRetries,
		log:        slog.Default().With("component", "conversation"),
	}
}

// Greet speaks the welcome message and command menu.
func (m *Manager) Greet(ctx context.Context) error {
	for _, text := range []string{greeting, commandMenu} {
		err := m.speak.Say(ctx, model.Prompt{Kind: model.PromptGreeting, Text: text})
		if err != nil {
			return err
		}
	}
	return nil
}

// Run drives the conversation until the user exits or input ends.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Greet(ctx); err != nil {
		return err
	}

	for {
		text, ok, err := m.listen.Listen(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		done, err := m.Handle(ctx, text, ok)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Handle consumes one captured utterance. ok is false when capture produced
// no text. done is true once the user has exited.
func (m *Manager) Handle(ctx context.Context, text string, ok bool) (done bool, err error) {
	if ok {
		// Mirror what was heard so UI clients can display it.
		err := m.speak.Say(ctx, model.Prompt{
			SessionID: m.sessionID(),
			Kind:      model.PromptHeard,
			Text:      text,
		})
		if err != nil {
			return false, err
		}
	}

	if m.session == nil {
		return m.beginSession(ctx, text, ok)
	}

	turn, err := m.session.Offer(text, ok)
	if err != nil {
		return false, err
	}
	return m.handleTurn(ctx, turn)
}

// beginSession resolves a fresh utterance to an intent and opens a session.
func (m *Manager) beginSession(ctx context.Context, text string, ok bool) (bool, error) {
	if !ok {
		return false, m.speak.Say(ctx, model.Prompt{
			Kind: model.PromptError,
			Text: "Sorry, I did not understand that.",
		})
	}

	intent, err := m.resolver.Resolve(text)
	if err != nil {
		m.log.Warn("resolution failed", "error", err)
		return false, m.speak.Say(ctx, model.Prompt{
			Kind: model.PromptError,
			Text: "Sorry, I didn't understand that command. Please say it again.",
		})
	}

	schema, found := m.registry.Schema(intent)
	if !found {
		m.log.Warn("no schema for intent", "intent", intent)
		return false, m.speak.Say(ctx, model.Prompt{
			Kind: model.PromptError,
			Text: "Sorry, I can't handle that command yet.",
		})
	}

	m.log.Info("session started", "intent", intent, "utterance", text)
	session, turn := dialogue.Begin(uuid.NewString(), intent, schema, m.maxRetries)
	m.session = session
	return m.handleTurn(ctx, turn)
}

// handleTurn speaks the turn's prompt, executes its action, and clears the
// session once it reaches a terminal state.
func (m *Manager) handleTurn(ctx context.Context, turn dialogue.Turn) (bool, error) {
	if turn.Prompt != nil {
		if err := m.speak.Say(ctx, *turn.Prompt); err != nil {
			return false, err
		}
	}

	switch turn.State {
	case dialogue.StateAborted:
		m.log.Info("session aborted", "session", m.session.ID(), "intent", m.session.Intent())
		m.session = nil
		return false, nil

	case dialogue.StateExecuted:
		act := *turn.Action
		m.session = nil

		result, err := m.exec.Execute(ctx, act)
		if err != nil {
			m.log.Error("action failed", "session", act.SessionID, "intent", act.Intent, "error", err)
			sayErr := m.speak.Say(ctx, model.Prompt{
				SessionID: act.SessionID,
				Kind:      model.PromptError,
				Text:      action.Apology(act.Intent),
			})
			return false, sayErr
		}

		kind := model.PromptResult
		if act.Intent == model.IntentExit {
			kind = model.PromptGoodbye
		}
		err = m.speak.Say(ctx, model.Prompt{
			SessionID: act.SessionID,
			Kind:      kind,
			Text:      result.Text,
		})
		return act.Intent == model.IntentExit, err
	}

	return false, nil
}

func (m *Manager) sessionID() string {
	if m.session != nil {
		return m.session.ID()
	}
	return ""
}
