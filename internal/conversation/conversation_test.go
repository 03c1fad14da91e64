package conversation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/crimson-sun/pennyworth/internal/dialogue"
	"github.com/crimson-sun/pennyworth/internal/model"
)

type fakeResolver struct {
	intents map[string]model.Intent
}

func (r *fakeResolver) Resolve(text string) (model.Intent, error) {
	intent, ok := r.intents[strings.ToLower(text)]
	if !ok {
		return "", errors.New("no match")
	}
	return intent, nil
}

type fakeExecutor struct {
	actions []model.Action
	err     error
}

func (e *fakeExecutor) Execute(_ context.Context, act model.Action) (model.Result, error) {
	e.actions = append(e.actions, act)
	if e.err != nil {
		return model.Result{}, e.err
	}
	if act.Intent == model.IntentExit {
		return model.Result{Text: "Goodbye!"}, nil
	}
	return model.Result{Text: "done: " + string(act.Intent)}, nil
}

type recordingSpeaker struct {
	prompts []model.Prompt
}

func (s *recordingSpeaker) Say(_ context.Context, p model.Prompt) error {
	s.prompts = append(s.prompts, p)
	return nil
}

func (s *recordingSpeaker) Close() error { return nil }

// scriptedListener replays a fixed sequence of captures, then reports EOF.
type scriptedListener struct {
	turns []capture
	next  int
}

type capture struct {
	text string
	ok   bool
}

func (l *scriptedListener) Listen(_ context.Context) (string, bool, error) {
	if l.next >= len(l.turns) {
		return "", false, io.EOF
	}
	c := l.turns[l.next]
	l.next++
	return c.text, c.ok, nil
}

func newTestManager(exec *fakeExecutor, spoke *recordingSpeaker, turns []capture) *Manager {
	return New(Config{
		Resolver: &fakeResolver{intents: map[string]model.Intent{
			"log an expense":      model.IntentLogExpense,
			"what is my budget":   model.IntentCheckBudget,
			"analyze my finances": model.IntentFinancialAnalysis,
			"exit":                model.IntentExit,
		}},
		Registry:   dialogue.NewRegistry([]string{"groceries", "transport"}),
		Executor:   exec,
		Speaker:    spoke,
		Listener:   &scriptedListener{turns: turns},
		MaxRetries: 2,
	})
}

func kinds(prompts []model.Prompt) []model.PromptKind {
	out := make([]model.PromptKind, len(prompts))
	for i, p := range prompts {
		out[i] = p.Kind
	}
	return out
}

func TestRunFullExpenseDialogue(t *testing.T) {
	exec := &fakeExecutor{}
	spoke := &recordingSpeaker{}
	m := newTestManager(exec, spoke, []capture{
		{"log an expense", true},
		{"groceries", true},
		{"45.50", true},
		{"march", true},
		{"exit", true},
	})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(exec.actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(exec.actions))
	}
	act := exec.actions[0]
	if act.Intent != model.IntentLogExpense {
		t.Errorf("intent = %q", act.Intent)
	}
	if act.Slots["category"] != "groceries" || act.Slots["amount"] != 45.50 || act.Slots["month"] != "march" {
		t.Errorf("slots = %v", act.Slots)
	}
	if act.SessionID == "" {
		t.Error("missing session id")
	}
	if exec.actions[1].Intent != model.IntentExit {
		t.Errorf("second action = %q", exec.actions[1].Intent)
	}

	last := spoke.prompts[len(spoke.prompts)-1]
	if last.Kind != model.PromptGoodbye || last.Text != "Goodbye!" {
		t.Errorf("final prompt = %+v", last)
	}
}

func TestRunGreetsFirst(t *testing.T) {
	spoke := &recordingSpeaker{}
	m := newTestManager(&fakeExecutor{}, spoke, nil)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(spoke.prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(spoke.prompts))
	}
	for _, p := range spoke.prompts {
		if p.Kind != model.PromptGreeting {
			t.Errorf("prompt kind = %q", p.Kind)
		}
	}
	if !strings.Contains(spoke.prompts[1].Text, "Log Expense") {
		t.Errorf("menu text = %q", spoke.prompts[1].Text)
	}
}

func TestHandleUnresolvedUtterance(t *testing.T) {
	spoke := &recordingSpeaker{}
	m := newTestManager(&fakeExecutor{}, spoke, nil)

	done, err := m.Handle(context.Background(), "make me a sandwich", true)
	if err != nil || done {
		t.Fatalf("got (%v, %v)", done, err)
	}

	got := kinds(spoke.prompts)
	if len(got) != 2 || got[0] != model.PromptHeard || got[1] != model.PromptError {
		t.Fatalf("prompt kinds = %v", got)
	}
	if !strings.Contains(spoke.prompts[1].Text, "didn't understand") {
		t.Errorf("error text = %q", spoke.prompts[1].Text)
	}
}

func TestHandleSilenceOutsideSession(t *testing.T) {
	spoke := &recordingSpeaker{}
	m := newTestManager(&fakeExecutor{}, spoke, nil)

	done, err := m.Handle(context.Background(), "", false)
	if err != nil || done {
		t.Fatalf("got (%v, %v)", done, err)
	}
	if len(spoke.prompts) != 1 || spoke.prompts[0].Kind != model.PromptError {
		t.Fatalf("prompts = %+v", spoke.prompts)
	}
}

func TestHandleRetriesThenAborts(t *testing.T) {
	exec := &fakeExecutor{}
	spoke := &recordingSpeaker{}
	m := newTestManager(exec, spoke, nil)
	ctx := context.Background()

	if _, err := m.Handle(ctx, "log an expense", true); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := m.Handle(ctx, "skydiving", true); err != nil {
			t.Fatalf("retry %d failed: %v", i, err)
		}
	}

	if len(exec.actions) != 0 {
		t.Fatalf("executed %d actions, want 0", len(exec.actions))
	}
	last := spoke.prompts[len(spoke.prompts)-1]
	if last.Kind != model.PromptError {
		t.Errorf("final prompt kind = %q", last.Kind)
	}

	// The manager must accept a fresh command after the abort.
	if _, err := m.Handle(ctx, "analyze my finances", true); err != nil {
		t.Fatalf("Handle after abort failed: %v", err)
	}
	if len(exec.actions) != 1 || exec.actions[0].Intent != model.IntentFinancialAnalysis {
		t.Fatalf("actions after abort = %+v", exec.actions)
	}
}

func TestHandleEmptySchemaExecutesImmediately(t *testing.T) {
	exec := &fakeExecutor{}
	spoke := &recordingSpeaker{}
	m := newTestManager(exec, spoke, nil)

	done, err := m.Handle(context.Background(), "analyze my finances", true)
	if err != nil || done {
		t.Fatalf("got (%v, %v)", done, err)
	}
	if len(exec.actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(exec.actions))
	}
	last := spoke.prompts[len(spoke.prompts)-1]
	if last.Kind != model.PromptResult {
		t.Errorf("final prompt = %+v", last)
	}
}

func TestHandleExecutionFailureApologizes(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("db is gone")}
	spoke := &recordingSpeaker{}
	m := newTestManager(exec, spoke, nil)
	ctx := context.Background()

	for _, text := range []string{"what is my budget", "march"} {
		if _, err := m.Handle(ctx, text, true); err != nil {
			t.Fatalf("Handle(%q) failed: %v", text, err)
		}
	}

	last := spoke.prompts[len(spoke.prompts)-1]
	if last.Kind != model.PromptError {
		t.Fatalf("final prompt = %+v", last)
	}
	if last.Text == "" {
		t.Error("apology text empty")
	}

	// Session is cleared; the next utterance starts a new command.
	if m.session != nil {
		t.Error("session not cleared after failure")
	}
}

func TestHandleExitEndsConversation(t *testing.T) {
	spoke := &recordingSpeaker{}
	m := newTestManager(&fakeExecutor{}, spoke, nil)

	done, err := m.Handle(context.Background(), "exit", true)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !done {
		t.Fatal("done = false, want true")
	}
	last := spoke.prompts[len(spoke.prompts)-1]
	if last.Kind != model.PromptGoodbye {
		t.Errorf("final prompt = %+v", last)
	}
}
