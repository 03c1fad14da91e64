package stdout

import (
	"bytes"
	"context"
	"testing"

	"github.com/crimson-sun/pennyworth/internal/model"
)

func TestSayWritesText(t *testing.T) {
	var buf bytes.Buffer
	s := &Speaker{w: &buf}

	err := s.Say(context.Background(), model.Prompt{
		Kind: model.PromptAsk,
		Text: "Enter the amount.",
	})
	if err != nil {
		t.Fatalf("Say failed: %v", err)
	}
	if got := buf.String(); got != "Enter the amount.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSaySkipsHeardEcho(t *testing.T) {
	var buf bytes.Buffer
	s := &Speaker{w: &buf}

	err := s.Say(context.Background(), model.Prompt{
		Kind: model.PromptHeard,
		Text: "log an expense",
	})
	if err != nil {
		t.Fatalf("Say failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("heard echo written to voice channel: %q", buf.String())
	}
}
