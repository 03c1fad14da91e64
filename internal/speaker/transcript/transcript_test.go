package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/pennyworth/internal/model"
)

func TestSayAppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.ndjson")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prompts := []model.Prompt{
		{SessionID: "s-1", Kind: model.PromptGreeting, Text: "Welcome."},
		{SessionID: "s-1", Kind: model.PromptAsk, Text: "Enter the amount."},
	}
	for _, p := range prompts {
		if err := s.Say(context.Background(), p); err != nil {
			t.Fatalf("Say failed: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open transcript: %v", err)
	}
	defer f.Close()

	var lines []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad NDJSON line: %v", err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "Welcome." || lines[0].Kind != model.PromptGreeting {
		t.Errorf("first line = %+v", lines[0])
	}
	if lines[1].SessionID != "s-1" {
		t.Errorf("session id = %q", lines[1].SessionID)
	}
	if lines[0].Time.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.ndjson")
	s, err := New(path, WithMaxSize(200), WithBufSize(16))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		err := s.Say(context.Background(), model.Prompt{
			Kind: model.PromptResult,
			Text: "a reasonably long transcript line to force rotation",
		})
		if err != nil {
			t.Fatalf("Say failed: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated file missing: %v", err)
	}
}

func TestAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.ndjson")

	for i := 0; i < 2; i++ {
		s, err := New(path)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := s.Say(context.Background(), model.Prompt{Text: "line"}); err != nil {
			t.Fatalf("Say failed: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	count := 0
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d lines, want 2", count)
	}
}
