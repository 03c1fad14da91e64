package stdout

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/pennyworth/internal/model"
)

// Speaker writes prompt text to stdout, the assistant's voice channel.
type Speaker struct {
	w io.Writer
}

// New creates a stdout Speaker.
func New() *Speaker {
	return &Speaker{w: os.Stdout}
}

// NewWriter creates a Speaker over an arbitrary writer.
func NewWriter(w io.Writer) *Speaker {
	return &Speaker{w: w}
}

// Say writes the prompt text as one line. Heard echoes are skipped: the
// voice channel never repeats the user's own words, only UI mirrors do.
func (s *Speaker) Say(_ context.Context, prompt model.Prompt) error {
	if prompt.Kind == model.PromptHeard {
		return nil
	}
	if _, err := fmt.Fprintln(s.w, prompt.Text); err != nil {
		return fmt.Errorf("stdout speaker: %w", err)
	}
	return nil
}

func (s *Speaker) Close() error {
	return nil
}
