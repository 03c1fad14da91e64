// Package listener captures user utterances. The core treats capture as a
// black box that may come back empty on any turn.
package listener

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Listener captures one utterance per call. ok is false when the turn
// produced no usable text (silence, recognition failure).
type Listener interface {
	Listen(ctx context.Context) (text string, ok bool, err error)
}

// Stdin reads one utterance per line from an input stream.
type Stdin struct {
	scanner *bufio.Scanner
}

// NewStdin creates a listener over standard input.
func NewStdin() *Stdin {
	return New(os.Stdin)
}

// New creates a listener over an arbitrary input stream.
func New(r io.Reader) *Stdin {
	return &Stdin{scanner: bufio.NewScanner(r)}
}

// Listen blocks for the next line. A blank line counts as no input. The
// stream ending returns io.EOF.
func (s *Stdin) Listen(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("listener: %w", err)
		}
		return "", false, io.EOF
	}

	text := strings.TrimSpace(s.scanner.Text())
	if text == "" {
		return "", false, nil
	}
	return text, true, nil
}
