package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/pennyworth/internal/model"
	"github.com/crimson-sun/pennyworth/internal/speaker"
)

// Multi fans out prompts to multiple speaker.Speaker implementations.
// Each Say call delivers the prompt to every wrapped speaker sequentially.
// If one speaker fails, the remaining speakers still receive the prompt.
type Multi struct {
	speakers []speaker.Speaker
}

// New creates a Multi that fans out to the given speakers.
func New(speakers ...speaker.Speaker) *Multi {
	return &Multi{speakers: speakers}
}

// Say delivers the prompt to every wrapped speaker. Errors are collected
// but do not prevent delivery to subsequent speakers.
func (m *Multi) Say(ctx context.Context, prompt model.Prompt) error {
	var errs []error
	for _, s := range m.speakers {
		if err := s.Say(ctx, prompt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on every wrapped speaker, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.speakers {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
