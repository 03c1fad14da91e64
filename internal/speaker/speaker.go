package speaker

import (
	"context"

	"github.com/crimson-sun/pennyworth/internal/model"
)

// Speaker defines the interface for prompt destinations: the voice channel,
// transcript files, connected UI clients.
type Speaker interface {
	Say(ctx context.Context, prompt model.Prompt) error
	Close() error
}
