package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/pennyworth/internal/model"
	"github.com/crimson-sun/pennyworth/internal/speaker"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner speaker's Say fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Say return immediately (dropping the prompt) when the
// buffer is full, instead of blocking. Use for speakers where lossiness is
// acceptable (e.g., a UI mirror that can miss a line).
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async decouples prompt production from delivery via a buffered channel.
// The conversation writes into the channel; a background goroutine drains it
// to the wrapped speaker. Errors from the inner speaker are passed to errFunc
// rather than propagated to the caller.
type Async struct {
	inner      speaker.Speaker
	ch         chan model.Prompt
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool
	closeOnce  sync.Once
}

// New wraps a speaker.Speaker in an async channel-based writer.
// The background drain goroutine starts immediately.
func New(inner speaker.Speaker, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async speaker error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.Prompt, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Say sends the prompt into the channel. By default, blocks if the channel
// is full (backpressure). With WithDropOnFull, returns nil immediately and
// the prompt is lost.
func (a *Async) Say(_ context.Context, prompt model.Prompt) error {
	if a.dropOnFull {
		select {
		case a.ch <- prompt:
		default:
			slog.Warn("async speaker buffer full, dropping prompt",
				"session", prompt.SessionID, "kind", prompt.Kind)
		}
		return nil
	}
	a.ch <- prompt
	return nil
}

// Close closes the channel, waits for the drain goroutine to finish
// (with a timeout), then closes the inner speaker.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("async speaker drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

// drain reads prompts from the channel and hands them to the inner speaker.
func (a *Async) drain() {
	defer close(a.done)
	for prompt := range a.ch {
		if err := a.inner.Say(context.Background(), prompt); err != nil {
			a.errFunc(err)
		}
	}
}
