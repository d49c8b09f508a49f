package assistant

import (
	"context"
	"strings"
	"time"

	"demohub/internal/domain/entity"
	"demohub/internal/domain/service"
)

// EchoAssistant answers with the caller's own input. It stands in for the
// retrieval and generation backends, which live outside this service.
type EchoAssistant struct {
	name  string
	delay time.Duration
}

var _ service.Assistant = (*EchoAssistant)(nil)

// Option configures an EchoAssistant.
type Option func(*EchoAssistant)

// WithChunkDelay pauses between streamed chunks.
func WithChunkDelay(d time.Duration) Option {
	return func(a *EchoAssistant) {
		a.delay = d
	}
}

func NewEchoAssistant(name string, opts ...Option) *EchoAssistant {
	a := &EchoAssistant{name: name}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *EchoAssistant) Name() string {
	return a.name
}

func (a *EchoAssistant) Reply(ctx context.Context, principal *entity.Principal, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return input, nil
}

// Stream sends the input back one word at a time, each followed by a space
// except the last.
func (a *EchoAssistant) Stream(ctx context.Context, principal *entity.Principal, input string) (<-chan string, <-chan error) {
	chunks := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		words := strings.Fields(input)
		for i, word := range words {
			if i < len(words)-1 {
				word += " "
			}

			if a.delay > 0 && i > 0 {
				timer := time.NewTimer(a.delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					errs <- ctx.Err()

					return
				case <-timer.C:
				}
			}

			select {
			case <-ctx.Done():
				errs <- ctx.Err()

				return
			case chunks <- word:
			}
		}
	}()

	return chunks, errs
}
