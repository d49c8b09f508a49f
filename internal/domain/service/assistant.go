package service

import (
	"context"

	"demohub/internal/domain/entity"
)

// Assistant is a feature collaborator reached through the authenticated API.
// It only ever sees the caller's Principal, never credentials or tokens.
type Assistant interface {
	// Name is the route name and the capability string gating the assistant.
	Name() string

	// Reply answers a single request with a complete text.
	Reply(ctx context.Context, principal *entity.Principal, input string) (string, error)

	// Stream answers with a sequence of text chunks. The chunk channel is
	// closed when the answer is complete; at most one error is sent.
	Stream(ctx context.Context, principal *entity.Principal, input string) (<-chan string, <-chan error)
}

// AssistantRegistry resolves assistants by name.
type AssistantRegistry interface {
	Get(name string) (Assistant, bool)
	Names() []string
}
