// Package assistant holds the assistant collaborators exposed through the API.
package assistant

import (
	"log/slog"
	"slices"

	"demohub/config"
	"demohub/internal/domain/service"
)

// Registry maps assistant names to implementations. It is built once at
// startup and only read afterwards.
type Registry struct {
	byName map[string]service.Assistant
	names  []string
}

var _ service.AssistantRegistry = (*Registry)(nil)

// NewRegistry indexes assistants by Name. A later assistant with the same
// name replaces an earlier one.
func NewRegistry(assistants ...service.Assistant) *Registry {
	r := &Registry{byName: make(map[string]service.Assistant, len(assistants))}
	for _, a := range assistants {
		if _, exists := r.byName[a.Name()]; !exists {
			r.names = append(r.names, a.Name())
		}
		r.byName[a.Name()] = a
	}

	return r
}

// NewConfiguredRegistry registers an echo assistant under every name in
// assistants.enabled.
func NewConfiguredRegistry(cfg *config.Config, logger *slog.Logger) service.AssistantRegistry {
	var names []string
	if cfg != nil && cfg.Assistants != nil {
		names = cfg.Assistants.Enabled
	}

	assistants := make([]service.Assistant, 0, len(names))
	for _, name := range names {
		assistants = append(assistants, NewEchoAssistant(name))
	}

	logger.Info("Assistants registered", slog.Any("names", names))

	return NewRegistry(assistants...)
}

func (r *Registry) Get(name string) (service.Assistant, bool) {
	a, ok := r.byName[name]

	return a, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
