package assistant

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"demohub/config"
	"demohub/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrincipal = &entity.Principal{Username: "alice", Access: []string{"ekm"}}

func collect(t *testing.T, chunks <-chan string, errs <-chan error) ([]string, error) {
	t.Helper()

	var out []string
	for c := range chunks {
		out = append(out, c)
	}

	return out, <-errs
}

func TestRegistry_GetAndNames(t *testing.T) {
	r := NewRegistry(NewEchoAssistant("ekm"), NewEchoAssistant("saic"), NewEchoAssistant("ekm"))

	a, ok := r.Get("ekm")
	require.True(t, ok)
	assert.Equal(t, "ekm", a.Name())

	_, ok = r.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"ekm", "saic"}, r.Names())
}

func TestNewConfiguredRegistry(t *testing.T) {
	cfg := &config.Config{Assistants: &config.AssistantsConfig{Enabled: []string{"question_generator", "image_rag"}}}

	r := NewConfiguredRegistry(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, []string{"question_generator", "image_rag"}, r.Names())

	empty := NewConfiguredRegistry(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Empty(t, empty.Names())
}

func TestEchoAssistant_Reply(t *testing.T) {
	a := NewEchoAssistant("ekm")

	out, err := a.Reply(context.Background(), testPrincipal, "what is the policy")
	require.NoError(t, err)
	assert.Equal(t, "what is the policy", out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Reply(ctx, testPrincipal, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEchoAssistant_Stream(t *testing.T) {
	a := NewEchoAssistant("ekm")

	chunkCh, errCh := a.Stream(context.Background(), testPrincipal, "  hello   streaming world ")
	chunks, err := collect(t, chunkCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello ", "streaming ", "world"}, chunks)
	assert.Equal(t, "hello streaming world", strings.Join(chunks, ""))
}

func TestEchoAssistant_StreamEmptyInput(t *testing.T) {
	chunkCh, errCh := NewEchoAssistant("ekm").Stream(context.Background(), testPrincipal, "   ")
	chunks, err := collect(t, chunkCh, errCh)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestEchoAssistant_StreamCancelled(t *testing.T) {
	a := NewEchoAssistant("ekm", WithChunkDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	chunkCh, errCh := a.Stream(ctx, testPrincipal, "one two three")
	first := <-chunkCh
	assert.Equal(t, "one ", first)
	cancel()

	rest, err := collect(t, chunkCh, errCh)
	assert.Empty(t, rest)
	assert.ErrorIs(t, err, context.Canceled)
}
