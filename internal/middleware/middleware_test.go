package middleware

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"server-warden/internal/command"
	"server-warden/internal/metrics"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvocation(guildID string, store *storage.Storage) *cmd.Invocation {
	return &cmd.Invocation{
		Name: "probe",
		Data: &command.MessageContext{
			Message: &discordgo.Message{
				ChannelID: "c1",
				GuildID:   guildID,
				Content:   ".probe",
				Author:    &discordgo.User{ID: "u1", Username: "alice"},
			},
			Storage: store,
		},
	}
}

func probe(fn func() error) cmd.Command {
	return &cmd.Func{CommandName: "probe", Fn: func(context.Context, *cmd.Invocation) error { return fn() }}
}

func TestWithRecover(t *testing.T) {
	c := cmd.Apply(probe(func() error { panic("boom") }), WithRecover())

	var err error
	assert.NotPanics(t, func() { err = c.Run(context.Background(), newInvocation("g1", nil)) })
	assert.ErrorContains(t, err, "panicked")
}

func TestWithGuildOnly(t *testing.T) {
	calls := 0
	c := cmd.Apply(probe(func() error { calls++; return nil }), WithGuildOnly())

	assert.NoError(t, c.Run(context.Background(), newInvocation("", nil)))
	assert.Zero(t, calls)
	assert.NoError(t, c.Run(context.Background(), newInvocation("g1", nil)))
	assert.Equal(t, 1, calls)
}

func TestWithCommandHistory(t *testing.T) {
	assert := assert.New(t)
	store, err := storage.New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	defer store.Close()

	ok := cmd.Apply(probe(func() error { return nil }), WithCommandHistory())
	failing := cmd.Apply(probe(func() error { return errors.New("nope") }), WithCommandHistory())

	assert.NoError(ok.Run(context.Background(), newInvocation("g1", store)))
	assert.Error(failing.Run(context.Background(), newInvocation("g1", store)))

	history, err := store.CommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal("probe", history[0].Command)
	assert.Equal("alice", history[0].Username)
	assert.Equal(".probe", history[0].Content)
}

func TestWithMetrics(t *testing.T) {
	c := cmd.Apply(probe(func() error { return errors.New("nope") }), WithMetrics())
	before := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("probe", "error"))

	assert.Error(t, c.Run(context.Background(), newInvocation("g1", nil)))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues("probe", "error")))
}

func TestDefaultsOrder(t *testing.T) {
	assert.Len(t, Defaults(), 4)
}
