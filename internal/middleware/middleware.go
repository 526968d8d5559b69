package middleware

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"server-warden/internal/command"
	"server-warden/pkg/cmd"
)

// WithRecover turns a panic inside a command into an error so one broken
// handler cannot take the process down.
func WithRecover() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[ERR] Command %s panicked: %v\n%s", c.Name(), r, debug.Stack())
					err = fmt.Errorf("command %s panicked: %v", c.Name(), r)
				}
			}()
			return c.Run(ctx, inv)
		})
	}
}

// WithGuildOnly ignores invocations that did not come from a guild channel.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if v, ok := inv.Data.(*command.MessageContext); ok && v.Message.GuildID == "" {
				log.Printf("[DEBUG] Ignoring %s outside of a guild", c.Name())
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}

// Defaults is the middleware stack every message command is registered with.
func Defaults() []cmd.Middleware {
	return []cmd.Middleware{
		WithRecover(),
		WithGuildOnly(),
		WithCommandHistory(),
		WithMetrics(),
	}
}
