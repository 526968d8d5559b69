package middleware

import (
	"context"

	"server-warden/internal/metrics"
	"server-warden/pkg/cmd"
)

// WithMetrics counts command outcomes.
func WithMetrics() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)
			result := "ok"
			if err != nil {
				result = "error"
			}
			metrics.CommandsTotal.WithLabelValues(c.Name(), result).Inc()
			return err
		})
	}
}
