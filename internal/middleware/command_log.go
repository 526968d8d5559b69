package middleware

import (
	"context"
	"log"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"
)

// WithCommandHistory records every successful command in the guild's history.
func WithCommandHistory() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)
			if err != nil {
				return err
			}

			v, ok := inv.Data.(*command.MessageContext)
			if !ok || v.Storage == nil || v.Message.GuildID == "" || v.Message.Author == nil {
				return nil
			}
			rec := storage.CommandRecord{
				ChannelID: v.Message.ChannelID,
				UserID:    v.Message.Author.ID,
				Username:  v.Message.Author.Username,
				Command:   inv.Name,
				Content:   v.Message.Content,
				Datetime:  time.Now(),
			}
			if e := v.Storage.AppendCommand(v.Message.GuildID, rec); e != nil {
				log.Printf("[WARN] Failed to log command %s: %v", c.Name(), e)
			}
			return nil
		})
	}
}
