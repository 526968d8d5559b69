package moderation

import (
	"fmt"
	"log"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/middleware"
	"server-warden/internal/storage"
)

type WarnCommand struct{}

func (c *WarnCommand) Name() string        { return "warn" }
func (c *WarnCommand) Description() string { return "Warn mentioned users" }
func (c *WarnCommand) Category() string    { return category }
func (c *WarnCommand) Roles() []string     { return command.ModeratorRoles }

func (c *WarnCommand) Run(ctx *command.MessageContext) error {
	if len(ctx.Message.Mentions) == 0 {
		return usage(ctx, c.Name())
	}

	reason := reasonFrom(ctx.Args)
	threshold := 0
	if ctx.Config != nil {
		threshold = ctx.Config.WarnBanThreshold
	}

	for _, user := range ctx.Message.Mentions {
		count, err := ctx.Storage.AddWarning(ctx.Message.GuildID, storage.Warning{
			UserID:   user.ID,
			Username: user.Username,
			WarnedBy: authorName(ctx),
			Reason:   reason,
			Date:     time.Now(),
		})
		if err != nil {
			return fmt.Errorf("record warning for %s: %w", user.ID, err)
		}

		log.Printf("[INFO] %s warned %s (%d warnings)", authorName(ctx), user.Username, count)
		if err := ctx.Send(fmt.Sprintf("%s You have been warned. Additional infractions may result in a ban.", user.Mention())); err != nil {
			return err
		}
		ctx.LogToChannel(fmt.Sprintf("%s has warned %s [%d warnings]. Reason: %s", authorMention(ctx), user.Mention(), count, orNone(reason)))

		if threshold > 0 && count >= threshold {
			if err := ctx.Send(fmt.Sprintf("%sban %s", ctx.Prefix(), user.Mention())); err != nil {
				return err
			}
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none given"
	}
	return s
}

func init() {
	command.RegisterCommand(&WarnCommand{}, middleware.Defaults()...)
}
