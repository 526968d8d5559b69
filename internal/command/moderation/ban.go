package moderation

import (
	"fmt"
	"log"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/middleware"
	"server-warden/internal/storage"
)

type BanCommand struct{}

func (c *BanCommand) Name() string        { return "ban" }
func (c *BanCommand) Description() string { return "Ban mentioned users" }
func (c *BanCommand) Category() string    { return category }
func (c *BanCommand) Roles() []string     { return command.ModeratorRoles }

func (c *BanCommand) Run(ctx *command.MessageContext) error {
	if len(ctx.Message.Mentions) == 0 {
		return usage(ctx, c.Name())
	}

	guildID := ctx.Message.GuildID
	reason := reasonFrom(ctx.Args)

	for _, user := range ctx.Message.Mentions {
		warnings, err := ctx.Storage.Warnings(guildID, user.ID)
		if err != nil {
			return fmt.Errorf("load warnings for %s: %w", user.ID, err)
		}

		auditReason := reason
		if auditReason == "" {
			auditReason = fmt.Sprintf("Banned by %s after %d warning(s)", authorName(ctx), len(warnings))
		}
		if err := ctx.Client.GuildBanCreateWithReason(guildID, user.ID, auditReason, 0); err != nil {
			return fmt.Errorf("ban %s: %w", user.ID, err)
		}

		if err := ctx.Storage.AddBan(guildID, storage.Ban{
			UserID:       user.ID,
			Username:     user.Username,
			BannedBy:     authorName(ctx),
			Reason:       reason,
			WarningCount: len(warnings),
			Date:         time.Now(),
		}); err != nil {
			log.Printf("[WARN] Failed to record ban of %s: %v", user.ID, err)
		}

		log.Printf("[INFO] %s banned %s", authorName(ctx), user.Username)
		if err := ctx.Send(fmt.Sprintf("%s has been banned.", user.Mention())); err != nil {
			return err
		}
		ctx.LogToChannel(fmt.Sprintf("%s has banned %s [%d warnings]. Reason: %s", authorMention(ctx), user.Mention(), len(warnings), orNone(reason)))
	}
	return nil
}

func init() {
	command.RegisterCommand(&BanCommand{}, middleware.Defaults()...)
}
