package moderation

import (
	"fmt"

	"server-warden/internal/command"
	"server-warden/internal/middleware"

	"github.com/bwmarrin/discordgo"
)

type WarningsCommand struct{}

func (c *WarningsCommand) Name() string        { return "warnings" }
func (c *WarningsCommand) Description() string { return "Show how many warnings a user has" }
func (c *WarningsCommand) Category() string    { return category }
func (c *WarningsCommand) Roles() []string     { return nil }

func (c *WarningsCommand) Run(ctx *command.MessageContext) error {
	users := ctx.Message.Mentions
	if len(users) == 0 && ctx.Message.Author != nil {
		users = []*discordgo.User{ctx.Message.Author}
	}

	for _, user := range users {
		warnings, err := ctx.Storage.Warnings(ctx.Message.GuildID, user.ID)
		if err != nil {
			return fmt.Errorf("load warnings for %s: %w", user.ID, err)
		}
		if err := ctx.Send(fmt.Sprintf("%s, %s has %d warning(s).", authorMention(ctx), user.Mention(), len(warnings))); err != nil {
			return err
		}
	}
	return nil
}

type ClearWarningsCommand struct{}

func (c *ClearWarningsCommand) Name() string        { return "clearwarnings" }
func (c *ClearWarningsCommand) Description() string { return "Clear the warnings of mentioned users" }
func (c *ClearWarningsCommand) Category() string    { return category }
func (c *ClearWarningsCommand) Roles() []string     { return command.ModeratorRoles }

func (c *ClearWarningsCommand) Run(ctx *command.MessageContext) error {
	if len(ctx.Message.Mentions) == 0 {
		return usage(ctx, c.Name())
	}

	for _, user := range ctx.Message.Mentions {
		removed, err := ctx.Storage.ClearWarnings(ctx.Message.GuildID, user.ID)
		if err != nil {
			return fmt.Errorf("clear warnings for %s: %w", user.ID, err)
		}
		if err := ctx.Send(fmt.Sprintf("%s, cleared %d warning(s) for %s.", authorMention(ctx), removed, user.Mention())); err != nil {
			return err
		}
		ctx.LogToChannel(fmt.Sprintf("%s has cleared all warnings for %s [%d].", authorMention(ctx), user.Mention(), removed))
	}
	return nil
}

func init() {
	command.RegisterCommand(&WarningsCommand{}, middleware.Defaults()...)
	command.RegisterCommand(&ClearWarningsCommand{}, middleware.Defaults()...)
}
