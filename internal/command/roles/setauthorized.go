package roles

import (
	"fmt"

	"server-warden/internal/command"
	"server-warden/internal/middleware"

	"github.com/bwmarrin/discordgo"
)

type SetAuthorizedCommand struct{}

func (c *SetAuthorizedCommand) Name() string        { return "setauthorized" }
func (c *SetAuthorizedCommand) Description() string { return "Toggle the authorized role for mentioned users" }
func (c *SetAuthorizedCommand) Category() string    { return "🔑 Roles" }
func (c *SetAuthorizedCommand) Roles() []string     { return command.ModeratorRoles }

func (c *SetAuthorizedCommand) Run(ctx *command.MessageContext) error {
	return toggleRole(ctx, ctx.Config.AuthorizedRole,
		func(u *discordgo.User) string { return fmt.Sprintf("%s is now authorized.", u.Mention()) },
		func(u *discordgo.User) string { return fmt.Sprintf("%s is no longer authorized.", u.Mention()) },
	)
}

func init() {
	command.RegisterCommand(&SetAuthorizedCommand{}, middleware.Defaults()...)
}
