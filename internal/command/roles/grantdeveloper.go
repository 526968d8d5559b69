package roles

import (
	"fmt"

	"server-warden/internal/command"
	"server-warden/internal/middleware"

	"github.com/bwmarrin/discordgo"
)

type GrantDeveloperCommand struct{}

func (c *GrantDeveloperCommand) Name() string        { return "grantdeveloper" }
func (c *GrantDeveloperCommand) Description() string { return "Toggle speech in #development for mentioned users" }
func (c *GrantDeveloperCommand) Category() string    { return "🔑 Roles" }
func (c *GrantDeveloperCommand) Roles() []string     { return command.ModeratorRoles }

func (c *GrantDeveloperCommand) Run(ctx *command.MessageContext) error {
	return toggleRole(ctx, ctx.Config.DeveloperRole,
		func(u *discordgo.User) string {
			return fmt.Sprintf("%s has been granted speech in the #development channel.", u.Mention())
		},
		func(u *discordgo.User) string {
			return fmt.Sprintf("%s's speech has been revoked in the #development channel.", u.Mention())
		},
	)
}

func init() {
	command.RegisterCommand(&GrantDeveloperCommand{}, middleware.Defaults()...)
}
