package core

import (
	"fmt"

	"server-warden/internal/command"
	"server-warden/internal/middleware"
	"server-warden/internal/version"

	"github.com/bwmarrin/discordgo"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Show the bot version" }
func (c *AboutCommand) Category() string    { return "🕯️ Information" }
func (c *AboutCommand) Roles() []string     { return nil }

func (c *AboutCommand) Run(ctx *command.MessageContext) error {
	_, err := ctx.Client.ChannelMessageSendEmbed(ctx.Message.ChannelID, &discordgo.MessageEmbed{
		Title:       version.AppName,
		Description: fmt.Sprintf("Build `%s`", version.String()),
		Color:       command.EmbedColor,
	})
	return err
}

func init() {
	command.RegisterCommand(&AboutCommand{}, middleware.Defaults()...)
}
