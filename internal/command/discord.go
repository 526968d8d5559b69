package command

import (
	"context"
	"fmt"
	"log"
	"strings"

	"server-warden/internal/config"
	"server-warden/internal/responses"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Client is the subset of *discordgo.Session the handlers call.
type Client interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
}

// MessageContext is what the dispatcher hands a command or trigger.
type MessageContext struct {
	Client      Client
	Message     *discordgo.Message
	AuthorRoles []string // role names; nil when the roles could not be resolved
	Invoked     string   // name the command was called as
	Args        []string
	Storage     *storage.Storage
	Responses   *responses.Responses
	Config      *config.Config
	Commands    *cmd.Registry
}

// Send posts a plain message to the channel the message came from.
func (c *MessageContext) Send(content string) error {
	_, err := c.Client.ChannelMessageSend(c.Message.ChannelID, content)
	return err
}

// LogToChannel posts a message to the configured moderation log channel.
func (c *MessageContext) LogToChannel(content string) {
	if c.Config == nil || c.Config.LogChannel == "" {
		return
	}
	if _, err := c.Client.ChannelMessageSend(c.Config.LogChannel, content); err != nil {
		log.Printf("[WARN] Failed to post to log channel: %v", err)
	}
}

// Prefix returns the configured command prefix.
func (c *MessageContext) Prefix() string {
	if c.Config == nil || c.Config.CommandPrefix == "" {
		return "."
	}
	return c.Config.CommandPrefix
}

// DiscordMeta is exposed by the adapter so the dispatcher can read role
// requirements through middleware wrappers.
type DiscordMeta interface {
	Category() string
	Roles() []string
}

// DiscordCommand is what individual message commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Category() string
	// Roles lists the role names allowed to run the command; nil means everyone.
	Roles() []string
	Run(ctx *MessageContext) error
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }
func (a *DiscordAdapter) Category() string    { return a.Cmd.Category() }
func (a *DiscordAdapter) Roles() []string     { return a.Cmd.Roles() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*MessageContext)
	if !ok {
		return fmt.Errorf("command %s: unexpected invocation data %T", a.Cmd.Name(), inv.Data)
	}
	return a.Cmd.Run(mc)
}

// RegisterCommand registers a Discord command with the default registry and applies middlewares.
func RegisterCommand(discordCmd DiscordCommand, mws ...cmd.Middleware) {
	c := cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...)
	cmd.DefaultRegistry.Register(c)
}

// Meta returns the Discord metadata of a registered command, if any.
func Meta(c cmd.Command) (DiscordMeta, bool) {
	meta, ok := cmd.Root(c).(DiscordMeta)
	return meta, ok
}

// RolesFor returns the permitted role names of a registered command.
func RolesFor(c cmd.Command) []string {
	if meta, ok := Meta(c); ok {
		return meta.Roles()
	}
	return nil
}

// ParseCommand extracts the command name and arguments from a message.
// The content must start with prefix but not with prefix twice, so "..."
// is not a command. The name is everything up to the first space.
func ParseCommand(content, prefix string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) || strings.HasPrefix(content, prefix+prefix) {
		return "", nil, false
	}

	head, rest, _ := strings.Cut(content, " ")
	name := strings.TrimPrefix(head, prefix)
	if name == "" {
		return "", nil, false
	}
	return name, strings.Fields(rest), true
}
