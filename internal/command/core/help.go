package core

import (
	"fmt"
	"sort"
	"strings"

	"server-warden/internal/command"
	"server-warden/internal/config"
	"server-warden/internal/middleware"
	"server-warden/internal/version"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List the commands and quotes you can use" }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }
func (c *HelpCommand) Roles() []string     { return nil }

func (c *HelpCommand) Run(ctx *command.MessageContext) error {
	registry := ctx.Commands
	if registry == nil {
		registry = cmd.DefaultRegistry
	}

	var sb strings.Builder
	sb.WriteString(buildHelpByCategory(registry.GetAll(), ctx.AuthorRoles, ctx.Prefix()))

	if names := ctx.Responses.Names(); len(names) > 0 {
		sb.WriteString("**💬 Quotes**\n")
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = "`" + ctx.Prefix() + n + "`"
		}
		sb.WriteString(strings.Join(quoted, ", "))
		sb.WriteString("\n")
	}

	_, err := ctx.Client.ChannelMessageSendEmbed(ctx.Message.ChannelID, &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: command.Truncate(sb.String(), command.EmbedDescriptionLimit),
		Color:       command.EmbedColor,
	})
	return err
}

// buildHelpByCategory lists the commands the author may run, grouped by category.
func buildHelpByCategory(all []cmd.Command, authorRoles []string, prefix string) string {
	categoryMap := make(map[string][]cmd.Command)
	for _, c := range all {
		meta, ok := command.Meta(c)
		if !ok || !command.Permitted(authorRoles, meta.Roles()) {
			continue
		}
		categoryMap[meta.Category()] = append(categoryMap[meta.Category()], c)
	}

	cats := make([]string, 0, len(categoryMap))
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeights[cats[i]], config.CategoryWeights[cats[j]]
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		for _, c := range categoryMap[cat] {
			sb.WriteString(fmt.Sprintf("`%s%s` - %s\n", prefix, c.Name(), c.Description()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func init() {
	command.RegisterCommand(&HelpCommand{}, middleware.Defaults()...)
}
