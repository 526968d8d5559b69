package core

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"server-warden/internal/command"
	"server-warden/internal/command/commandtest"
	"server-warden/internal/config"
	"server-warden/internal/responses"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name, category string
	roles          []string
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return s.name + " things" }
func (s *stubCommand) Category() string    { return s.category }
func (s *stubCommand) Roles() []string     { return s.roles }

func (s *stubCommand) Run(*command.MessageContext) error {
	return nil
}

func newRegistry() *cmd.Registry {
	r := cmd.NewRegistry()
	r.Register(&command.DiscordAdapter{Cmd: &HelpCommand{}})
	r.Register(&command.DiscordAdapter{Cmd: &stubCommand{name: "ban", category: "🛡️ Moderation", roles: []string{"Moderators"}}})
	return r
}

func TestHelpListsPermittedCommandsAndQuotes(t *testing.T) {
	assert := assert.New(t)

	client := commandtest.NewClient()
	ctx := &command.MessageContext{
		Client:    client,
		Message:   &discordgo.Message{ChannelID: "c1", GuildID: "g1"},
		Config:    &config.Config{CommandPrefix: "."},
		Commands:  newRegistry(),
		Responses: &responses.Responses{Quotes: map[string]responses.Quote{"faq": {Reply: "read it"}}},
	}

	require.NoError(t, (&HelpCommand{}).Run(ctx))
	embeds := client.Embeds("c1")
	require.Len(t, embeds, 1)
	assert.Contains(embeds[0].Description, "`.help`")
	assert.Contains(embeds[0].Description, "`.faq`")
	assert.NotContains(embeds[0].Description, "`.ban`")

	ctx.AuthorRoles = []string{"Moderators"}
	require.NoError(t, (&HelpCommand{}).Run(ctx))
	assert.Contains(client.Embeds("c1")[1].Description, "`.ban` - ban things")
}

func TestHelpOrdersCategoriesByWeight(t *testing.T) {
	out := buildHelpByCategory(newRegistry().GetAll(), []string{"Moderators"}, ".")
	assert.Less(t, strings.Index(out, "Information"), strings.Index(out, "Moderation"))
}

func TestHelpDescriptionIsTruncated(t *testing.T) {
	quotes := map[string]responses.Quote{}
	for i := 0; i < 600; i++ {
		quotes[fmt.Sprintf("quote-number-%03d", i)] = responses.Quote{Reply: "x"}
	}
	client := commandtest.NewClient()
	ctx := &command.MessageContext{
		Client:    client,
		Message:   &discordgo.Message{ChannelID: "c1"},
		Config:    &config.Config{CommandPrefix: "."},
		Commands:  newRegistry(),
		Responses: &responses.Responses{Quotes: quotes},
	}

	require.NoError(t, (&HelpCommand{}).Run(ctx))
	embeds := client.Embeds("c1")
	require.Len(t, embeds, 1)
	assert.Len(t, []rune(embeds[0].Description), command.EmbedDescriptionLimit)
}

func TestAboutSendsEmbed(t *testing.T) {
	client := commandtest.NewClient()
	ctx := &command.MessageContext{Client: client, Message: &discordgo.Message{ChannelID: "c1"}}

	adapter := &command.DiscordAdapter{Cmd: &AboutCommand{}}
	require.NoError(t, adapter.Run(context.Background(), &cmd.Invocation{Name: "about", Data: ctx}))
	assert.Len(t, client.Embeds("c1"), 1)
}
