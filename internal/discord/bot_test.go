package discord

import (
	"errors"
	"strings"
	"testing"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/command/commandtest"
	"server-warden/internal/config"
	"server-warden/internal/responses"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	roles    map[string]string
	channels map[string]*discordgo.Channel
}

func (r *fakeResolver) RoleNames(_ string, ids []string) ([]string, error) {
	names := []string{}
	for _, id := range ids {
		if n, ok := r.roles[id]; ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func (r *fakeResolver) Channel(id string) (*discordgo.Channel, error) {
	ch, ok := r.channels[id]
	if !ok {
		return nil, errors.New("unknown channel")
	}
	return ch, nil
}

type recordingCommand struct {
	name  string
	roles []string
	runs  []*command.MessageContext
}

func (c *recordingCommand) Name() string        { return c.name }
func (c *recordingCommand) Description() string { return c.name }
func (c *recordingCommand) Category() string    { return "test" }
func (c *recordingCommand) Roles() []string     { return c.roles }

func (c *recordingCommand) Run(ctx *command.MessageContext) error {
	c.runs = append(c.runs, ctx)
	return nil
}

type recordingTrigger struct {
	roles    []string
	match    bool
	executed int
	panics   bool
}

func (t *recordingTrigger) Name() string                  { return "rec" }
func (t *recordingTrigger) Roles() []string               { return t.roles }
func (t *recordingTrigger) Match(*discordgo.Message) bool { return t.match }

func (t *recordingTrigger) Execute(*command.MessageContext) error {
	t.executed++
	if t.panics {
		panic("boom")
	}
	return nil
}

type harness struct {
	bot     *Bot
	client  *commandtest.Client
	ban     *recordingCommand
	quote   *recordingCommand
	trigger *recordingTrigger
}

func newHarness(t *testing.T) *harness {
	cfg := &config.Config{
		CommandPrefix:     ".",
		RulesTrigger:      "i agree",
		RulesRole:         "rules-role",
		RulesChannel:      "rules",
		MediaChannel:      "media",
		LogChannel:        "log",
		MessageLogChannel: "msglog",
		PrivilegedRoles:   []string{"Administrators", "Moderators", "Team", "VIP"},
		IgnoredCategories: []string{"website"},
		ReconnectTimeout:  time.Minute,
	}
	h := &harness{
		client:  commandtest.NewClient(),
		ban:     &recordingCommand{name: "ban", roles: []string{"Moderators"}},
		quote:   &recordingCommand{name: "quote"},
		trigger: &recordingTrigger{match: true},
	}

	reg := cmd.NewRegistry()
	reg.Register(&command.DiscordAdapter{Cmd: h.ban})
	reg.Register(&command.DiscordAdapter{Cmd: h.quote})

	resp := &responses.Responses{
		PMReply: "I am a bot.",
		Quotes:  map[string]responses.Quote{"faq": {Reply: "Read the FAQ."}},
	}

	h.bot = newBot(cfg, nil, resp, reg, []command.Trigger{h.trigger})
	h.bot.client = h.client
	h.bot.resolver = &fakeResolver{
		roles:    map[string]string{"r-mod": "Moderators", "r-member": "Member"},
		channels: map[string]*discordgo.Channel{
			"log":           {ID: "log", Type: discordgo.ChannelTypeGuildText},
			"msglog":        {ID: "msglog", Type: discordgo.ChannelTypeGuildText},
			"general":       {ID: "general", ParentID: "cat-community", Type: discordgo.ChannelTypeGuildText},
			"site":          {ID: "site", ParentID: "cat-website", Type: discordgo.ChannelTypeGuildText},
			"voice":         {ID: "voice", Type: discordgo.ChannelTypeGuildVoice},
			"cat-community": {ID: "cat-community", Name: "community", Type: discordgo.ChannelTypeGuildCategory},
			"cat-website":   {ID: "cat-website", Name: "website", Type: discordgo.ChannelTypeGuildCategory},
		},
	}
	h.client.AddMember("g1", "u1", "r-member")
	h.client.AddMember("g1", "mod", "r-mod")
	h.client.AddMember("g1", "bot", "r-mod")
	return h
}

func message(channelID, authorID, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m-" + authorID,
		ChannelID: channelID,
		GuildID:   "g1",
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: "name-" + authorID},
	}
}

func TestBotMessagesAreIgnoredExceptBan(t *testing.T) {
	h := newHarness(t)

	m := message("general", "bot", "hello")
	m.Author.Bot = true
	h.bot.handleMessage(m)
	assert.Zero(t, h.trigger.executed)

	m = message("general", "bot", ".ban <@u1>")
	m.Author.Bot = true
	h.bot.handleMessage(m)
	assert.Len(t, h.ban.runs, 1)
}

func TestDirectMessageGetsPMReply(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	m := message("dm", "u1", "hi bot")
	m.GuildID = ""
	h.bot.handleMessage(m)

	assert.Equal([]string{"<@u1> [PM]: hi bot"}, h.client.Contents("log"))
	require.Len(t, h.client.Sent, 2)
	assert.Equal("I am a bot.", h.client.Sent[1].Content)
	assert.Equal("m-u1", h.client.Sent[1].ReplyTo)
	assert.Zero(h.trigger.executed)
}

func TestMediaChannelGating(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)
	h.trigger.match = false

	h.bot.handleMessage(message("media", "u1", "just chatting"))
	assert.Equal([]string{"media/m-u1"}, h.client.Deleted)

	h.bot.handleMessage(message("media", "u1", "look https://example.com/pic.png"))
	h.bot.handleMessage(message("media", "u1", "nice, right?"))
	assert.Len(h.client.Deleted, 1)

	h.bot.handleMessage(message("media", "u1", "and another comment"))
	assert.Len(h.client.Deleted, 2)

	withFile := message("media", "u1", "")
	withFile.Attachments = []*discordgo.MessageAttachment{{ID: "a1"}}
	h.bot.handleMessage(withFile)
	assert.Len(h.client.Deleted, 2)

	h.bot.handleMessage(message("media", "mod", "moderator comment"))
	assert.Len(h.client.Deleted, 2)
}

func TestMediaChannelUnknownRolesStops(t *testing.T) {
	h := newHarness(t)
	h.bot.handleMessage(message("media", "stranger", "text"))
	assert.Empty(t, h.client.Deleted)
	assert.Zero(t, h.trigger.executed)
}

func TestRulesChannel(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	h.bot.handleMessage(message("rules", "u1", "hello"))
	assert.Empty(h.client.Roles)
	assert.Equal([]string{"rules/m-u1"}, h.client.Deleted)

	h.bot.handleMessage(message("rules", "u1", "I Agree to the rules"))
	assert.Equal([]commandtest.RoleChange{{GuildID: "g1", UserID: "u1", RoleID: "rules-role", Added: false}}, h.client.Roles)
	assert.Len(h.client.Deleted, 2)
	assert.Zero(h.trigger.executed)
}

func TestRulesTriggerUsedAsConfigured(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)
	h.bot.cfg.RulesTrigger = "I Agree"

	h.bot.handleMessage(message("rules", "u1", "I Agree"))
	assert.Empty(h.client.Roles)
	assert.Equal([]string{"rules/m-u1"}, h.client.Deleted)
}

func TestCommandDispatch(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	h.bot.handleMessage(message("general", "mod", ".BAN <@u1> spam"))
	require.Len(t, h.ban.runs, 1)
	assert.Equal([]string{"<@u1>", "spam"}, h.ban.runs[0].Args)
	assert.Equal([]string{"Moderators"}, h.ban.runs[0].AuthorRoles)
	assert.Equal([]string{"general/m-mod"}, h.client.Deleted)
	assert.Zero(h.trigger.executed)
}

func TestCommandDeniedIsLogged(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	h.bot.handleMessage(message("general", "u1", ".ban <@mod>"))
	assert.Empty(h.ban.runs)
	assert.Empty(h.client.Deleted)
	assert.Equal([]string{"<@u1> attempted to use admin command: .ban <@mod>"}, h.client.Contents("log"))
}

func TestQuoteDispatch(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	h.bot.handleMessage(message("general", "u1", ".faq"))
	require.Len(t, h.quote.runs, 1)
	assert.Equal("faq", h.quote.runs[0].Invoked)

	h.bot.handleMessage(message("general", "u1", ".FAQ"))
	h.bot.handleMessage(message("general", "u1", ".unknown"))
	h.bot.handleMessage(message("general", "u1", "...faq"))
	assert.Len(h.quote.runs, 1)
	assert.Len(h.client.Deleted, 1)
}

func TestTriggers(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	h.bot.handleMessage(message("general", "u1", "citra#1"))
	assert.Equal(1, h.trigger.executed)

	h.trigger.roles = []string{"Moderators"}
	h.bot.handleMessage(message("general", "u1", "citra#1"))
	assert.Equal(1, h.trigger.executed)
	h.bot.handleMessage(message("general", "mod", "citra#1"))
	assert.Equal(2, h.trigger.executed)

	h.trigger.panics = true
	assert.NotPanics(func() { h.bot.handleMessage(message("general", "mod", "citra#1")) })
}

func TestMemberAddGetsRulesRole(t *testing.T) {
	h := newHarness(t)
	h.bot.handleMemberAdd(&discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "new"}})
	assert.Equal(t, []commandtest.RoleChange{{GuildID: "g1", UserID: "new", RoleID: "rules-role", Added: true}}, h.client.Roles)
}

func TestMessageDeleteLogging(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		content string
		bot     bool
		logged  bool
	}{
		{name: "logged", channel: "general", content: "something rude", logged: true},
		{name: "ignored category", channel: "site", content: "something rude"},
		{name: "no category", channel: "log", content: "something rude"},
		{name: "command", channel: "general", content: ".ban"},
		{name: "empty", channel: "general"},
		{name: "bot author", channel: "general", content: "beep", bot: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			before := message(tt.channel, "u1", tt.content)
			before.Author.Bot = tt.bot

			h.bot.handleMessageDelete(&discordgo.MessageDelete{
				Message:      &discordgo.Message{ID: before.ID, ChannelID: tt.channel, GuildID: "g1"},
				BeforeDelete: before,
			})

			embeds := h.client.Embeds("msglog")
			if !tt.logged {
				assert.Empty(t, embeds)
				return
			}
			require.Len(t, embeds, 1)
			assert.Equal(t, "Message deleted in <#general>", embeds[0].Description)
			assert.Equal(t, colorRed, embeds[0].Color)
			assert.Equal(t, tt.content, embeds[0].Fields[0].Value)
		})
	}
}

func TestMessageDeleteWithoutCacheIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.bot.handleMessageDelete(&discordgo.MessageDelete{Message: &discordgo.Message{ID: "x", ChannelID: "general"}})
	assert.Empty(t, h.client.Sent)
}

func TestMessageUpdateLogging(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)

	update := func(author, before, after string) {
		old := message("general", author, before)
		cur := message("general", author, after)
		h.bot.handleMessageUpdate(&discordgo.MessageUpdate{Message: cur, BeforeUpdate: old})
	}

	update("u1", "first", "second")
	embeds := h.client.Embeds("msglog")
	require.Len(t, embeds, 1)
	assert.Equal("Message edited in <#general> [Jump To Message](https://discord.com/channels/g1/general/m-u1)", embeds[0].Description)
	assert.Equal("first", embeds[0].Fields[0].Value)
	assert.Equal("second", embeds[0].Fields[1].Value)
	assert.Equal(colorGreen, embeds[0].Color)

	update("u1", "same", "same")
	update("u1", "text", "")
	update("mod", "first", "second")
	update("stranger", "first", "second")
	assert.Len(h.client.Embeds("msglog"), 1)
}

func TestLongMessagesAreTruncatedInLog(t *testing.T) {
	assert := assert.New(t)
	h := newHarness(t)
	long := strings.Repeat("a", 3000)

	before := message("general", "u1", long)
	h.bot.handleMessageDelete(&discordgo.MessageDelete{
		Message:      &discordgo.Message{ID: before.ID, ChannelID: "general", GuildID: "g1"},
		BeforeDelete: before,
	})
	h.bot.handleMessageUpdate(&discordgo.MessageUpdate{
		Message:      message("general", "u1", long+"b"),
		BeforeUpdate: message("general", "u1", long),
	})

	embeds := h.client.Embeds("msglog")
	require.Len(t, embeds, 2)
	for _, e := range embeds {
		for _, f := range e.Fields {
			assert.Len([]rune(f.Value), command.EmbedFieldValueLimit)
		}
	}
}

func TestReadyChecksLogChannels(t *testing.T) {
	h := newHarness(t)
	h.bot.handleReady()
	assert.Empty(t, h.bot.fatal)

	h = newHarness(t)
	h.bot.cfg.MessageLogChannel = "voice"
	h.bot.handleReady()
	require.Len(t, h.bot.fatal, 1)
	assert.ErrorContains(t, <-h.bot.fatal, "DISCORD_MSGLOG_CHANNEL is not a text channel")

	h = newHarness(t)
	h.bot.cfg.LogChannel = "missing"
	h.bot.handleReady()
	assert.Len(t, h.bot.fatal, 1)
}

func TestLoadModulesSkipsDisabled(t *testing.T) {
	all := cmd.NewRegistry()
	all.Register(&command.DiscordAdapter{Cmd: &recordingCommand{name: "warn"}})
	all.Register(&command.DiscordAdapter{Cmd: &recordingCommand{name: "ban"}})

	triggers := command.NewTriggerList()
	triggers.Register(&recordingTrigger{})

	cfg := &config.Config{DisabledModules: []string{"Warn"}, DisabledTriggers: []string{"rec"}}
	reg := loadModules(cfg, all)
	assert.Nil(t, reg.Get("warn"))
	assert.NotNil(t, reg.Get("ban"))
	assert.Empty(t, loadTriggers(cfg, triggers))
}

func TestRestartTimer(t *testing.T) {
	timer := newRestartTimer(10 * time.Millisecond)
	timer.start()
	timer.stop()
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, timer.fired())

	timer.start()
	select {
	case <-timer.fired():
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
