package discord

import (
	"fmt"
	"log"
	"regexp"
	"runtime/debug"
	"strings"

	"server-warden/internal/command"
	"server-warden/internal/metrics"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var urlPattern = regexp.MustCompile(`(?i)https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{2,256}\.[a-z]{2,4}\b([-a-zA-Z0-9@:%_+.~#?&/=]*)`)

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handleMessage(m.Message)
}

// handleMessage runs a new message through the filters and dispatchers in
// order. Each step may end processing.
func (b *Bot) handleMessage(m *discordgo.Message) {
	if m.Author == nil {
		return
	}
	prefix := b.cfg.CommandPrefix
	if m.Author.Bot && !strings.HasPrefix(m.Content, prefix+"ban") {
		return
	}

	if m.GuildID == "" && b.responses != nil && b.responses.PMReply != "" {
		log.Printf("[INFO] %s %s [PM]: %s", m.Author.Username, m.Author.Mention(), m.Content)
		b.send(b.cfg.LogChannel, fmt.Sprintf("%s [PM]: %s", m.Author.Mention(), m.Content))
		if _, err := b.client.ChannelMessageSendReply(m.ChannelID, b.responses.PMReply, m.Reference()); err != nil {
			log.Printf("[ERR] Failed to reply to PM: %v", err)
		}
		return
	}

	log.Printf("[VERBOSE] %s %s [Channel: <#%s>]: %s", m.Author.Username, m.Author.Mention(), m.ChannelID, m.Content)

	roles := b.authorRoles(m.GuildID, m.Author.ID, m.Member)

	if b.cfg.MediaChannel != "" && m.ChannelID == b.cfg.MediaChannel && !m.Author.Bot {
		if roles == nil {
			log.Printf("[ERR] Unable to get the roles for %s", m.Author.Mention())
			return
		}
		if !command.HasAnyRole(roles, b.cfg.PrivilegedRoles) {
			b.checkMedia(m)
		}
	}

	if b.cfg.RulesChannel != "" && m.ChannelID == b.cfg.RulesChannel {
		b.handleRules(m)
		return
	}

	if name, args, ok := command.ParseCommand(m.Content, prefix); ok {
		b.dispatchCommand(m, roles, name, args)
		return
	}

	if !m.Author.Bot {
		b.runTriggers(m, roles)
	}
}

// checkMedia lets a member post one text message after each media post;
// anything else is removed.
func (b *Bot) checkMedia(m *discordgo.Message) {
	id := m.Author.ID
	if len(m.Attachments) > 0 || urlPattern.MatchString(m.Content) {
		b.media.Add(id, true)
		return
	}
	if posted, _ := b.media.Get(id); posted {
		b.media.Add(id, false)
		return
	}
	b.deleteMessage(m, "media")
	b.media.Add(id, false)
}

func (b *Bot) handleRules(m *discordgo.Message) {
	if strings.Contains(strings.ToLower(m.Content), b.cfg.RulesTrigger) && m.GuildID != "" {
		log.Printf("[VERBOSE] %s %s has accepted the rules, removing role %s.", m.Author.Username, m.Author.Mention(), b.cfg.RulesRole)
		err := b.client.GuildMemberRoleRemove(m.GuildID, m.Author.ID, b.cfg.RulesRole, discordgo.WithAuditLogReason("Accepted the rules."))
		if err != nil {
			log.Printf("[ERR] Failed to remove rules role from %s: %v", m.Author.ID, err)
		}
	}
	b.deleteMessage(m, "rules")
}

func (b *Bot) dispatchCommand(m *discordgo.Message, roles []string, name string, args []string) {
	c := b.commands.Get(name)
	isQuote := false
	if c == nil {
		if _, ok := b.responses.Quote(name); !ok {
			return
		}
		isQuote = true
		c = b.commands.Get("quote")
	}

	if roles == nil {
		log.Printf("[ERR] Unable to get the roles for %s", m.Author.Mention())
		return
	}
	if !isQuote && !command.Permitted(roles, command.RolesFor(c)) {
		b.send(b.cfg.LogChannel, fmt.Sprintf("%s attempted to use admin command: %s", m.Author.Mention(), m.Content))
		log.Printf("[INFO] %s %s attempted to use admin command: %s", m.Author.Username, m.Author.Mention(), m.Content)
		metrics.CommandsDeniedTotal.WithLabelValues(c.Name()).Inc()
		return
	}

	log.Printf("[INFO] %s %s [Channel: <#%s>] executed command: %s", m.Author.Username, m.Author.Mention(), m.ChannelID, m.Content)
	b.deleteMessage(m, "command")

	if c == nil {
		return
	}
	inv := &cmd.Invocation{Name: name, Args: args, Data: b.messageContext(m, roles, name, args)}
	if err := c.Run(b.ctx, inv); err != nil {
		log.Printf("[ERR] Command %s failed: %v", c.Name(), err)
	}
}

func (b *Bot) runTriggers(m *discordgo.Message, roles []string) {
	for _, t := range b.triggers {
		if !command.Permitted(roles, t.Roles()) || !t.Match(m) {
			continue
		}
		log.Printf("[DEBUG] %s %s [Channel: <#%s>] triggered: %s", m.Author.Username, m.Author.Mention(), m.ChannelID, m.Content)

		result := "ok"
		if err := executeTrigger(t, b.messageContext(m, roles, t.Name(), nil)); err != nil {
			log.Printf("[ERR] Trigger %s failed: %v", t.Name(), err)
			result = "error"
		}
		metrics.TriggersTotal.WithLabelValues(t.Name(), result).Inc()
	}
}

func executeTrigger(t command.Trigger, ctx *command.MessageContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Trigger %s panicked: %v\n%s", t.Name(), r, debug.Stack())
			err = fmt.Errorf("trigger %s panicked: %v", t.Name(), r)
		}
	}()
	return t.Execute(ctx)
}

func (b *Bot) messageContext(m *discordgo.Message, roles []string, invoked string, args []string) *command.MessageContext {
	return &command.MessageContext{
		Client:      b.client,
		Message:     m,
		AuthorRoles: roles,
		Invoked:     invoked,
		Args:        args,
		Storage:     b.storage,
		Responses:   b.responses,
		Config:      b.cfg,
		Commands:    b.commands,
	}
}
