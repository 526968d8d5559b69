package discord

import (
	"fmt"
	"log"
	"strings"
	"time"

	"server-warden/internal/command"
	"server-warden/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

const (
	colorRed   = 0xe74c3c
	colorGreen = 0x2ecc71
)

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.handleReady()
}

func (b *Bot) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	b.handleMemberAdd(m.Member)
}

func (b *Bot) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	b.handleMessageDelete(m)
}

func (b *Bot) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	b.handleMessageUpdate(m)
}

func (b *Bot) onConnect(s *discordgo.Session, c *discordgo.Connect) {
	b.reconnect.stop()
}

func (b *Bot) onResumed(s *discordgo.Session, r *discordgo.Resumed) {
	log.Println("[INFO] Resumed connection to Discord.")
	b.reconnect.stop()
}

func (b *Bot) onDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	log.Println("[WARN] Disconnected from Discord server.")
	b.reconnect.start()
}

func (b *Bot) onRateLimit(s *discordgo.Session, r *discordgo.RateLimit) {
	if r.TooManyRequests != nil {
		log.Printf("[WARN] Rate limited on %s, retry after %s", r.URL, r.RetryAfter)
	}
}

// handleReady checks that both log channels exist and accept messages.
func (b *Bot) handleReady() {
	channels := []struct{ env, id string }{
		{"DISCORD_LOG_CHANNEL", b.cfg.LogChannel},
		{"DISCORD_MSGLOG_CHANNEL", b.cfg.MessageLogChannel},
	}
	for _, c := range channels {
		ch, err := b.resolver.Channel(c.id)
		if err != nil {
			b.fail(fmt.Errorf("%s %s: %w", c.env, c.id, err))
			return
		}
		if !isTextChannel(ch) {
			b.fail(fmt.Errorf("%s is not a text channel", c.env))
			return
		}
	}
	log.Println("[INFO] ✅ Bot is now online and connected to server.")
}

func isTextChannel(ch *discordgo.Channel) bool {
	return ch != nil && (ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews)
}

func (b *Bot) handleMemberAdd(m *discordgo.Member) {
	if m == nil || m.User == nil || b.cfg.RulesRole == "" {
		return
	}
	if err := b.client.GuildMemberRoleAdd(m.GuildID, m.User.ID, b.cfg.RulesRole); err != nil {
		log.Printf("[ERR] Failed to add rules role to %s: %v", m.User.ID, err)
	}
}

func (b *Bot) handleMessageDelete(m *discordgo.MessageDelete) {
	before := m.BeforeDelete
	if before == nil {
		return
	}

	parent, ok := b.parentCategory(m.ChannelID)
	if !ok || b.cfg.IsIgnoredCategory(parent) {
		return
	}
	if before.Content == "" || strings.HasPrefix(before.Content, b.cfg.CommandPrefix) || before.Author == nil || before.Author.Bot {
		return
	}

	content := before.ContentWithMentionsReplaced()
	b.sendEmbed(b.cfg.MessageLogChannel, &discordgo.MessageEmbed{
		Author:      embedAuthor(before.Author),
		Description: fmt.Sprintf("Message deleted in <#%s>", m.ChannelID),
		Fields:      []*discordgo.MessageEmbedField{{Name: "Content", Value: command.Truncate(content, command.EmbedFieldValueLimit)}},
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       colorRed,
	})
	log.Printf("[INFO] %s %s deleted message: %s.", before.Author.Username, before.Author.Mention(), content)
}

func (b *Bot) handleMessageUpdate(m *discordgo.MessageUpdate) {
	before := m.BeforeUpdate
	if before == nil {
		return
	}
	author := before.Author
	if author == nil {
		author = m.Author
	}
	if author == nil {
		return
	}

	member := m.Member
	if member == nil {
		member = before.Member
	}
	roles := b.authorRoles(m.GuildID, author.ID, member)
	if roles == nil {
		log.Printf("[ERR] Unable to get the roles for %s", author.Mention())
		return
	}
	if command.HasAnyRole(roles, b.cfg.PrivilegedRoles) {
		return
	}

	parent, ok := b.parentCategory(m.ChannelID)
	if !ok || b.cfg.IsIgnoredCategory(parent) {
		return
	}

	oldContent := before.ContentWithMentionsReplaced()
	newContent := m.ContentWithMentionsReplaced()
	if before.Content == m.Content || oldContent == "" || newContent == "" {
		return
	}

	link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", m.GuildID, m.ChannelID, m.ID)
	b.sendEmbed(b.cfg.MessageLogChannel, &discordgo.MessageEmbed{
		Author:      embedAuthor(author),
		Description: fmt.Sprintf("Message edited in <#%s> [Jump To Message](%s)", m.ChannelID, link),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Before", Value: command.Truncate(oldContent, command.EmbedFieldValueLimit)},
			{Name: "After", Value: command.Truncate(newContent, command.EmbedFieldValueLimit)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
		Color:     colorGreen,
	})
	log.Printf("[INFO] %s %s edited message from: %s to: %s.", author.Username, author.Mention(), oldContent, newContent)
}

// parentCategory returns the name of the category a channel sits under.
func (b *Bot) parentCategory(channelID string) (string, bool) {
	ch, err := b.resolver.Channel(channelID)
	if err != nil || ch == nil || ch.ParentID == "" {
		return "", false
	}
	parent, err := b.resolver.Channel(ch.ParentID)
	if err != nil || parent == nil {
		return "", false
	}
	return parent.Name, true
}

// authorRoles returns the role names of a guild member, or nil when they
// cannot be determined.
func (b *Bot) authorRoles(guildID, userID string, member *discordgo.Member) []string {
	if guildID == "" {
		return nil
	}
	if member == nil {
		m, err := b.client.GuildMember(guildID, userID)
		if err != nil {
			log.Printf("[WARN] Could not fetch member %s: %v", userID, err)
			return nil
		}
		member = m
	}

	names, err := b.resolver.RoleNames(guildID, member.Roles)
	if err != nil {
		log.Printf("[WARN] %v", err)
		return nil
	}
	return names
}

func embedAuthor(u *discordgo.User) *discordgo.MessageEmbedAuthor {
	return &discordgo.MessageEmbedAuthor{Name: u.String(), IconURL: u.AvatarURL("")}
}

func (b *Bot) send(channelID, content string) {
	if _, err := b.client.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("[ERR] Failed to send message to %s: %v", channelID, err)
	}
}

func (b *Bot) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.client.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("[ERR] Failed to send embed to %s: %v", channelID, err)
	}
}

func (b *Bot) deleteMessage(m *discordgo.Message, reason string) {
	if err := b.client.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		log.Printf("[WARN] Failed to delete message %s: %v", m.ID, err)
		return
	}
	metrics.MessagesDeletedTotal.WithLabelValues(reason).Inc()
}
