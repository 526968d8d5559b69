// Package commandtest provides an in-memory command.Client for tests.
package commandtest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type Sent struct {
	ChannelID string
	Content   string
	Embed     *discordgo.MessageEmbed
	ReplyTo   string
}

type RoleChange struct {
	GuildID string
	UserID  string
	RoleID  string
	Added   bool
}

type BanCall struct {
	GuildID string
	UserID  string
	Reason  string
}

// Client records every call. Members maps "guildID/userID" to a member used
// by GuildMember; role changes are applied to it.
type Client struct {
	mu sync.Mutex

	Sent    []Sent
	Deleted []string // "channelID/messageID"
	Roles   []RoleChange
	Bans    []BanCall
	Members map[string]*discordgo.Member

	// Fail makes every call return this error when set.
	Fail error
}

func NewClient() *Client {
	return &Client{Members: map[string]*discordgo.Member{}}
}

// AddMember registers a member with the given role IDs.
func (c *Client) AddMember(guildID, userID string, roleIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Members[guildID+"/"+userID] = &discordgo.Member{
		GuildID: guildID,
		User:    &discordgo.User{ID: userID, Username: "user" + userID},
		Roles:   roleIDs,
	}
}

// Contents returns the text of every message sent to channelID.
func (c *Client) Contents(channelID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, s := range c.Sent {
		if s.ChannelID == channelID && s.Embed == nil {
			out = append(out, s.Content)
		}
	}
	return out
}

// Embeds returns every embed sent to channelID.
func (c *Client) Embeds(channelID string) []*discordgo.MessageEmbed {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*discordgo.MessageEmbed
	for _, s := range c.Sent {
		if s.ChannelID == channelID && s.Embed != nil {
			out = append(out, s.Embed)
		}
	}
	return out
}

func (c *Client) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	c.Sent = append(c.Sent, Sent{ChannelID: channelID, Content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (c *Client) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	c.Sent = append(c.Sent, Sent{ChannelID: channelID, Embed: embed})
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (c *Client) ChannelMessageSendReply(channelID, content string, ref *discordgo.MessageReference, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	s := Sent{ChannelID: channelID, Content: content}
	if ref != nil {
		s.ReplyTo = ref.MessageID
	}
	c.Sent = append(c.Sent, s)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func (c *Client) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.Deleted = append(c.Deleted, channelID+"/"+messageID)
	return nil
}

func (c *Client) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	m, ok := c.Members[guildID+"/"+userID]
	if !ok {
		return nil, fmt.Errorf("unknown member %s in guild %s", userID, guildID)
	}
	copied := *m
	copied.Roles = slices.Clone(m.Roles)
	return &copied, nil
}

func (c *Client) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return c.changeRole(guildID, userID, roleID, true)
}

func (c *Client) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return c.changeRole(guildID, userID, roleID, false)
}

func (c *Client) changeRole(guildID, userID, roleID string, add bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.Roles = append(c.Roles, RoleChange{GuildID: guildID, UserID: userID, RoleID: roleID, Added: add})
	if m, ok := c.Members[guildID+"/"+userID]; ok {
		if add && !slices.Contains(m.Roles, roleID) {
			m.Roles = append(m.Roles, roleID)
		}
		if !add {
			m.Roles = slices.DeleteFunc(m.Roles, func(r string) bool { return r == roleID })
		}
	}
	return nil
}

func (c *Client) GuildBanCreateWithReason(guildID, userID, reason string, _ int, _ ...discordgo.RequestOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.Bans = append(c.Bans, BanCall{GuildID: guildID, UserID: userID, Reason: reason})
	return nil
}
