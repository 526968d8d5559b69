package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// resolver answers the lookups the handlers need beyond command.Client.
type resolver interface {
	// RoleNames maps role IDs of a guild to role names. The result is
	// non-nil on success, even when roleIDs is empty.
	RoleNames(guildID string, roleIDs []string) ([]string, error)
	Channel(channelID string) (*discordgo.Channel, error)
}

// sessionClient prefers the state cache for member lookups.
type sessionClient struct {
	*discordgo.Session
}

func (c *sessionClient) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	if m, err := c.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return c.Session.GuildMember(guildID, userID, options...)
}

type sessionResolver struct {
	s *discordgo.Session
}

func (r *sessionResolver) RoleNames(guildID string, roleIDs []string) ([]string, error) {
	names := make([]string, 0, len(roleIDs))
	var fetched map[string]string

	for _, id := range roleIDs {
		if role, err := r.s.State.Role(guildID, id); err == nil {
			names = append(names, role.Name)
			continue
		}

		if fetched == nil {
			roles, err := r.s.GuildRoles(guildID)
			if err != nil {
				return nil, fmt.Errorf("fetch roles of guild %s: %w", guildID, err)
			}
			fetched = make(map[string]string, len(roles))
			for _, role := range roles {
				fetched[role.ID] = role.Name
			}
		}
		if name, ok := fetched[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (r *sessionResolver) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, err := r.s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	return r.s.Channel(channelID)
}
