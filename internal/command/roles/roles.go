// Package roles holds the commands that toggle a role on mentioned members.
package roles

import (
	"fmt"
	"log"
	"slices"

	"server-warden/internal/command"

	"github.com/bwmarrin/discordgo"
)

// toggleRole flips roleID on every user mentioned in the message. added and
// removed build the channel reply for each outcome.
func toggleRole(ctx *command.MessageContext, roleID string, added, removed func(u *discordgo.User) string) error {
	if roleID == "" {
		return fmt.Errorf("no role configured")
	}

	guildID := ctx.Message.GuildID
	for _, user := range ctx.Message.Mentions {
		member, err := ctx.Client.GuildMember(guildID, user.ID)
		if err != nil {
			log.Printf("[WARN] Could not fetch member %s: %v", user.ID, err)
			continue
		}

		if slices.Contains(member.Roles, roleID) {
			if err := ctx.Client.GuildMemberRoleRemove(guildID, user.ID, roleID); err != nil {
				return fmt.Errorf("remove role %s from %s: %w", roleID, user.ID, err)
			}
			if err := ctx.Send(removed(user)); err != nil {
				return err
			}
			continue
		}

		if err := ctx.Client.GuildMemberRoleAdd(guildID, user.ID, roleID); err != nil {
			return fmt.Errorf("add role %s to %s: %w", roleID, user.ID, err)
		}
		if err := ctx.Send(added(user)); err != nil {
			return err
		}
	}
	return nil
}
