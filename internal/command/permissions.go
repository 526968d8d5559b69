package command

import "slices"

// ModeratorRoles are the role names allowed to run moderation commands.
// main replaces the defaults from configuration before the session opens.
var ModeratorRoles = []string{"Admins", "Moderators", "CitraBot"}

// SetModeratorRoles overrides ModeratorRoles. Empty input keeps the defaults.
func SetModeratorRoles(roles []string) {
	if len(roles) == 0 {
		return
	}
	ModeratorRoles = slices.Clone(roles)
}

// HasAnyRole reports whether any of the author's roles is in allowed.
func HasAnyRole(authorRoles, allowed []string) bool {
	for _, r := range allowed {
		if slices.Contains(authorRoles, r) {
			return true
		}
	}
	return false
}

// Permitted reports whether an author may use a handler gated by required.
// A nil or empty list allows everyone.
func Permitted(authorRoles, required []string) bool {
	if len(required) == 0 {
		return true
	}
	return HasAnyRole(authorRoles, required)
}

// EmbedColor is the accent colour of the bot's own embeds.
const EmbedColor = 0xf76b1c
