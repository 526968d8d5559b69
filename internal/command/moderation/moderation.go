// Package moderation holds the warning and ban commands.
package moderation

import (
	"regexp"
	"strings"

	"server-warden/internal/command"
)

const category = "🛡️ Moderation"

var mentionToken = regexp.MustCompile(`^<@!?\d+>$`)

// reasonFrom joins the arguments that are not user mentions.
func reasonFrom(args []string) string {
	var words []string
	for _, a := range args {
		if !mentionToken.MatchString(a) {
			words = append(words, a)
		}
	}
	return strings.Join(words, " ")
}

func authorMention(ctx *command.MessageContext) string {
	if ctx.Message.Author == nil {
		return "someone"
	}
	return ctx.Message.Author.Mention()
}

func authorName(ctx *command.MessageContext) string {
	if ctx.Message.Author == nil {
		return ""
	}
	return ctx.Message.Author.Username
}

func usage(ctx *command.MessageContext, name string) error {
	return ctx.Send("Usage: `" + ctx.Prefix() + name + " @user [reason]`")
}
