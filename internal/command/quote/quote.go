package quote

import (
	"strings"

	"server-warden/internal/command"
	"server-warden/internal/middleware"
)

// QuoteCommand serves the canned replies from the responses file. The
// dispatcher runs it with Invoked set to the quote name; ".quote <name>"
// works as well.
type QuoteCommand struct{}

func (c *QuoteCommand) Name() string        { return "quote" }
func (c *QuoteCommand) Description() string { return "Post a saved reply, mentioning anyone you tag" }
func (c *QuoteCommand) Category() string    { return "💬 Quotes" }
func (c *QuoteCommand) Roles() []string     { return nil }

func (c *QuoteCommand) Run(ctx *command.MessageContext) error {
	q, ok := ctx.Responses.Quote(ctx.Invoked)
	if !ok && len(ctx.Args) > 0 {
		q, ok = ctx.Responses.Quote(ctx.Args[0])
	}
	if !ok || q.Reply == "" {
		return nil
	}

	reply := q.Reply
	if len(ctx.Message.Mentions) > 0 {
		mentions := make([]string, len(ctx.Message.Mentions))
		for i, u := range ctx.Message.Mentions {
			mentions[i] = u.Mention()
		}
		reply = strings.Join(mentions, " ") + " " + reply
	}
	return ctx.Send(reply)
}

func init() {
	command.RegisterCommand(&QuoteCommand{}, middleware.Defaults()...)
}
