package quote

import (
	"testing"

	"server-warden/internal/command"
	"server-warden/internal/command/commandtest"
	"server-warden/internal/responses"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	resp := &responses.Responses{Quotes: map[string]responses.Quote{
		"faq":   {Reply: "Read the FAQ."},
		"empty": {},
	}}

	tests := []struct {
		name     string
		invoked  string
		args     []string
		mentions []string
		want     []string
	}{
		{name: "plain", invoked: "faq", want: []string{"Read the FAQ."}},
		{name: "mentions", invoked: "faq", mentions: []string{"1", "2"}, want: []string{"<@1> <@2> Read the FAQ."}},
		{name: "by argument", invoked: "quote", args: []string{"faq"}, want: []string{"Read the FAQ."}},
		{name: "case sensitive", invoked: "FAQ"},
		{name: "empty reply", invoked: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := commandtest.NewClient()
			msg := &discordgo.Message{ChannelID: "c1", GuildID: "g1"}
			for _, id := range tt.mentions {
				msg.Mentions = append(msg.Mentions, &discordgo.User{ID: id})
			}
			ctx := &command.MessageContext{Client: client, Message: msg, Invoked: tt.invoked, Args: tt.args, Responses: resp}

			assert.NoError(t, (&QuoteCommand{}).Run(ctx))
			assert.Equal(t, tt.want, client.Contents("c1"))
		})
	}
}
