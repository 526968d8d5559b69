// Package github posts links for "<repo>#<number>" references in chat.
package github

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"server-warden/internal/command"
	gh "server-warden/internal/github"

	"github.com/bwmarrin/discordgo"
)

var reference = regexp.MustCompile(`(?i)([a-z]+)?#(\d+)`)

type Classifier interface {
	Classify(ctx context.Context, url string) (gh.Kind, error)
}

type Trigger struct {
	BaseURL string

	once       sync.Once
	classifier Classifier
}

func (t *Trigger) Name() string    { return "github" }
func (t *Trigger) Roles() []string { return nil }

func (t *Trigger) Match(m *discordgo.Message) bool {
	return reference.MatchString(m.Content)
}

func (t *Trigger) Execute(ctx *command.MessageContext) error {
	repos := ctx.Config.GitHubRepos
	client := t.client(ctx)

	timeout := ctx.Config.GitHubTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var errs []error
	for _, ref := range references(ctx.Message.Content) {
		repo, ok := repos[ref.repo]
		if !ok {
			log.Printf("[DEBUG] Unknown repository %q, ignoring the rest of the message", ref.repo)
			break
		}

		url := fmt.Sprintf("%s%s/pull/%s", t.baseURL(), repo, ref.number)
		lookup, cancel := context.WithTimeout(context.Background(), timeout)
		kind, err := client.Classify(lookup, url)
		cancel()
		if errors.Is(err, gh.ErrNotFound) {
			log.Printf("[DEBUG] %s does not exist", url)
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := ctx.Send(fmt.Sprintf("Github %s: %s", kind, url)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Trigger) baseURL() string {
	if t.BaseURL == "" {
		return "https://github.com/"
	}
	return t.BaseURL
}

func (t *Trigger) client(ctx *command.MessageContext) Classifier {
	t.once.Do(func() {
		if t.classifier == nil {
			t.classifier = gh.NewClient(ctx.Config.GitHubTimeout, ctx.Config.GitHubRate)
		}
	})
	return t.classifier
}

type ref struct {
	repo   string
	number string
}

// references returns the references in content, keeping only the first
// occurrence of each repository shorthand. Shorthands keep their case.
func references(content string) []ref {
	var out []ref
	seen := map[string]bool{}
	for _, m := range reference.FindAllStringSubmatch(content, -1) {
		repo := m[1]
		if seen[repo] {
			continue
		}
		seen[repo] = true
		out = append(out, ref{repo: repo, number: m[2]})
	}
	return out
}

func init() {
	command.RegisterTrigger(&Trigger{})
}
