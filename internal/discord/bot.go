package discord

import (
	"context"
	"fmt"
	"log"

	"server-warden/internal/command"
	"server-warden/internal/config"
	"server-warden/internal/responses"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2"
)

const mediaCacheSize = 4096

// Bot is the Discord side of the warden: it owns the session and turns
// gateway events into command, trigger and logging calls.
type Bot struct {
	cfg       *config.Config
	storage   *storage.Storage
	responses *responses.Responses
	commands  *cmd.Registry
	triggers  []command.Trigger

	client   command.Client
	resolver resolver
	media    *lru.Cache[string, bool]

	ctx       context.Context
	fatal     chan error
	reconnect *restartTimer
}

// NewBot builds a bot from the commands and triggers registered at init time,
// leaving out the ones disabled in configuration.
func NewBot(cfg *config.Config, store *storage.Storage, resp *responses.Responses) *Bot {
	return newBot(cfg, store, resp, loadModules(cfg, cmd.DefaultRegistry), loadTriggers(cfg, command.DefaultTriggers))
}

func newBot(cfg *config.Config, store *storage.Storage, resp *responses.Responses, commands *cmd.Registry, triggers []command.Trigger) *Bot {
	media, _ := lru.New[string, bool](mediaCacheSize)
	return &Bot{
		cfg:       cfg,
		storage:   store,
		responses: resp,
		commands:  commands,
		triggers:  triggers,
		media:     media,
		ctx:       context.Background(),
		fatal:     make(chan error, 1),
		reconnect: newRestartTimer(cfg.ReconnectTimeout),
	}
}

// Run connects to Discord and blocks until ctx is cancelled. It returns an
// error when the session cannot be opened, when the ready checks fail or
// when the connection stays down longer than the reconnect timeout.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.State.MaxMessageCount = b.cfg.MessageCacheSize

	b.ctx = ctx
	b.client = &sessionClient{dg}
	b.resolver = &sessionResolver{dg}

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildMemberAdd)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageDelete)
	dg.AddHandler(b.onMessageUpdate)
	dg.AddHandler(b.onConnect)
	dg.AddHandler(b.onResumed)
	dg.AddHandler(b.onDisconnect)
	dg.AddHandler(b.onRateLimit)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()
	defer b.reconnect.stop()

	log.Println("[INFO] Startup completed. Established connection to Discord.")

	select {
	case <-ctx.Done():
		log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
		return nil
	case err := <-b.fatal:
		return err
	case <-b.reconnect.fired():
		return fmt.Errorf("disconnected from Discord for longer than %s", b.cfg.ReconnectTimeout)
	}
}

// fail stops Run with err. Only the first error is kept.
func (b *Bot) fail(err error) {
	select {
	case b.fatal <- err:
	default:
	}
}

func loadModules(cfg *config.Config, all *cmd.Registry) *cmd.Registry {
	reg := cmd.NewRegistry()
	for _, c := range all.GetAll() {
		if cfg.IsModuleDisabled(c.Name()) {
			log.Printf("[INFO] Did not load disabled module: %s", c.Name())
			continue
		}
		log.Printf("[INFO] Loaded module: %s", c.Name())
		reg.Register(c)
	}
	return reg
}

func loadTriggers(cfg *config.Config, all *command.TriggerList) []command.Trigger {
	var out []command.Trigger
	for _, t := range all.All() {
		if cfg.IsTriggerDisabled(t.Name()) {
			log.Printf("[INFO] Did not load disabled trigger: %s", t.Name())
			continue
		}
		log.Printf("[INFO] Loaded trigger: %s", t.Name())
		out = append(out, t)
	}
	return out
}
