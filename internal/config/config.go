// /internal/config/config.go
package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken      string `env:"DISCORD_LOGIN_TOKEN,required,notEmpty"`
	RulesTrigger      string `env:"DISCORD_RULES_TRIGGER,required,notEmpty"`
	RulesRole         string `env:"DISCORD_RULES_ROLE,required,notEmpty"`
	LogChannel        string `env:"DISCORD_LOG_CHANNEL,required,notEmpty"`
	MessageLogChannel string `env:"DISCORD_MSGLOG_CHANNEL,required,notEmpty"`
	RulesChannel      string `env:"DISCORD_RULES_CHANNEL"`
	MediaChannel      string `env:"DISCORD_MEDIA_CHANNEL"`
	DeveloperRole     string `env:"DISCORD_DEVELOPER_ROLE"`
	AuthorizedRole    string `env:"DISCORD_AUTHORIZED_ROLE" envDefault:"417319307844780034"`

	CommandPrefix     string   `env:"COMMAND_PREFIX" envDefault:"."`
	DisabledModules   []string `env:"DISABLED_MODULES" envSeparator:","`
	DisabledTriggers  []string `env:"DISABLED_TRIGGERS" envSeparator:","`
	IgnoredCategories []string `env:"IGNORED_CATEGORIES" envSeparator:"," envDefault:"internal-development,internal-general,internal-casual,website"`
	PrivilegedRoles   []string `env:"PRIVILEGED_ROLES" envSeparator:"," envDefault:"Administrators,Moderators,Team,VIP"`
	ModeratorRoles    []string `env:"MODERATOR_ROLES" envSeparator:"," envDefault:"Admins,Moderators,CitraBot"`
	WarnBanThreshold  int      `env:"WARN_BAN_THRESHOLD" envDefault:"3"`

	StoragePath         string `env:"DATA_PATH" envDefault:"data/datastore.json"`
	ResponsesPath       string `env:"RESPONSES_PATH" envDefault:"responses.json"`
	CustomResponsesPath string `env:"DATA_CUSTOM_RESPONSES"`

	MessageCacheSize int           `env:"MESSAGE_CACHE_SIZE" envDefault:"500"`
	ReconnectTimeout time.Duration `env:"RECONNECT_TIMEOUT" envDefault:"5m"`

	GitHubRepos   map[string]string `env:"GITHUB_REPOS" envDefault:"citra:citra-emu/citra,yuzu:yuzu-emu/yuzu"`
	GitHubTimeout time.Duration     `env:"GITHUB_TIMEOUT" envDefault:"10s"`
	GitHubRate    float64           `env:"GITHUB_RATE" envDefault:"2"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"logs/bot.log"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CommandPrefix == "" {
		return nil, fmt.Errorf("COMMAND_PREFIX cannot be empty")
	}
	if cfg.WarnBanThreshold < 0 {
		return nil, fmt.Errorf("WARN_BAN_THRESHOLD cannot be negative")
	}

	normalized := make(map[string]string, len(cfg.GitHubRepos))
	for short, repo := range cfg.GitHubRepos {
		normalized[strings.TrimSpace(short)] = strings.TrimSpace(repo)
	}
	cfg.GitHubRepos = normalized

	return &cfg, nil
}

// LoadPrefix reads only COMMAND_PREFIX, for tools that run without bot credentials.
func LoadPrefix() (string, error) {
	cfg, err := env.ParseAs[struct {
		CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"."`
	}]()
	if err != nil {
		return "", fmt.Errorf("parse env: %w", err)
	}
	if cfg.CommandPrefix == "" {
		return "", fmt.Errorf("COMMAND_PREFIX cannot be empty")
	}
	return cfg.CommandPrefix, nil
}

// New loads the configuration and exits the process if it is invalid.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// IsIgnoredCategory reports whether channels under the named category are excluded
// from the message log.
func (c *Config) IsIgnoredCategory(name string) bool {
	return slices.Contains(c.IgnoredCategories, name)
}

// IsModuleDisabled reports whether a command module is switched off.
func (c *Config) IsModuleDisabled(name string) bool {
	return containsFold(c.DisabledModules, name)
}

// IsTriggerDisabled reports whether a trigger is switched off.
func (c *Config) IsTriggerDisabled(name string) bool {
	return containsFold(c.DisabledTriggers, name)
}

func containsFold(list []string, name string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), name) {
			return true
		}
	}
	return false
}
