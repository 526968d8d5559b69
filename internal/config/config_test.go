package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_LOGIN_TOKEN", "token")
	t.Setenv("DISCORD_RULES_TRIGGER", "i agree")
	t.Setenv("DISCORD_RULES_ROLE", "100")
	t.Setenv("DISCORD_LOG_CHANNEL", "200")
	t.Setenv("DISCORD_MSGLOG_CHANNEL", "300")
}

func TestLoadDefaults(t *testing.T) {
	assert := assert.New(t)
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(".", cfg.CommandPrefix)
	assert.Equal("417319307844780034", cfg.AuthorizedRole)
	assert.Equal([]string{"Admins", "Moderators", "CitraBot"}, cfg.ModeratorRoles)
	assert.Equal(3, cfg.WarnBanThreshold)
	assert.Equal(5*time.Minute, cfg.ReconnectTimeout)
	assert.Equal(map[string]string{"citra": "citra-emu/citra", "yuzu": "yuzu-emu/yuzu"}, cfg.GitHubRepos)
	assert.True(cfg.IsIgnoredCategory("website"))
	assert.False(cfg.IsIgnoredCategory("general"))
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCORD_RULES_TRIGGER", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	assert := assert.New(t)
	setRequired(t)
	t.Setenv("DISABLED_MODULES", "Ban, warn")
	t.Setenv("GITHUB_REPOS", " Dolphin : dolphin-emu/dolphin")
	t.Setenv("COMMAND_PREFIX", "!")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal("!", cfg.CommandPrefix)
	assert.True(cfg.IsModuleDisabled("ban"))
	assert.True(cfg.IsModuleDisabled("WARN"))
	assert.False(cfg.IsModuleDisabled("quote"))
	assert.Equal(map[string]string{"Dolphin": "dolphin-emu/dolphin"}, cfg.GitHubRepos)
}

func TestLoadRejectsNegativeThreshold(t *testing.T) {
	setRequired(t)
	t.Setenv("WARN_BAN_THRESHOLD", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadPrefix(t *testing.T) {
	t.Setenv("COMMAND_PREFIX", "!")
	prefix, err := LoadPrefix()
	require.NoError(t, err)
	assert.Equal(t, "!", prefix)
}
