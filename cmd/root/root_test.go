package root_test

import (
	"testing"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "up-budget", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Up Bank")
	assert.Contains(t, root.Cmd.Long, "UP_API_TOKEN")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	if root.Cmd.PersistentFlags().Lookup("format") == nil {
		root.Init()
	}

	format := root.Cmd.PersistentFlags().Lookup("format")
	if assert.NotNil(t, format) {
		assert.Equal(t, "f", format.Shorthand)
		assert.Equal(t, "text", format.DefValue)
	}
	for _, name := range []string{"config", "log-level", "log-format", "mock"} {
		assert.NotNil(t, root.Cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	root.ApplyFlags(cfg, root.CommonFlags{})
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.UpAPI.Mock)

	cfg.UpAPI.Token = "secret"
	root.ApplyFlags(cfg, root.CommonFlags{LogLevel: "debug", LogFormat: "json", Mock: true})
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.MockMode())
}
