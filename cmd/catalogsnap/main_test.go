package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommands_SettingsMode verifies which commands resolve settings and how
func TestCommands_SettingsMode(t *testing.T) {
	tests := []struct {
		name string
		mode settingsMode
	}{
		{name: "run", mode: settingsStrict},
		{name: "history", mode: settingsLenient},
		{name: "show", mode: settingsLenient},
		{name: "delete", mode: settingsLenient},
		{name: "serve", mode: settingsLenient},
		{name: "init", mode: settingsNone},
		{name: "help", mode: settingsNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := commands[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.mode, cmd.settings)
			assert.NotNil(t, cmd.handle)
		})
	}
	assert.Len(t, commands, len(tests))
}
