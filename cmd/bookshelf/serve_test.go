package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/bookshelf-server/internal/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
	}{
		{provider: "", wantName: "Anthropic"},
		{provider: "anthropic", wantName: "Anthropic"},
		{provider: " Gemini ", wantName: "Gemini"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := newProvider(config.AI{Provider: tt.provider, APIKey: "key", Timeout: time.Second})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
			assert.True(t, p.Configured())
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := newProvider(config.AI{Provider: "openai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown AI provider "openai"`)
}

func TestNewStorage_Disabled(t *testing.T) {
	s, err := newStorage(context.Background(), config.Storage{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "sessions"}, names)
}
