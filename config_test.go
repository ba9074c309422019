package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		bind:           "127.0.0.1",
		port:           8080,
		numberMin:      1,
		numberMax:      100,
		numberAttempts: 3,
		matrixSize:     3,
		matrixAttempts: 3,
		matrixMemorize: 5 * time.Second,
		quizQuestions:  5,
		quizOptions:    3,
		llmModel:       "openai/gpt-oss-120b",
		llmTimeout:     time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "tls cert without key", mutate: func(c *Config) { c.tlsCert = "cert.pem" }, wantErr: "--tls-key"},
		{name: "port zero", mutate: func(c *Config) { c.port = 0 }, wantErr: "invalid port"},
		{name: "port too large", mutate: func(c *Config) { c.port = 70000 }, wantErr: "invalid port"},
		{name: "password and hash", mutate: func(c *Config) { c.password = "a"; c.passwordHash = "b" }, wantErr: "only one of"},
		{name: "empty number range", mutate: func(c *Config) { c.numberMin = 10; c.numberMax = 10 }, wantErr: "number range"},
		{name: "no number attempts", mutate: func(c *Config) { c.numberAttempts = 0 }, wantErr: "attempts"},
		{name: "matrix too large", mutate: func(c *Config) { c.matrixSize = 10 }, wantErr: "matrix size"},
		{name: "no matrix attempts", mutate: func(c *Config) { c.matrixAttempts = 0 }, wantErr: "matrix attempts"},
		{name: "no quiz questions", mutate: func(c *Config) { c.quizQuestions = 0 }, wantErr: "quiz questions"},
		{name: "single quiz option", mutate: func(c *Config) { c.quizOptions = 1 }, wantErr: "quiz options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("FOODFEST_NUMBER_MAX", "50")
	t.Setenv("FOODFEST_MATRIX_MEMORIZE", "10s")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, 50, cfg.numberMax)
	assert.Equal(t, 10*time.Second, cfg.matrixMemorize)
	assert.Equal(t, 3, cfg.quizOptions)
	assert.NoError(t, cfg.validate())
}

func TestConfigFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FOODFEST_PORT", "9000")

	cfg := &Config{}
	cmd := newCmd(cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9100"}))

	assert.Equal(t, 9100, cfg.port)
}
