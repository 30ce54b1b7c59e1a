package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lens-agent/internal/infrastructure/env"
	"lens-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func validConfig() Config {
	return Config{
		APIKey:      "sk-test",
		AccountKey:  "0x" + testKey,
		RPCEndpoint: "http://127.0.0.1:8545",
		Model:       "gpt-4o",
		Addr:        DefaultAddr,
		ChainID:     DefaultChainID,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "key without prefix", mutate: func(c *Config) { c.AccountKey = testKey }},
		{name: "missing api key", mutate: func(c *Config) { c.APIKey = " " }, wantErr: "OPENAI_API_KEY is required"},
		{name: "missing account key", mutate: func(c *Config) { c.AccountKey = "" }, wantErr: "WALLET_PRIVATE_KEY is required"},
		{name: "short account key", mutate: func(c *Config) { c.AccountKey = "0xabc" }, wantErr: "must be 64 hex characters, got 3"},
		{name: "non hex account key", mutate: func(c *Config) { c.AccountKey = testKey[:63] + "z" }, wantErr: "not valid hex"},
		{name: "missing rpc", mutate: func(c *Config) { c.RPCEndpoint = "" }, wantErr: "LENS_RPC_URL is required"},
		{name: "ws rpc", mutate: func(c *Config) { c.RPCEndpoint = "ws://node" }, wantErr: "scheme must be http or https"},
		{name: "bad base url", mutate: func(c *Config) { c.BaseURL = "gateway" }, wantErr: "OPENAI_BASE_URL"},
		{name: "unknown chain", mutate: func(c *Config) { c.ChainID = 1 }, wantErr: "CHAIN_ID 1 is not a supported chain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	err := Config{ChainID: DefaultChainID}.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)

	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "WALLET_PRIVATE_KEY")
	assert.Contains(t, err.Error(), "LENS_RPC_URL")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"OPENAI_API_KEY=sk-file\nWALLET_PRIVATE_KEY="+testKey+"\nLENS_RPC_URL=https://rpc.testnet.lens.dev\n",
	), 0o600))

	for _, k := range []string{"OPENAI_API_KEY", "WALLET_PRIVATE_KEY", "LENS_RPC_URL", "OPENAI_MODEL", "OPENAI_BASE_URL", "HTTP_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("APP_ENV", "test")
	t.Setenv("CHAIN_ID", "232")

	cfg := LoadConfig(env.NewEnvService(dir, logger.NewNop()))

	assert.Equal(t, "sk-file", cfg.APIKey)
	assert.Equal(t, testKey, cfg.AccountKey)
	assert.Equal(t, "https://rpc.testnet.lens.dev", cfg.RPCEndpoint)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, int64(232), cfg.ChainID)
	assert.NoError(t, cfg.Validate())
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(context.Background(), validConfig(), logger.NewNop())
	require.NoError(t, err)
	defer c.Close(context.Background())

	assert.Equal(t, "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", c.Wallet.Address())
	assert.Equal(t, int64(37111), c.Chain.ID)

	tools, err := c.Tools.Tools(context.Background())
	require.NoError(t, err)
	assert.Len(t, tools.All(), 7)

	s := c.Sessions.GetOrCreate("browser")
	assert.Len(t, s.Snapshot().Messages, 1)
	assert.Len(t, c.NewSession().Snapshot().Messages, 1)
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = ""

	_, err := NewContainer(context.Background(), cfg, logger.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
