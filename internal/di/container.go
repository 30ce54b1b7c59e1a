package di

import (
	"context"
	"fmt"

	"lens-agent/internal/application/port/input"
	"lens-agent/internal/application/port/output"
	"lens-agent/internal/domain/entity"
	"lens-agent/internal/infrastructure/llm/openai"
	"lens-agent/internal/infrastructure/onchain"
	"lens-agent/internal/infrastructure/wallet/evm"
	"lens-agent/internal/usecase/chat"
	"lens-agent/internal/usecase/executor"
)

type Container struct {
	Chain    entity.Chain
	Wallet   output.WalletPort
	LLM      output.LLMPort
	Logger   output.LoggerPort
	Tools    output.ToolProvider
	Agent    input.ChatAgent
	Sessions *chat.Store
}

// NewContainer validates cfg and wires the wallet, the model and the
// tool provider behind a session store. The logger is owned by the caller.
func NewContainer(ctx context.Context, cfg Config, log output.LoggerPort) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	chain, _ := entity.ChainByID(cfg.ChainID)

	wallet, err := evm.NewWallet(ctx, evm.Config{
		PrivateKeyHex: cfg.AccountKey,
		RPCURL:        cfg.RPCEndpoint,
		Chain:         chain,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	llmCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	}
	llmCfg.BaseURL = cfg.BaseURL
	llmCfg.Logger = log.WithField("component", "llm")
	llm := openai.NewAdapter(llmCfg)

	tools := onchain.NewProvider(onchain.Options{
		Wallet:  wallet,
		Plugins: []onchain.Plugin{onchain.Lens()},
		Logger:  log.WithField("component", "onchain"),
	})

	agentCfg := executor.DefaultConfig()
	agentCfg.ChainName = chain.Name
	agent := executor.New(llm, tools, log.WithField("component", "agent"), agentCfg)

	sessionLog := log.WithField("component", "chat")
	sessions := chat.NewStore(func() *chat.Session {
		return chat.NewSession(agent, sessionLog)
	})

	log.Info("Container ready",
		"chain", chain.Name,
		"chainId", chain.ID,
		"address", wallet.Address(),
		"model", llm.Model())

	return &Container{
		Chain:    chain,
		Wallet:   wallet,
		LLM:      llm,
		Logger:   log,
		Tools:    tools,
		Agent:    agent,
		Sessions: sessions,
	}, nil
}

// NewSession returns a standalone session outside the store, as used by
// the terminal chat.
func (c *Container) NewSession() *chat.Session {
	return chat.NewSession(c.Agent, c.Logger.WithField("component", "chat"))
}

// Close waits for in-flight turns until ctx is done, then releases the RPC
// connection. Turns abandoned at the deadline are reported in the error.
func (c *Container) Close(ctx context.Context) error {
	var err error
	if c.Sessions != nil {
		err = c.Sessions.Close(ctx)
	}
	if c.Wallet != nil {
		c.Wallet.Close()
	}
	return err
}
