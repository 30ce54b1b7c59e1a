package onchain

import (
	"context"
	"errors"

	"lens-agent/internal/application/port/output"
	"lens-agent/internal/application/service"
	"lens-agent/internal/domain/entity"
)

var ErrNoWallet = errors.New("onchain: wallet is required")

// Plugin contributes chain specific tools on top of the core wallet tools.
type Plugin interface {
	Name() string
	SupportsChain(chain entity.Chain) bool
	Tools(wallet output.WalletPort) []output.ToolPort
}

type Options struct {
	Wallet  output.WalletPort
	Plugins []Plugin
	Logger  output.LoggerPort
}

// GetOnChainTools assembles the tool set for a wallet and its plugins.
// Plugins that do not support the wallet's chain are skipped.
func GetOnChainTools(ctx context.Context, opts Options) (*service.ToolRegistryImpl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Wallet == nil {
		return nil, ErrNoWallet
	}

	registry := service.NewToolRegistry()
	for _, tool := range coreTools(opts.Wallet) {
		registry.Register(tool)
	}

	chain := opts.Wallet.Chain()
	for _, plugin := range opts.Plugins {
		if !plugin.SupportsChain(chain) {
			if opts.Logger != nil {
				opts.Logger.Warn("Plugin does not support chain, skipping",
					"plugin", plugin.Name(), "chainID", chain.ID)
			}
			continue
		}
		for _, tool := range plugin.Tools(opts.Wallet) {
			registry.Register(tool)
		}
	}

	return registry, nil
}

var _ output.ToolProvider = (*Provider)(nil)

type Provider struct {
	opts Options
}

func NewProvider(opts Options) *Provider {
	return &Provider{opts: opts}
}

func (p *Provider) Tools(ctx context.Context) (output.ToolRegistry, error) {
	registry, err := GetOnChainTools(ctx, p.opts)
	if err != nil {
		return nil, err
	}
	return registry, nil
}
