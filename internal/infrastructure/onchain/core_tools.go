package onchain

import (
	"context"
	"encoding/json"
	"fmt"

	"lens-agent/internal/application/port/output"
	"lens-agent/internal/domain/entity"
)

// coreTools are available on every chain the wallet is bound to.
func coreTools(wallet output.WalletPort) []output.ToolPort {
	return []output.ToolPort{
		NewGetAddressTool(wallet),
		NewGetChainTool(wallet),
		NewGetBalanceTool(wallet),
		NewSignMessageTool(wallet),
	}
}

func emptyParameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

// decodeArgs tolerates the empty argument string some models send for
// parameterless calls.
func decodeArgs(args string, v any) error {
	if args == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid input format: %w", err)
	}
	return nil
}

type GetAddressTool struct {
	wallet output.WalletPort
}

func NewGetAddressTool(wallet output.WalletPort) *GetAddressTool {
	return &GetAddressTool{wallet: wallet}
}

func (t *GetAddressTool) Name() entity.ToolName { return entity.ToolGetAddress }
func (t *GetAddressTool) Description() string {
	return "Returns the address of the agent's wallet."
}
func (t *GetAddressTool) Parameters() map[string]interface{} { return emptyParameters() }

func (t *GetAddressTool) Execute(ctx context.Context, args string) (string, error) {
	return t.wallet.Address(), nil
}

type GetChainTool struct {
	wallet output.WalletPort
}

func NewGetChainTool(wallet output.WalletPort) *GetChainTool {
	return &GetChainTool{wallet: wallet}
}

func (t *GetChainTool) Name() entity.ToolName { return entity.ToolGetChain }
func (t *GetChainTool) Description() string {
	return "Returns the chain the wallet is connected to: id, name and native currency."
}
func (t *GetChainTool) Parameters() map[string]interface{} { return emptyParameters() }

func (t *GetChainTool) Execute(ctx context.Context, args string) (string, error) {
	chain := t.wallet.Chain()
	data, err := json.Marshal(map[string]any{
		"id":              chain.ID,
		"name":            chain.Name,
		"native_currency": chain.NativeSymbol,
		"decimals":        chain.NativeDecimals,
		"explorer":        chain.ExplorerURL,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type GetBalanceTool struct {
	wallet output.WalletPort
}

func NewGetBalanceTool(wallet output.WalletPort) *GetBalanceTool {
	return &GetBalanceTool{wallet: wallet}
}

func (t *GetBalanceTool) Name() entity.ToolName { return entity.ToolGetBalance }
func (t *GetBalanceTool) Description() string {
	return "Returns the native token balance of an address. Defaults to the agent's own wallet."
}
func (t *GetBalanceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"address": map[string]interface{}{
				"type":        "string",
				"description": "0x-prefixed address to query. Omit for the agent's wallet.",
			},
		},
		"required": []string{},
	}
}

func (t *GetBalanceTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Address string `json:"address"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	balance, err := t.wallet.Balance(ctx, input.Address)
	if err != nil {
		return "", err
	}

	chain := t.wallet.Chain()
	owner := input.Address
	if owner == "" {
		owner = t.wallet.Address()
	}
	return fmt.Sprintf("%s holds %s %s", owner, FormatUnits(balance, chain.NativeDecimals), chain.NativeSymbol), nil
}

type SignMessageTool struct {
	wallet output.WalletPort
}

func NewSignMessageTool(wallet output.WalletPort) *SignMessageTool {
	return &SignMessageTool{wallet: wallet}
}

func (t *SignMessageTool) Name() entity.ToolName { return entity.ToolSignMessage }
func (t *SignMessageTool) Description() string {
	return "Signs a plain text message with the agent's wallet (EIP-191) and returns the signature."
}
func (t *SignMessageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Message to sign",
			},
		},
		"required": []string{"message"},
	}
}

func (t *SignMessageTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Message string `json:"message"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if input.Message == "" {
		return "", fmt.Errorf("message parameter is required")
	}
	return t.wallet.SignMessage(ctx, input.Message)
}
