package onchain

import (
	"context"
	"encoding/json"
	"fmt"

	"lens-agent/internal/application/port/output"
	"lens-agent/internal/domain/entity"
)

type lensPlugin struct{}

// Lens returns the plugin with Lens Chain specific tools.
func Lens() Plugin {
	return lensPlugin{}
}

func (lensPlugin) Name() string { return "lens" }

func (lensPlugin) SupportsChain(chain entity.Chain) bool {
	return chain.ID == entity.LensTestnet.ID || chain.ID == entity.LensMainnet.ID
}

func (lensPlugin) Tools(wallet output.WalletPort) []output.ToolPort {
	return []output.ToolPort{
		NewSendNativeTool(wallet),
		NewTransactionReceiptTool(wallet),
		NewBlockNumberTool(wallet),
	}
}

type SendNativeTool struct {
	wallet output.WalletPort
}

func NewSendNativeTool(wallet output.WalletPort) *SendNativeTool {
	return &SendNativeTool{wallet: wallet}
}

func (t *SendNativeTool) Name() entity.ToolName { return entity.ToolLensSendNative }
func (t *SendNativeTool) Description() string {
	return fmt.Sprintf("Sends %s, the native token of %s, from the agent's wallet to an address. Returns the transaction hash.",
		t.wallet.Chain().NativeSymbol, t.wallet.Chain().Name)
}
func (t *SendNativeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"to": map[string]interface{}{
				"type":        "string",
				"description": "0x-prefixed recipient address",
			},
			"amount": map[string]interface{}{
				"type":        "string",
				"description": fmt.Sprintf("Amount in whole %s, e.g. \"0.5\"", t.wallet.Chain().NativeSymbol),
			},
		},
		"required": []string{"to", "amount"},
	}
}

func (t *SendNativeTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		To     string `json:"to"`
		Amount string `json:"amount"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if input.To == "" {
		return "", fmt.Errorf("to parameter is required")
	}

	chain := t.wallet.Chain()
	value, err := ParseUnits(input.Amount, chain.NativeDecimals)
	if err != nil {
		return "", err
	}

	hash, err := t.wallet.SendNative(ctx, input.To, value)
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("Sent %s %s to %s. Transaction hash: %s", input.Amount, chain.NativeSymbol, input.To, hash)
	if chain.ExplorerURL != "" {
		msg += fmt.Sprintf(" (%s/tx/%s)", chain.ExplorerURL, hash)
	}
	return msg, nil
}

type TransactionReceiptTool struct {
	wallet output.WalletPort
}

func NewTransactionReceiptTool(wallet output.WalletPort) *TransactionReceiptTool {
	return &TransactionReceiptTool{wallet: wallet}
}

func (t *TransactionReceiptTool) Name() entity.ToolName { return entity.ToolLensTransactionReceipt }
func (t *TransactionReceiptTool) Description() string {
	return "Looks up the receipt of a Lens Chain transaction by hash."
}
func (t *TransactionReceiptTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"hash": map[string]interface{}{
				"type":        "string",
				"description": "0x-prefixed transaction hash",
			},
		},
		"required": []string{"hash"},
	}
}

func (t *TransactionReceiptTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Hash string `json:"hash"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	receipt, err := t.wallet.Receipt(ctx, input.Hash)
	if err != nil {
		return "", err
	}
	if receipt == nil {
		return fmt.Sprintf("Transaction %s is pending or unknown", input.Hash), nil
	}

	data, err := json.Marshal(receipt)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type BlockNumberTool struct {
	wallet output.WalletPort
}

func NewBlockNumberTool(wallet output.WalletPort) *BlockNumberTool {
	return &BlockNumberTool{wallet: wallet}
}

func (t *BlockNumberTool) Name() entity.ToolName { return entity.ToolLensBlockNumber }
func (t *BlockNumberTool) Description() string {
	return "Returns the latest Lens Chain block number."
}
func (t *BlockNumberTool) Parameters() map[string]interface{} { return emptyParameters() }

func (t *BlockNumberTool) Execute(ctx context.Context, args string) (string, error) {
	n, err := t.wallet.BlockNumber(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n), nil
}
