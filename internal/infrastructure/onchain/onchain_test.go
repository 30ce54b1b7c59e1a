package onchain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"lens-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWallet struct {
	chain   entity.Chain
	balance *big.Int
	receipt *entity.TxReceipt
	block   uint64
	err     error

	sentTo     string
	sentAmount *big.Int
	signed     string
	balanceFor string
}

func (w *fakeWallet) Address() string     { return "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23" }
func (w *fakeWallet) Chain() entity.Chain { return w.chain }
func (w *fakeWallet) Balance(ctx context.Context, address string) (*big.Int, error) {
	w.balanceFor = address
	return w.balance, w.err
}
func (w *fakeWallet) SignMessage(ctx context.Context, message string) (string, error) {
	w.signed = message
	return "0xsig", w.err
}
func (w *fakeWallet) SendNative(ctx context.Context, to string, amount *big.Int) (string, error) {
	w.sentTo, w.sentAmount = to, amount
	return "0xhash", w.err
}
func (w *fakeWallet) Receipt(ctx context.Context, txHash string) (*entity.TxReceipt, error) {
	return w.receipt, w.err
}
func (w *fakeWallet) BlockNumber(ctx context.Context) (uint64, error) { return w.block, w.err }
func (w *fakeWallet) Close()                                          {}

func toolNames(t *testing.T, wallet *fakeWallet, plugins ...Plugin) []string {
	t.Helper()
	registry, err := GetOnChainTools(context.Background(), Options{Wallet: wallet, Plugins: plugins})
	require.NoError(t, err)
	var names []string
	for _, def := range registry.Definitions() {
		names = append(names, def.Name.String())
	}
	return names
}

func TestGetOnChainTools_CoreAndLens(t *testing.T) {
	names := toolNames(t, &fakeWallet{chain: entity.LensTestnet}, Lens())

	assert.Equal(t, []string{
		"get_address",
		"get_balance",
		"get_chain",
		"lens_get_block_number",
		"lens_get_transaction_receipt",
		"lens_send_native",
		"sign_message",
	}, names)
}

func TestGetOnChainTools_SkipsUnsupportedPlugin(t *testing.T) {
	other := entity.Chain{ID: 1, Name: "Ethereum", NativeSymbol: "ETH", NativeDecimals: 18}
	names := toolNames(t, &fakeWallet{chain: other}, Lens())

	for _, n := range names {
		assert.False(t, strings.HasPrefix(n, "lens_"), "unexpected lens tool %s", n)
	}
	assert.Len(t, names, 4)
}

func TestGetOnChainTools_Errors(t *testing.T) {
	_, err := GetOnChainTools(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoWallet)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = GetOnChainTools(ctx, Options{Wallet: &fakeWallet{}})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewProvider(Options{}).Tools(context.Background())
	assert.ErrorIs(t, err, ErrNoWallet)
}

func TestGetBalanceTool(t *testing.T) {
	wallet := &fakeWallet{chain: entity.LensTestnet, balance: mustUnits(t, "1.25")}
	tool := NewGetBalanceTool(wallet)

	out, err := tool.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, wallet.Address()+" holds 1.25 GRASS", out)
	assert.Equal(t, "", wallet.balanceFor)

	_, err = tool.Execute(context.Background(), `{"address":"0xabc"}`)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", wallet.balanceFor)
}

func TestGetChainTool(t *testing.T) {
	out, err := NewGetChainTool(&fakeWallet{chain: entity.LensTestnet}).Execute(context.Background(), "{}")
	require.NoError(t, err)
	assert.Contains(t, out, `"id":37111`)
	assert.Contains(t, out, `"native_currency":"GRASS"`)
}

func TestSignMessageTool(t *testing.T) {
	wallet := &fakeWallet{chain: entity.LensTestnet}
	tool := NewSignMessageTool(wallet)

	out, err := tool.Execute(context.Background(), `{"message":"gm"}`)
	require.NoError(t, err)
	assert.Equal(t, "0xsig", out)
	assert.Equal(t, "gm", wallet.signed)

	_, err = tool.Execute(context.Background(), `{}`)
	assert.Error(t, err)

	_, err = tool.Execute(context.Background(), `not json`)
	assert.Error(t, err)
}

func TestSendNativeTool(t *testing.T) {
	wallet := &fakeWallet{chain: entity.LensTestnet}
	tool := NewSendNativeTool(wallet)

	out, err := tool.Execute(context.Background(), `{"to":"0xdead","amount":"0.5"}`)
	require.NoError(t, err)
	assert.Equal(t, "0xdead", wallet.sentTo)
	assert.Equal(t, mustUnits(t, "0.5"), wallet.sentAmount)
	assert.Contains(t, out, "Transaction hash: 0xhash")
	assert.Contains(t, out, entity.LensTestnet.ExplorerURL+"/tx/0xhash")

	_, err = tool.Execute(context.Background(), `{"to":"0xdead","amount":"-1"}`)
	assert.Error(t, err)

	_, err = tool.Execute(context.Background(), `{"amount":"1"}`)
	assert.Error(t, err)
}

func TestSendNativeTool_NamesChainSymbol(t *testing.T) {
	for _, chain := range []entity.Chain{entity.LensTestnet, entity.LensMainnet} {
		tool := NewSendNativeTool(&fakeWallet{chain: chain})

		assert.Equal(t, entity.ToolLensSendNative, tool.Name())
		assert.Contains(t, tool.Description(), chain.NativeSymbol)

		props := tool.Parameters()["properties"].(map[string]interface{})
		amount := props["amount"].(map[string]interface{})
		assert.Contains(t, amount["description"], chain.NativeSymbol)
	}

	out, err := NewSendNativeTool(&fakeWallet{chain: entity.LensMainnet}).
		Execute(context.Background(), `{"to":"0xdead","amount":"2"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Sent 2 GHO to 0xdead")
}

func TestSendNativeTool_WalletError(t *testing.T) {
	wallet := &fakeWallet{chain: entity.LensTestnet, err: errors.New("insufficient funds")}

	_, err := NewSendNativeTool(wallet).Execute(context.Background(), `{"to":"0xdead","amount":"1"}`)
	assert.EqualError(t, err, "insufficient funds")
}

func TestTransactionReceiptTool(t *testing.T) {
	wallet := &fakeWallet{chain: entity.LensTestnet}
	tool := NewTransactionReceiptTool(wallet)

	out, err := tool.Execute(context.Background(), `{"hash":"0x01"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "pending")

	wallet.receipt = &entity.TxReceipt{Hash: "0x01", Success: true, BlockNumber: 5, GasUsed: 21000}
	out, err = tool.Execute(context.Background(), `{"hash":"0x01"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash":"0x01","success":true,"block_number":5,"gas_used":21000}`, out)
}

func TestBlockNumberTool(t *testing.T) {
	out, err := NewBlockNumberTool(&fakeWallet{block: 812}).Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "812", out)
}

func mustUnits(t *testing.T, amount string) *big.Int {
	t.Helper()
	v, err := ParseUnits(amount, 18)
	require.NoError(t, err)
	return v
}
