package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"lens-agent/internal/application/port/output"
	"lens-agent/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var _ output.WalletPort = (*Wallet)(nil)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidTxHash     = errors.New("invalid transaction hash")
)

// chainClient is the subset of ethclient.Client the wallet relies on.
type chainClient interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

type Config struct {
	// PrivateKeyHex is the account key, with or without the 0x prefix.
	PrivateKeyHex string
	RPCURL        string
	Chain         entity.Chain
}

type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chain   entity.Chain
	client  chainClient
}

// NewWallet derives the account and dials the chain RPC over HTTP.
func NewWallet(ctx context.Context, cfg Config) (*Wallet, error) {
	key, err := ParsePrivateKey(cfg.PrivateKeyHex)
	if err != nil {
		return nil, err
	}

	rpcURL := cfg.RPCURL
	if rpcURL == "" {
		rpcURL = cfg.Chain.RPCURL
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", rpcURL, err)
	}

	chain := cfg.Chain
	chain.RPCURL = rpcURL
	return newWallet(key, client, chain), nil
}

func newWallet(key *ecdsa.PrivateKey, client chainClient, chain entity.Chain) *Wallet {
	return &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chain:   chain,
		client:  client,
	}
}

// ParsePrivateKey accepts a 32 byte hex key with an optional 0x prefix.
func ParsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	hexKey := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidPrivateKey, len(hexKey))
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return key, nil
}

func (w *Wallet) Address() string {
	return w.address.Hex()
}

func (w *Wallet) Chain() entity.Chain {
	return w.chain
}

// Balance returns the native balance in wei. An empty address means the
// wallet's own account.
func (w *Wallet) Balance(ctx context.Context, address string) (*big.Int, error) {
	account := w.address
	if address != "" {
		parsed, err := parseAddress(address)
		if err != nil {
			return nil, err
		}
		account = parsed
	}

	balance, err := w.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

// SignMessage produces an EIP-191 personal signature with v in {27, 28}.
func (w *Wallet) SignMessage(ctx context.Context, message string) (string, error) {
	hash := accounts.TextHash([]byte(message))
	sig, err := crypto.Sign(hash, w.key)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// SendNative signs and broadcasts a transfer of amount wei to the given
// address. It returns the transaction hash without waiting for inclusion.
func (w *Wallet) SendNative(ctx context.Context, to string, amount *big.Int) (string, error) {
	recipient, err := parseAddress(to)
	if err != nil {
		return "", err
	}
	if amount == nil || amount.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return "", fmt.Errorf("get nonce: %w", err)
	}

	gas, err := w.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.address,
		To:    &recipient,
		Value: amount,
	})
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", err)
	}

	tx, err := w.buildTx(ctx, nonce, gas, recipient, amount)
	if err != nil {
		return "", err
	}

	chainID := big.NewInt(w.chain.ID)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// buildTx prefers a dynamic fee transaction and falls back to a legacy one
// when the latest header carries no base fee.
func (w *Wallet) buildTx(ctx context.Context, nonce, gas uint64, to common.Address, amount *big.Int) (*types.Transaction, error) {
	head, err := w.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get latest header: %w", err)
	}

	if head.BaseFee == nil {
		gasPrice, err := w.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("suggest gas price: %w", err)
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Value:    amount,
		}), nil
	}

	tip, err := w.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas tip: %w", err)
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(w.chain.ID),
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     amount,
	}), nil
}

func (w *Wallet) Receipt(ctx context.Context, txHash string) (*entity.TxReceipt, error) {
	raw, err := hexutil.Decode(txHash)
	if err != nil || len(raw) != common.HashLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTxHash, txHash)
	}

	receipt, err := w.client.TransactionReceipt(ctx, common.BytesToHash(raw))
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	result := &entity.TxReceipt{
		Hash:    receipt.TxHash.Hex(),
		Success: receipt.Status == types.ReceiptStatusSuccessful,
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return result, nil
}

func (w *Wallet) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := w.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	return n, nil
}

func (w *Wallet) Close() {
	if w.client != nil {
		w.client.Close()
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
