package output

import (
	"context"
	"math/big"

	"lens-agent/internal/domain/entity"
)

// WalletPort is a signing account bound to one chain.
type WalletPort interface {
	Address() string
	Chain() entity.Chain

	Balance(ctx context.Context, address string) (*big.Int, error)
	SignMessage(ctx context.Context, message string) (string, error)
	SendNative(ctx context.Context, to string, amount *big.Int) (string, error)
	// Receipt returns nil without error while the transaction is not mined.
	Receipt(ctx context.Context, txHash string) (*entity.TxReceipt, error)
	BlockNumber(ctx context.Context) (uint64, error)

	Close()
}
