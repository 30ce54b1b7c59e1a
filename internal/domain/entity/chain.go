package entity

// Chain describes an EVM network the wallet signs for.
type Chain struct {
	ID             int64
	Name           string
	NativeSymbol   string
	NativeDecimals int
	RPCURL         string
	ExplorerURL    string
}

var (
	LensTestnet = Chain{
		ID:             37111,
		Name:           "Lens Network Testnet",
		NativeSymbol:   "GRASS",
		NativeDecimals: 18,
		RPCURL:         "https://rpc.testnet.lens.dev",
		ExplorerURL:    "https://block-explorer.testnet.lens.dev",
	}

	LensMainnet = Chain{
		ID:             232,
		Name:           "Lens Chain",
		NativeSymbol:   "GHO",
		NativeDecimals: 18,
		RPCURL:         "https://rpc.lens.xyz",
		ExplorerURL:    "https://explorer.lens.xyz",
	}
)

var knownChains = map[int64]Chain{
	LensTestnet.ID: LensTestnet,
	LensMainnet.ID: LensMainnet,
}

func ChainByID(id int64) (Chain, bool) {
	c, ok := knownChains[id]
	return c, ok
}

// TxReceipt is the part of a mined transaction receipt the tools report.
type TxReceipt struct {
	Hash        string `json:"hash"`
	Success     bool   `json:"success"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}
