package entity

type ToolName string

const (
	ToolGetAddress  ToolName = "get_address"
	ToolGetChain    ToolName = "get_chain"
	ToolGetBalance  ToolName = "get_balance"
	ToolSignMessage ToolName = "sign_message"

	ToolLensSendNative         ToolName = "lens_send_native"
	ToolLensTransactionReceipt ToolName = "lens_get_transaction_receipt"
	ToolLensBlockNumber        ToolName = "lens_get_block_number"
)

func (t ToolName) String() string {
	return string(t)
}
