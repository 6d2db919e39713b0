package chain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Well-known chain IDs used by the address tables
const (
	Mainnet  int64 = 1
	Goerli   int64 = 5
	Optimism int64 = 10
	Polygon  int64 = 137
	Arbitrum int64 = 42161
)

// ContractKind is the token standard of the traded NFT contract
type ContractKind string

const (
	ContractKindERC721  ContractKind = "erc721"
	ContractKindERC1155 ContractKind = "erc1155"
)

// Valid reports whether k is one of the supported token standards
func (k ContractKind) Valid() bool {
	return k == ContractKindERC721 || k == ContractKindERC1155
}

// TxData is the transaction descriptor handed to broadcasting infrastructure
type TxData struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value,omitempty"`
}

// NewTxData builds a TxData. A nil or zero value leaves Value unset.
func NewTxData(from, to common.Address, data []byte, value *big.Int) *TxData {
	tx := &TxData{
		From: from,
		To:   to,
		Data: data,
	}
	if value != nil && value.Sign() > 0 {
		tx.Value = (*hexutil.Big)(new(big.Int).Set(value))
	}
	return tx
}

// ValueBig returns the native value as a big.Int, zero when unset
func (tx *TxData) ValueBig() *big.Int {
	if tx.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(tx.Value.ToInt())
}

// FillOptions carries the fill-time options shared by every adapter.
// Each adapter documents which fields it honors; the rest are ignored.
type FillOptions struct {
	// Referrer is an opaque attribution tag appended to calldata by the
	// adapters that support it.
	Referrer string
	// Deadline bounds the validity of router-style swaps. Zero means the
	// adapter default.
	Deadline time.Time
	// Recipient receives the filled assets or proceeds. Zero means the taker.
	Recipient common.Address
}

// RecipientOr returns the configured recipient, or fallback when none is set
func (o FillOptions) RecipientOr(fallback common.Address) common.Address {
	if o.Recipient == (common.Address{}) {
		return fallback
	}
	return o.Recipient
}

// ExtraArgs is a typed per-exchange payload attached to a bid fill.
// Only the owning adapter interprets it.
type ExtraArgs interface {
	// Exchange names the adapter that owns the payload
	Exchange() string
}

// ERC721 ABI JSON for the transfer functions used in order calldata
const erc721ABIJSON = `[
	{
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "tokenId", "type": "uint256"}
		],
		"name": "transferFrom",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// ERC1155 ABI JSON for the transfer functions used in order calldata
const erc1155ABIJSON = `[
	{
		"inputs": [
			{"name": "from", "type": "address"},
			{"name": "to", "type": "address"},
			{"name": "id", "type": "uint256"},
			{"name": "amount", "type": "uint256"},
			{"name": "data", "type": "bytes"}
		],
		"name": "safeTransferFrom",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var (
	erc721ABI  = MustParseABI("ERC721", erc721ABIJSON)
	erc1155ABI = MustParseABI("ERC1155", erc1155ABIJSON)
)

// MustParseABI parses a JSON ABI and panics on failure. It is meant for
// package-level ABI constants that are known to be valid.
func MustParseABI(name, abiJSON string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic("failed to parse " + name + " ABI: " + err.Error())
	}
	return parsed
}

// GetERC721ABI returns the parsed ERC721 ABI
func GetERC721ABI() abi.ABI {
	return erc721ABI
}

// GetERC1155ABI returns the parsed ERC1155 ABI
func GetERC1155ABI() abi.ABI {
	return erc1155ABI
}
