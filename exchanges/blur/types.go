package blur

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// Side mirrors the on-chain Side enum
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

// Fee is a royalty or marketplace fee in basis points
type Fee struct {
	Rate      uint16         `abi:"rate"`
	Recipient common.Address `abi:"recipient"`
}

// OrderParameters is the ABI form of a Blur order
type OrderParameters struct {
	Trader         common.Address `abi:"trader"`
	Side           uint8          `abi:"side"`
	MatchingPolicy common.Address `abi:"matchingPolicy"`
	Collection     common.Address `abi:"collection"`
	TokenID        *big.Int       `abi:"tokenId"`
	Amount         *big.Int       `abi:"amount"`
	PaymentToken   common.Address `abi:"paymentToken"`
	Price          *big.Int       `abi:"price"`
	ListingTime    *big.Int       `abi:"listingTime"`
	ExpirationTime *big.Int       `abi:"expirationTime"`
	Fees           []Fee          `abi:"fees"`
	Salt           *big.Int       `abi:"salt"`
	ExtraParams    []byte         `abi:"extraParams"`
}

// Input is one side of an execute call: an order plus its authorization
type Input struct {
	Order            OrderParameters `abi:"order"`
	V                uint8           `abi:"v"`
	R                [32]byte        `abi:"r"`
	S                [32]byte        `abi:"s"`
	ExtraSignature   []byte          `abi:"extraSignature"`
	SignatureVersion uint8           `abi:"signatureVersion"`
	BlockNumber      *big.Int        `abi:"blockNumber"`
}

// Execution pairs a sell and a buy input for bulkExecute
type Execution struct {
	Sell Input `abi:"sell"`
	Buy  Input `abi:"buy"`
}

const orderComponentsJSON = `[
	{"name": "trader", "type": "address"},
	{"name": "side", "type": "uint8"},
	{"name": "matchingPolicy", "type": "address"},
	{"name": "collection", "type": "address"},
	{"name": "tokenId", "type": "uint256"},
	{"name": "amount", "type": "uint256"},
	{"name": "paymentToken", "type": "address"},
	{"name": "price", "type": "uint256"},
	{"name": "listingTime", "type": "uint256"},
	{"name": "expirationTime", "type": "uint256"},
	{"name": "fees", "type": "tuple[]", "components": [
		{"name": "rate", "type": "uint16"},
		{"name": "recipient", "type": "address"}
	]},
	{"name": "salt", "type": "uint256"},
	{"name": "extraParams", "type": "bytes"}
]`

const inputComponentsJSON = `[
	{"name": "order", "type": "tuple", "components": ` + orderComponentsJSON + `},
	{"name": "v", "type": "uint8"},
	{"name": "r", "type": "bytes32"},
	{"name": "s", "type": "bytes32"},
	{"name": "extraSignature", "type": "bytes"},
	{"name": "signatureVersion", "type": "uint8"},
	{"name": "blockNumber", "type": "uint256"}
]`

// Blur exchange ABI JSON for the fill functions
const exchangeABIJSON = `[
	{
		"inputs": [
			{"name": "sell", "type": "tuple", "components": ` + inputComponentsJSON + `},
			{"name": "buy", "type": "tuple", "components": ` + inputComponentsJSON + `}
		],
		"name": "execute",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "executions", "type": "tuple[]", "components": [
				{"name": "sell", "type": "tuple", "components": ` + inputComponentsJSON + `},
				{"name": "buy", "type": "tuple", "components": ` + inputComponentsJSON + `}
			]}
		],
		"name": "bulkExecute",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "", "type": "address"}],
		"name": "nonces",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var exchangeABI = chain.MustParseABI("Blur exchange", exchangeABIJSON)
