package x2y2

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// Settle operations of a SettleDetail
const (
	OpInvalid uint8 = iota
	OpCompleteSellOffer
	OpCompleteBuyOffer
	OpCancelOffer
	OpBid
	OpCompleteAuction
	OpRefundAuction
	OpRefundAuctionStuckItem
)

// OrderItem is one priced item of a maker order
type OrderItem struct {
	Price *big.Int `abi:"price"`
	Data  []byte   `abi:"data"`
}

// SignedOrder is the ABI form of a maker order inside a RunInput
type SignedOrder struct {
	Salt         *big.Int       `abi:"salt"`
	User         common.Address `abi:"user"`
	Network      *big.Int       `abi:"network"`
	Intent       *big.Int       `abi:"intent"`
	DelegateType *big.Int       `abi:"delegateType"`
	Deadline     *big.Int       `abi:"deadline"`
	Currency     common.Address `abi:"currency"`
	DataMask     []byte         `abi:"dataMask"`
	Items        []OrderItem    `abi:"items"`
	R            [32]byte       `abi:"r"`
	S            [32]byte       `abi:"s"`
	V            uint8          `abi:"v"`
	SignVersion  uint8          `abi:"signVersion"`
}

// Fee is a settlement fee in parts per million
type Fee struct {
	Percentage *big.Int       `abi:"percentage"`
	To         common.Address `abi:"to"`
}

// SettleDetail tells the market how to settle one order item
type SettleDetail struct {
	Op                 uint8          `abi:"op"`
	OrderIdx           *big.Int       `abi:"orderIdx"`
	ItemIdx            *big.Int       `abi:"itemIdx"`
	Price              *big.Int       `abi:"price"`
	ItemHash           [32]byte       `abi:"itemHash"`
	ExecutionDelegate  common.Address `abi:"executionDelegate"`
	DataReplacement    []byte         `abi:"dataReplacement"`
	BidIncentivePct    *big.Int       `abi:"bidIncentivePct"`
	AucMinIncrementPct *big.Int       `abi:"aucMinIncrementPct"`
	AucIncDurationSecs *big.Int       `abi:"aucIncDurationSecs"`
	Fees               []Fee          `abi:"fees"`
}

// SettleShared holds settlement parameters shared by every detail
type SettleShared struct {
	Salt         *big.Int       `abi:"salt"`
	Deadline     *big.Int       `abi:"deadline"`
	AmountToEth  *big.Int       `abi:"amountToEth"`
	AmountToWeth *big.Int       `abi:"amountToWeth"`
	User         common.Address `abi:"user"`
	CanFail      bool           `abi:"canFail"`
}

// RunInput is the server-signed input to run
type RunInput struct {
	Orders  []SignedOrder  `abi:"orders"`
	Details []SettleDetail `abi:"details"`
	Shared  SettleShared   `abi:"shared"`
	R       [32]byte       `abi:"r"`
	S       [32]byte       `abi:"s"`
	V       uint8          `abi:"v"`
}

// X2Y2 market ABI JSON for run
const marketABIJSON = `[
	{
		"inputs": [
			{"name": "input", "type": "tuple", "components": [
				{"name": "orders", "type": "tuple[]", "components": [
					{"name": "salt", "type": "uint256"},
					{"name": "user", "type": "address"},
					{"name": "network", "type": "uint256"},
					{"name": "intent", "type": "uint256"},
					{"name": "delegateType", "type": "uint256"},
					{"name": "deadline", "type": "uint256"},
					{"name": "currency", "type": "address"},
					{"name": "dataMask", "type": "bytes"},
					{"name": "items", "type": "tuple[]", "components": [
						{"name": "price", "type": "uint256"},
						{"name": "data", "type": "bytes"}
					]},
					{"name": "r", "type": "bytes32"},
					{"name": "s", "type": "bytes32"},
					{"name": "v", "type": "uint8"},
					{"name": "signVersion", "type": "uint8"}
				]},
				{"name": "details", "type": "tuple[]", "components": [
					{"name": "op", "type": "uint8"},
					{"name": "orderIdx", "type": "uint256"},
					{"name": "itemIdx", "type": "uint256"},
					{"name": "price", "type": "uint256"},
					{"name": "itemHash", "type": "bytes32"},
					{"name": "executionDelegate", "type": "address"},
					{"name": "dataReplacement", "type": "bytes"},
					{"name": "bidIncentivePct", "type": "uint256"},
					{"name": "aucMinIncrementPct", "type": "uint256"},
					{"name": "aucIncDurationSecs", "type": "uint256"},
					{"name": "fees", "type": "tuple[]", "components": [
						{"name": "percentage", "type": "uint256"},
						{"name": "to", "type": "address"}
					]}
				]},
				{"name": "shared", "type": "tuple", "components": [
					{"name": "salt", "type": "uint256"},
					{"name": "deadline", "type": "uint256"},
					{"name": "amountToEth", "type": "uint256"},
					{"name": "amountToWeth", "type": "uint256"},
					{"name": "user", "type": "address"},
					{"name": "canFail", "type": "bool"}
				]},
				{"name": "r", "type": "bytes32"},
				{"name": "s", "type": "bytes32"},
				{"name": "v", "type": "uint8"}
			]}
		],
		"name": "run",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var marketABI = chain.MustParseABI("X2Y2 market", marketABIJSON)

// Addresses of the X2Y2 market
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0x74312363e45DCaBA76c59ec49a7Aa8A65a67EeD3"),
}
