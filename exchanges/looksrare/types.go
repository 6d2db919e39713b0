package looksrare

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// MakerOrderTypeHash is keccak256 of the MakerOrder struct type
var MakerOrderTypeHash = crypto.Keccak256Hash([]byte(
	"MakerOrder(bool isOrderAsk,address signer,address collection,uint256 price,uint256 tokenId,uint256 amount,address strategy,address currency,uint256 nonce,uint256 startTime,uint256 endTime,uint256 minPercentageToAsk,bytes params)",
))

// EIP-712 domain of the LooksRare v1 exchange
const (
	DomainName    = "LooksRareExchange"
	DomainVersion = "1"
)

// MakerOrder is the ABI form of OrderTypes.MakerOrder
type MakerOrder struct {
	IsOrderAsk         bool           `abi:"isOrderAsk"`
	Signer             common.Address `abi:"signer"`
	Collection         common.Address `abi:"collection"`
	Price              *big.Int       `abi:"price"`
	TokenId            *big.Int       `abi:"tokenId"`
	Amount             *big.Int       `abi:"amount"`
	Strategy           common.Address `abi:"strategy"`
	Currency           common.Address `abi:"currency"`
	Nonce              *big.Int       `abi:"nonce"`
	StartTime          *big.Int       `abi:"startTime"`
	EndTime            *big.Int       `abi:"endTime"`
	MinPercentageToAsk *big.Int       `abi:"minPercentageToAsk"`
	Params             []byte         `abi:"params"`
	V                  uint8          `abi:"v"`
	R                  [32]byte       `abi:"r"`
	S                  [32]byte       `abi:"s"`
}

// TakerOrder is the ABI form of OrderTypes.TakerOrder
type TakerOrder struct {
	IsOrderAsk         bool           `abi:"isOrderAsk"`
	Taker              common.Address `abi:"taker"`
	Price              *big.Int       `abi:"price"`
	TokenId            *big.Int       `abi:"tokenId"`
	MinPercentageToAsk *big.Int       `abi:"minPercentageToAsk"`
	Params             []byte         `abi:"params"`
}

const takerOrderComponents = `[
	{"name": "isOrderAsk", "type": "bool"},
	{"name": "taker", "type": "address"},
	{"name": "price", "type": "uint256"},
	{"name": "tokenId", "type": "uint256"},
	{"name": "minPercentageToAsk", "type": "uint256"},
	{"name": "params", "type": "bytes"}
]`

const makerOrderComponents = `[
	{"name": "isOrderAsk", "type": "bool"},
	{"name": "signer", "type": "address"},
	{"name": "collection", "type": "address"},
	{"name": "price", "type": "uint256"},
	{"name": "tokenId", "type": "uint256"},
	{"name": "amount", "type": "uint256"},
	{"name": "strategy", "type": "address"},
	{"name": "currency", "type": "address"},
	{"name": "nonce", "type": "uint256"},
	{"name": "startTime", "type": "uint256"},
	{"name": "endTime", "type": "uint256"},
	{"name": "minPercentageToAsk", "type": "uint256"},
	{"name": "params", "type": "bytes"},
	{"name": "v", "type": "uint8"},
	{"name": "r", "type": "bytes32"},
	{"name": "s", "type": "bytes32"}
]`

// LooksRare v1 exchange ABI JSON for the match functions
const exchangeABIJSON = `[
	{
		"inputs": [
			{"name": "takerBid", "type": "tuple", "components": ` + takerOrderComponents + `},
			{"name": "makerAsk", "type": "tuple", "components": ` + makerOrderComponents + `}
		],
		"name": "matchAskWithTakerBidUsingETHAndWETH",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "takerAsk", "type": "tuple", "components": ` + takerOrderComponents + `},
			{"name": "makerBid", "type": "tuple", "components": ` + makerOrderComponents + `}
		],
		"name": "matchBidWithTakerAsk",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "user", "type": "address"}],
		"name": "userMinOrderNonce",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var exchangeABI = chain.MustParseABI("LooksRare exchange", exchangeABIJSON)

// Addresses of the LooksRare v1 exchange
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0x59728544B08AB483533076417FbBB2fD0B17CE3a"),
	chain.Goerli:  common.HexToAddress("0xD112466471b5438C1ca2D218694200e49d81D047"),
}

// StrategyStandardSaleForFixedPrice is the mainnet fixed price strategy
var StrategyStandardSaleForFixedPrice = common.HexToAddress("0x56244Bb70CbD3EA9Dc8007399F61dFC065190031")
