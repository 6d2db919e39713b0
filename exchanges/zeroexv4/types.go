package zeroexv4

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// Direction of an NFT order
type Direction uint8

const (
	DirectionSell Direction = 0
	DirectionBuy  Direction = 1
)

// SignatureType of a 0x order signature
const (
	SignatureTypeEIP712    uint8 = 2
	SignatureTypeEthSign   uint8 = 3
	SignatureTypePreSigned uint8 = 4
)

// Fee is the ABI form of an order fee
type Fee struct {
	Recipient common.Address `abi:"recipient"`
	Amount    *big.Int       `abi:"amount"`
	FeeData   []byte         `abi:"feeData"`
}

// Property is the ABI form of a token-property restriction
type Property struct {
	PropertyValidator common.Address `abi:"propertyValidator"`
	PropertyData      []byte         `abi:"propertyData"`
}

// ERC721Order is the ABI form of LibNFTOrder.ERC721Order
type ERC721Order struct {
	Direction             uint8          `abi:"direction"`
	Maker                 common.Address `abi:"maker"`
	Taker                 common.Address `abi:"taker"`
	Expiry                *big.Int       `abi:"expiry"`
	Nonce                 *big.Int       `abi:"nonce"`
	Erc20Token            common.Address `abi:"erc20Token"`
	Erc20TokenAmount      *big.Int       `abi:"erc20TokenAmount"`
	Fees                  []Fee          `abi:"fees"`
	Erc721Token           common.Address `abi:"erc721Token"`
	Erc721TokenId         *big.Int       `abi:"erc721TokenId"`
	Erc721TokenProperties []Property     `abi:"erc721TokenProperties"`
}

// ERC1155Order is the ABI form of LibNFTOrder.ERC1155Order
type ERC1155Order struct {
	Direction              uint8          `abi:"direction"`
	Maker                  common.Address `abi:"maker"`
	Taker                  common.Address `abi:"taker"`
	Expiry                 *big.Int       `abi:"expiry"`
	Nonce                  *big.Int       `abi:"nonce"`
	Erc20Token             common.Address `abi:"erc20Token"`
	Erc20TokenAmount       *big.Int       `abi:"erc20TokenAmount"`
	Fees                   []Fee          `abi:"fees"`
	Erc1155Token           common.Address `abi:"erc1155Token"`
	Erc1155TokenId         *big.Int       `abi:"erc1155TokenId"`
	Erc1155TokenProperties []Property     `abi:"erc1155TokenProperties"`
	Erc1155TokenAmount     *big.Int       `abi:"erc1155TokenAmount"`
}

// Signature is the ABI form of LibSignature.Signature
type Signature struct {
	SignatureType uint8    `abi:"signatureType"`
	V             uint8    `abi:"v"`
	R             [32]byte `abi:"r"`
	S             [32]byte `abi:"s"`
}

const orderHead = `
	{"name": "direction", "type": "uint8"},
	{"name": "maker", "type": "address"},
	{"name": "taker", "type": "address"},
	{"name": "expiry", "type": "uint256"},
	{"name": "nonce", "type": "uint256"},
	{"name": "erc20Token", "type": "address"},
	{"name": "erc20TokenAmount", "type": "uint256"},
	{"name": "fees", "type": "tuple[]", "components": [
		{"name": "recipient", "type": "address"},
		{"name": "amount", "type": "uint256"},
		{"name": "feeData", "type": "bytes"}
	]},`

const propertiesComponents = `[
	{"name": "propertyValidator", "type": "address"},
	{"name": "propertyData", "type": "bytes"}
]`

const erc721OrderComponents = `[` + orderHead + `
	{"name": "erc721Token", "type": "address"},
	{"name": "erc721TokenId", "type": "uint256"},
	{"name": "erc721TokenProperties", "type": "tuple[]", "components": ` + propertiesComponents + `}
]`

const erc1155OrderComponents = `[` + orderHead + `
	{"name": "erc1155Token", "type": "address"},
	{"name": "erc1155TokenId", "type": "uint256"},
	{"name": "erc1155TokenProperties", "type": "tuple[]", "components": ` + propertiesComponents + `},
	{"name": "erc1155TokenAmount", "type": "uint128"}
]`

const signatureComponents = `[
	{"name": "signatureType", "type": "uint8"},
	{"name": "v", "type": "uint8"},
	{"name": "r", "type": "bytes32"},
	{"name": "s", "type": "bytes32"}
]`

// Exchange proxy ABI JSON for the NFT orders feature
const exchangeABIJSON = `[
	{
		"inputs": [
			{"name": "sellOrder", "type": "tuple", "components": ` + erc721OrderComponents + `},
			{"name": "signature", "type": "tuple", "components": ` + signatureComponents + `},
			{"name": "callbackData", "type": "bytes"}
		],
		"name": "buyERC721",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sellOrder", "type": "tuple", "components": ` + erc1155OrderComponents + `},
			{"name": "signature", "type": "tuple", "components": ` + signatureComponents + `},
			{"name": "erc1155BuyAmount", "type": "uint128"},
			{"name": "callbackData", "type": "bytes"}
		],
		"name": "buyERC1155",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "buyOrder", "type": "tuple", "components": ` + erc721OrderComponents + `},
			{"name": "signature", "type": "tuple", "components": ` + signatureComponents + `},
			{"name": "erc721TokenId", "type": "uint256"},
			{"name": "unwrapNativeToken", "type": "bool"},
			{"name": "callbackData", "type": "bytes"}
		],
		"name": "sellERC721",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "buyOrder", "type": "tuple", "components": ` + erc1155OrderComponents + `},
			{"name": "signature", "type": "tuple", "components": ` + signatureComponents + `},
			{"name": "erc1155TokenId", "type": "uint256"},
			{"name": "erc1155SellAmount", "type": "uint128"},
			{"name": "unwrapNativeToken", "type": "bool"},
			{"name": "callbackData", "type": "bytes"}
		],
		"name": "sellERC1155",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sellOrders", "type": "tuple[]", "components": ` + erc721OrderComponents + `},
			{"name": "signatures", "type": "tuple[]", "components": ` + signatureComponents + `},
			{"name": "callbackData", "type": "bytes[]"},
			{"name": "revertIfIncomplete", "type": "bool"}
		],
		"name": "batchBuyERC721s",
		"outputs": [{"name": "successes", "type": "bool[]"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "sellOrders", "type": "tuple[]", "components": ` + erc1155OrderComponents + `},
			{"name": "signatures", "type": "tuple[]", "components": ` + signatureComponents + `},
			{"name": "erc1155FillAmounts", "type": "uint128[]"},
			{"name": "callbackData", "type": "bytes[]"},
			{"name": "revertIfIncomplete", "type": "bool"}
		],
		"name": "batchBuyERC1155s",
		"outputs": [{"name": "successes", "type": "bool[]"}],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var exchangeABI = chain.MustParseABI("0x v4 exchange proxy", exchangeABIJSON)

// Addresses of the 0x v4 exchange proxy
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF"),
	chain.Polygon: common.HexToAddress("0xDef1C0ded9bec7F1a1670819833240f027b25EfF"),
}
