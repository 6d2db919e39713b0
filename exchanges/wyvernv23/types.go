package wyvernv23

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// Side of a Wyvern order
type Side uint8

const (
	SideBuy  Side = 0
	SideSell Side = 1
)

// SaleKind selects fixed price or declining price sales
type SaleKind uint8

const (
	SaleKindFixedPrice   SaleKind = 0
	SaleKindDutchAuction SaleKind = 1
)

// HowToCall is how the user proxy invokes the order target
type HowToCall uint8

const (
	HowToCallCall         HowToCall = 0
	HowToCallDelegateCall HowToCall = 1
)

// FeeMethod selects how relayer fees are charged
type FeeMethod uint8

const (
	FeeMethodProtocolFee FeeMethod = 0
	FeeMethodSplitFee    FeeMethod = 1
)

// EIP-712 domain of the v2.3 exchange
const (
	DomainName    = "Wyvern Exchange Contract"
	DomainVersion = "2.3"
)

// OrderTypeHash is keccak256 of the Order struct type
var OrderTypeHash = crypto.Keccak256Hash([]byte(
	"Order(address exchange,address maker,address taker,uint256 makerRelayerFee,uint256 takerRelayerFee,uint256 makerProtocolFee,uint256 takerProtocolFee,address feeRecipient,uint8 feeMethod,uint8 side,uint8 saleKind,address target,uint8 howToCall,bytes calldata,bytes replacementPattern,address staticTarget,bytes staticExtradata,address paymentToken,uint256 basePrice,uint256 extra,uint256 listingTime,uint256 expirationTime,uint256 salt,uint256 nonce)",
))

// Wyvern v2.3 exchange ABI JSON
const exchangeABIJSON = `[
	{
		"inputs": [
			{"name": "addrs", "type": "address[14]"},
			{"name": "uints", "type": "uint256[18]"},
			{"name": "feeMethodsSidesKindsHowToCalls", "type": "uint8[8]"},
			{"name": "calldataBuy", "type": "bytes"},
			{"name": "calldataSell", "type": "bytes"},
			{"name": "replacementPatternBuy", "type": "bytes"},
			{"name": "replacementPatternSell", "type": "bytes"},
			{"name": "staticExtradataBuy", "type": "bytes"},
			{"name": "staticExtradataSell", "type": "bytes"},
			{"name": "vs", "type": "uint8[2]"},
			{"name": "rssMetadata", "type": "bytes32[5]"}
		],
		"name": "atomicMatch_",
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

var exchangeABI = chain.MustParseABI("Wyvern v2.3 exchange", exchangeABIJSON)

// Addresses of the Wyvern v2.3 exchange
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0x7f268357A8c2552623316e2562D90e642bB538E5"),
}

// TokenTransferProxy addresses: the spender payment tokens must approve
var TokenTransferProxy = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0xE5c783EE536cf5E63E792988335c4255169be4E1"),
}

// ProxyRegistry addresses: where makers register their user proxy
var ProxyRegistry = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0xa5409ec958C83C3f309868babACA7c86DCB077c1"),
}
