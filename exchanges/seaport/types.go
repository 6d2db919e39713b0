package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// ItemType is the asset class of an offer or consideration item
type ItemType uint8

const (
	ItemTypeNative ItemType = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

// IsNFT reports whether the item carries an ERC721 or ERC1155 token
func (t ItemType) IsNFT() bool {
	return t >= ItemTypeERC721 && t <= ItemTypeERC1155WithCriteria
}

// HasCriteria reports whether the item is matched through a criteria resolver
func (t ItemType) HasCriteria() bool {
	return t == ItemTypeERC721WithCriteria || t == ItemTypeERC1155WithCriteria
}

// OrderType controls partial fills and zone restriction
type OrderType uint8

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
)

// Partial reports whether the order type allows fractional fills
func (t OrderType) Partial() bool {
	return t == OrderTypePartialOpen || t == OrderTypePartialRestricted
}

// Criteria resolver side
const (
	SideOffer         uint8 = 0
	SideConsideration uint8 = 1
)

// OfferItem is the ABI form of an offered item
type OfferItem struct {
	ItemType             uint8          `abi:"itemType"`
	Token                common.Address `abi:"token"`
	IdentifierOrCriteria *big.Int       `abi:"identifierOrCriteria"`
	StartAmount          *big.Int       `abi:"startAmount"`
	EndAmount            *big.Int       `abi:"endAmount"`
}

// ConsiderationItem is the ABI form of a required payment
type ConsiderationItem struct {
	ItemType             uint8          `abi:"itemType"`
	Token                common.Address `abi:"token"`
	IdentifierOrCriteria *big.Int       `abi:"identifierOrCriteria"`
	StartAmount          *big.Int       `abi:"startAmount"`
	EndAmount            *big.Int       `abi:"endAmount"`
	Recipient            common.Address `abi:"recipient"`
}

// OrderParameters is the ABI form of signed order parameters
type OrderParameters struct {
	Offerer                         common.Address      `abi:"offerer"`
	Zone                            common.Address      `abi:"zone"`
	Offer                           []OfferItem         `abi:"offer"`
	Consideration                   []ConsiderationItem `abi:"consideration"`
	OrderType                       uint8               `abi:"orderType"`
	StartTime                       *big.Int            `abi:"startTime"`
	EndTime                         *big.Int            `abi:"endTime"`
	ZoneHash                        [32]byte            `abi:"zoneHash"`
	Salt                            *big.Int            `abi:"salt"`
	ConduitKey                      [32]byte            `abi:"conduitKey"`
	TotalOriginalConsiderationItems *big.Int            `abi:"totalOriginalConsiderationItems"`
}

// AdvancedOrder is an order with the fraction being filled
type AdvancedOrder struct {
	Parameters  OrderParameters `abi:"parameters"`
	Numerator   *big.Int        `abi:"numerator"`
	Denominator *big.Int        `abi:"denominator"`
	Signature   []byte          `abi:"signature"`
	ExtraData   []byte          `abi:"extraData"`
}

// CriteriaResolver supplies the token id and merkle proof for a criteria item
type CriteriaResolver struct {
	OrderIndex    *big.Int   `abi:"orderIndex"`
	Side          uint8      `abi:"side"`
	Index         *big.Int   `abi:"index"`
	Identifier    *big.Int   `abi:"identifier"`
	CriteriaProof [][32]byte `abi:"criteriaProof"`
}

// FulfillmentComponent points at one item of one order in a batch
type FulfillmentComponent struct {
	OrderIndex *big.Int `abi:"orderIndex"`
	ItemIndex  *big.Int `abi:"itemIndex"`
}

const advancedOrderComponents = `[
	{"name": "parameters", "type": "tuple", "components": [
		{"name": "offerer", "type": "address"},
		{"name": "zone", "type": "address"},
		{"name": "offer", "type": "tuple[]", "components": [
			{"name": "itemType", "type": "uint8"},
			{"name": "token", "type": "address"},
			{"name": "identifierOrCriteria", "type": "uint256"},
			{"name": "startAmount", "type": "uint256"},
			{"name": "endAmount", "type": "uint256"}
		]},
		{"name": "consideration", "type": "tuple[]", "components": [
			{"name": "itemType", "type": "uint8"},
			{"name": "token", "type": "address"},
			{"name": "identifierOrCriteria", "type": "uint256"},
			{"name": "startAmount", "type": "uint256"},
			{"name": "endAmount", "type": "uint256"},
			{"name": "recipient", "type": "address"}
		]},
		{"name": "orderType", "type": "uint8"},
		{"name": "startTime", "type": "uint256"},
		{"name": "endTime", "type": "uint256"},
		{"name": "zoneHash", "type": "bytes32"},
		{"name": "salt", "type": "uint256"},
		{"name": "conduitKey", "type": "bytes32"},
		{"name": "totalOriginalConsiderationItems", "type": "uint256"}
	]},
	{"name": "numerator", "type": "uint120"},
	{"name": "denominator", "type": "uint120"},
	{"name": "signature", "type": "bytes"},
	{"name": "extraData", "type": "bytes"}
]`

const criteriaResolverComponents = `[
	{"name": "orderIndex", "type": "uint256"},
	{"name": "side", "type": "uint8"},
	{"name": "index", "type": "uint256"},
	{"name": "identifier", "type": "uint256"},
	{"name": "criteriaProof", "type": "bytes32[]"}
]`

const fulfillmentComponents = `[
	{"name": "orderIndex", "type": "uint256"},
	{"name": "itemIndex", "type": "uint256"}
]`

// Seaport 1.1 ABI JSON for the fulfillment functions
const exchangeABIJSON = `[
	{
		"inputs": [
			{"name": "advancedOrder", "type": "tuple", "components": ` + advancedOrderComponents + `},
			{"name": "criteriaResolvers", "type": "tuple[]", "components": ` + criteriaResolverComponents + `},
			{"name": "fulfillerConduitKey", "type": "bytes32"},
			{"name": "recipient", "type": "address"}
		],
		"name": "fulfillAdvancedOrder",
		"outputs": [{"name": "fulfilled", "type": "bool"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "advancedOrders", "type": "tuple[]", "components": ` + advancedOrderComponents + `},
			{"name": "criteriaResolvers", "type": "tuple[]", "components": ` + criteriaResolverComponents + `},
			{"name": "offerFulfillments", "type": "tuple[][]", "components": ` + fulfillmentComponents + `},
			{"name": "considerationFulfillments", "type": "tuple[][]", "components": ` + fulfillmentComponents + `},
			{"name": "fulfillerConduitKey", "type": "bytes32"},
			{"name": "recipient", "type": "address"},
			{"name": "maximumFulfilled", "type": "uint256"}
		],
		"name": "fulfillAvailableAdvancedOrders",
		"outputs": [
			{"name": "availableOrders", "type": "bool[]"},
			{"name": "executions", "type": "tuple[]", "components": [
				{"name": "item", "type": "tuple", "components": [
					{"name": "itemType", "type": "uint8"},
					{"name": "token", "type": "address"},
					{"name": "identifier", "type": "uint256"},
					{"name": "amount", "type": "uint256"},
					{"name": "recipient", "type": "address"}
				]},
				{"name": "offerer", "type": "address"},
				{"name": "conduitKey", "type": "bytes32"}
			]}
		],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [{"name": "offerer", "type": "address"}],
		"name": "getCounter",
		"outputs": [{"name": "counter", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var exchangeABI = chain.MustParseABI("Seaport", exchangeABIJSON)

// Addresses of the Seaport 1.1 deployment
var Addresses = chain.AddressTable{
	chain.Mainnet:  common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"),
	chain.Goerli:   common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"),
	chain.Optimism: common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"),
	chain.Polygon:  common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"),
	chain.Arbitrum: common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"),
}
