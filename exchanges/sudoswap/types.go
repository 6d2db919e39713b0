package sudoswap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// PairSwapSpecific selects specific token ids from one pair
type PairSwapSpecific struct {
	Pair   common.Address `abi:"pair"`
	NftIds []*big.Int     `abi:"nftIds"`
}

const swapListJSON = `{"name": "swapList", "type": "tuple[]", "components": [
	{"name": "pair", "type": "address"},
	{"name": "nftIds", "type": "uint256[]"}
]}`

// Router ABI JSON for the specific-id swap functions
const routerABIJSON = `[
	{
		"inputs": [
			` + swapListJSON + `,
			{"name": "ethRecipient", "type": "address"},
			{"name": "nftRecipient", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"name": "swapETHForSpecificNFTs",
		"outputs": [{"name": "remainingValue", "type": "uint256"}],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			` + swapListJSON + `,
			{"name": "minOutput", "type": "uint256"},
			{"name": "tokenRecipient", "type": "address"},
			{"name": "deadline", "type": "uint256"}
		],
		"name": "swapNFTsForToken",
		"outputs": [{"name": "outputAmount", "type": "uint256"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var routerABI = chain.MustParseABI("Sudoswap router", routerABIJSON)

// Addresses of the Sudoswap router with royalties
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0x844d04f79D2c58dCeBf8Fff1e389Fccb1401aa49"),
}
