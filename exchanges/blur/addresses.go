package blur

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// Addresses of the Blur exchange proxy
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0x000000000000Ad05Ccc4F10045630fb830B95127"),
}

// StandardPolicyERC721 is the default matching policy for single-token orders
var StandardPolicyERC721 = common.HexToAddress("0x00000000006411739DA1c40B106F8511de5D1FAC")
