package sudoswap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

const exchangeName = "sudoswap"

// Order is a quote against a Sudoswap pair. For listings Price is what the
// pair charges for one token; for bids it is what the pair pays.
type Order struct {
	Pair  string `json:"pair"`
	Price string `json:"price"`
}

// Params returns the pair address and the quoted price
func (o *Order) Params() (common.Address, *big.Int, error) {
	pair, err := chain.ParseAddress(o.Pair)
	if err != nil {
		return common.Address{}, nil, chain.Malformed(exchangeName, "pair: %v", err)
	}
	if pair == (common.Address{}) {
		return common.Address{}, nil, chain.Malformed(exchangeName, "pair is required")
	}
	price, err := chain.ParseBig(o.Price)
	if err != nil {
		return common.Address{}, nil, chain.Malformed(exchangeName, "price: %v", err)
	}
	return pair, price, nil
}

// Fill is one token taken from (or sold into) a pair
type Fill struct {
	Order   *Order
	TokenID *big.Int
}

// BuildSwapList groups fills by pair, keeping pairs in first-appearance
// order and token ids in input order. It returns the summed price.
func BuildSwapList(fills []Fill) ([]PairSwapSpecific, *big.Int, error) {
	swapList := make([]PairSwapSpecific, 0, len(fills))
	index := make(map[common.Address]int)
	total := new(big.Int)

	for i, fill := range fills {
		if fill.Order == nil {
			return nil, nil, chain.AtItem(i, chain.Malformed(exchangeName, "fill has no order"))
		}
		pair, price, err := fill.Order.Params()
		if err != nil {
			return nil, nil, chain.AtItem(i, err)
		}
		if fill.TokenID == nil {
			return nil, nil, chain.AtItem(i, chain.Malformed(exchangeName, "fill has no token id"))
		}

		pos, ok := index[pair]
		if !ok {
			pos = len(swapList)
			index[pair] = pos
			swapList = append(swapList, PairSwapSpecific{Pair: pair})
		}
		swapList[pos].NftIds = append(swapList[pos].NftIds, new(big.Int).Set(fill.TokenID))
		total.Add(total, price)
	}
	return swapList, total, nil
}
