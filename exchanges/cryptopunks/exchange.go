package cryptopunks

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const exchangeName = "cryptopunks"

// Side of a punk order
type Side string

const (
	SideSell Side = "sell"
	SideBuy  Side = "buy"
)

// CryptoPunksMarket ABI JSON for the trading functions
const marketABIJSON = `[
	{
		"inputs": [{"name": "punkIndex", "type": "uint256"}],
		"name": "buyPunk",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "punkIndex", "type": "uint256"},
			{"name": "minPrice", "type": "uint256"}
		],
		"name": "acceptBidForPunk",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

var marketABI = chain.MustParseABI("CryptoPunks market", marketABIJSON)

// Addresses of the CryptoPunks market
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB"),
}

// Order is a punk offered for sale or a bid on a punk. Taker is set on
// offers reserved for one buyer.
type Order struct {
	Maker   string `json:"maker"`
	Side    Side   `json:"side"`
	TokenID string `json:"tokenId"`
	Price   string `json:"price"`
	Taker   string `json:"taker,omitempty"`
}

func (o *Order) params() (*big.Int, *big.Int, error) {
	if o.Side != SideSell && o.Side != SideBuy {
		return nil, nil, chain.Malformed(exchangeName, "invalid side %q", o.Side)
	}
	punk, err := chain.ParseBig(o.TokenID)
	if err != nil {
		return nil, nil, chain.Malformed(exchangeName, "tokenId: %v", err)
	}
	if punk.Cmp(big.NewInt(10000)) >= 0 {
		return nil, nil, chain.Malformed(exchangeName, "punk index %s out of range", punk)
	}
	price, err := chain.ParseBig(o.Price)
	if err != nil {
		return nil, nil, chain.Malformed(exchangeName, "price: %v", err)
	}
	return punk, price, nil
}

// Exchange encodes punk trades on the CryptoPunks market.
//
// No options are honored.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the CryptoPunks market deployed on chainID
func NewExchange(chainID int64) (*Exchange, error) {
	addr, err := Addresses.Resolve(exchangeName, chainID)
	if err != nil {
		return nil, err
	}
	return NewExchangeAt(chainID, addr), nil
}

// NewExchangeAt binds the adapter to an explicit deployment
func NewExchangeAt(chainID int64, address common.Address) *Exchange {
	return &Exchange{ChainID: chainID, Address: address}
}

// --- Fill order ---

// FillListingTx encodes buyPunk with the asking price as value
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Side != SideSell {
		return nil, chain.Malformed(exchangeName, "listing fill requires a sell order")
	}
	if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
		return nil, err
	}
	punk, price, err := order.params()
	if err != nil {
		return nil, err
	}
	reserved, err := chain.ParseAddress(order.Taker)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "taker: %v", err)
	}
	if reserved != (common.Address{}) && reserved != taker {
		return nil, chain.Malformed(exchangeName, "punk %s is reserved for %s", punk, reserved.Hex())
	}

	data, err := marketABI.Pack("buyPunk", punk)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "cryptopunks: failed to pack buyPunk: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, price), nil
}

// FillBidTx encodes acceptBidForPunk, requiring at least the bid price
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Side != SideBuy {
		return nil, chain.Malformed(exchangeName, "bid fill requires a buy order")
	}
	punk, price, err := order.params()
	if err != nil {
		return nil, err
	}
	if tokenID != nil && tokenID.Cmp(punk) != 0 {
		return nil, chain.Malformed(exchangeName, "token id %s does not match the bid for punk %s", tokenID, punk)
	}

	data, err := marketABI.Pack("acceptBidForPunk", punk, price)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "cryptopunks: failed to pack acceptBidForPunk: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, nil), nil
}
