package foundation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const exchangeName = "foundation"

// Foundation market ABI JSON for buy now fills
const marketABIJSON = `[
	{
		"inputs": [
			{"name": "nftContract", "type": "address"},
			{"name": "tokenId", "type": "uint256"},
			{"name": "maxPrice", "type": "uint256"},
			{"name": "referrer", "type": "address"}
		],
		"name": "buyV2",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var marketABI = chain.MustParseABI("Foundation market", marketABIJSON)

// Addresses of the Foundation NFT market
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0xcDA72070E455bb31C7690a170224Ce43623d0B6f"),
}

// Order is a Foundation buy now price set by the seller
type Order struct {
	Contract string `json:"contract"`
	TokenID  string `json:"tokenId"`
	Maker    string `json:"maker"`
	Price    string `json:"price"`
}

// Exchange encodes buy now fills on the Foundation market.
//
// Honored options: Referrer, which must be an address and is passed to the
// market as the referral recipient.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the Foundation market deployed on chainID
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

// FillOrderTx encodes buyV2 with price as both the max price and the value
func (e *Exchange) FillOrderTx(taker common.Address, order *Order, price string, opts chain.FillOptions) (*chain.TxData, error) {
	contract, err := chain.ParseAddress(order.Contract)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "contract: %v", err)
	}
	tokenID, err := chain.ParseBig(order.TokenID)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "tokenId: %v", err)
	}
	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "foundation: invalid price: " + err.Error()}
	}

	referrer := common.Address{}
	if opts.Referrer != "" {
		if !common.IsHexAddress(opts.Referrer) {
			return nil, chain.Unsupported(exchangeName, "referrer must be an address")
		}
		referrer = common.HexToAddress(opts.Referrer)
	}

	data, err := marketABI.Pack("buyV2", contract, tokenID, value, referrer)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "foundation: failed to pack buyV2: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// FillListingTx buys the token at the order's buy now price
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
		return nil, err
	}
	if order.Price == "" {
		return nil, chain.Malformed(exchangeName, "price is required")
	}
	return e.FillOrderTx(taker, order, order.Price, opts)
}

// FillBidTx always fails: the market has no offers to sell into
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	return nil, chain.Unsupported(exchangeName, "bid fills")
}
