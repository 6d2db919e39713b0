package sudoswap

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// DefaultDeadline is how long a swap stays valid when no deadline is given
const DefaultDeadline = time.Hour

// Exchange encodes swaps through the Sudoswap router.
//
// Honored options: Deadline, Recipient. Referrer is ignored.
type Exchange struct {
	ChainID int64
	Address common.Address

	// Now is the clock used for the default deadline
	Now func() time.Time
}

// NewExchange resolves the Sudoswap router deployed on chainID
func NewExchange(chainID int64) (*Exchange, error) {
	addr, err := Addresses.Resolve(exchangeName, chainID)
	if err != nil {
		return nil, err
	}
	return NewExchangeAt(chainID, addr), nil
}

// NewExchangeAt binds the adapter to an explicit router deployment
func NewExchangeAt(chainID int64, address common.Address) *Exchange {
	return &Exchange{ChainID: chainID, Address: address, Now: time.Now}
}

// deadline returns the swap deadline in unix seconds
func (e *Exchange) deadline(opts chain.FillOptions) *big.Int {
	if !opts.Deadline.IsZero() {
		return big.NewInt(opts.Deadline.Unix())
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return big.NewInt(now().Add(DefaultDeadline).Unix())
}

// --- Fill order ---

// FillOrderTx encodes swapETHForSpecificNFTs. Both the NFTs and any
// unspent ETH go to the recipient (the taker by default).
func (e *Exchange) FillOrderTx(taker common.Address, swapList []PairSwapSpecific, price string, opts chain.FillOptions) (*chain.TxData, error) {
	if len(swapList) == 0 {
		return nil, &chain.InvalidParamError{Message: "sudoswap: empty swap list"}
	}

	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "sudoswap: invalid price: " + err.Error()}
	}

	recipient := opts.RecipientOr(taker)
	data, err := routerABI.Pack("swapETHForSpecificNFTs", swapList, recipient, recipient, e.deadline(opts))
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "sudoswap: failed to pack swapETHForSpecificNFTs: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// SellOrderTx encodes swapNFTsForToken, requiring at least minOutput in return
func (e *Exchange) SellOrderTx(taker common.Address, swapList []PairSwapSpecific, minOutput *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if len(swapList) == 0 {
		return nil, &chain.InvalidParamError{Message: "sudoswap: empty swap list"}
	}
	if minOutput == nil {
		minOutput = new(big.Int)
	}

	data, err := routerABI.Pack("swapNFTsForToken", swapList, minOutput, opts.RecipientOr(taker), e.deadline(opts))
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "sudoswap: failed to pack swapNFTsForToken: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, nil), nil
}

// FillListingsTx buys every fill in one swap. Pairs only sell whole ERC721
// tokens, so amounts other than nil or 1 are rejected.
func (e *Exchange) FillListingsTx(taker common.Address, fills []Fill, amounts []*big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	for i, amount := range amounts {
		if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
			return nil, chain.AtItem(i, err)
		}
	}
	swapList, total, err := BuildSwapList(fills)
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, swapList, total.String(), opts)
}

// FillBidsTx sells every fill into its pair, requiring the summed quote
func (e *Exchange) FillBidsTx(taker common.Address, fills []Fill, opts chain.FillOptions) (*chain.TxData, error) {
	swapList, total, err := BuildSwapList(fills)
	if err != nil {
		return nil, err
	}
	return e.SellOrderTx(taker, swapList, total, opts)
}
