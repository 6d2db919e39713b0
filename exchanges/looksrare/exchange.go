package looksrare

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// Exchange encodes fills against the LooksRare v1 exchange.
//
// No options are honored.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the LooksRare exchange deployed on chainID
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

// ABI returns the parsed exchange ABI
func (e *Exchange) ABI() abi.ABI {
	return exchangeABI
}

// --- Fill order ---

// FillOrderTx encodes matchAskWithTakerBidUsingETHAndWETH. price is the
// native value sent; any remainder of the ask is paid in WETH.
func (e *Exchange) FillOrderTx(taker common.Address, makerAsk *MakerOrder, takerBid *TakerOrder, price string, opts chain.FillOptions) (*chain.TxData, error) {
	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "looks-rare: invalid price: " + err.Error()}
	}
	data, err := exchangeABI.Pack("matchAskWithTakerBidUsingETHAndWETH", *takerBid, *makerAsk)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "looks-rare: failed to pack matchAskWithTakerBidUsingETHAndWETH: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// SellOrderTx encodes matchBidWithTakerAsk
func (e *Exchange) SellOrderTx(taker common.Address, makerBid *MakerOrder, takerAsk *TakerOrder, opts chain.FillOptions) (*chain.TxData, error) {
	data, err := exchangeABI.Pack("matchBidWithTakerAsk", *takerAsk, *makerBid)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "looks-rare: failed to pack matchBidWithTakerAsk: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, nil), nil
}

// FillListingTx buys a maker ask for its full price. LooksRare asks cannot
// be filled partially.
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if !order.IsOrderAsk {
		return nil, chain.Malformed(exchangeName, "listing fill requires an ask")
	}
	maker, err := order.MakerOrder()
	if err != nil {
		return nil, err
	}
	if err := chain.CheckFullFill(exchangeName, amount, maker.Amount); err != nil {
		return nil, err
	}
	takerBid, err := order.BuildMatching(taker, nil)
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, maker, takerBid, maker.Price.String(), opts)
}

// FillBidTx sells tokenID into a maker bid
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.IsOrderAsk {
		return nil, chain.Malformed(exchangeName, "bid fill requires a bid")
	}
	maker, err := order.MakerOrder()
	if err != nil {
		return nil, err
	}
	takerAsk, err := order.BuildMatching(taker, tokenID)
	if err != nil {
		return nil, err
	}
	return e.SellOrderTx(taker, maker, takerAsk, opts)
}

// GetMinNonce reads the lowest order nonce still valid for user
func (e *Exchange) GetMinNonce(ctx context.Context, caller *chain.Caller, user common.Address) (*big.Int, error) {
	out, err := caller.Call(ctx, e.Address, exchangeABI, "userMinOrderNonce", user)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
