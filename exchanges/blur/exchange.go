package blur

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// Exchange encodes fills against the Blur exchange.
//
// Honored options: Referrer (appended to calldata).
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the Blur exchange deployed on chainID
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

// FillOrderTx encodes execute(sell, buy). price is the native value the
// taker sends, as a decimal or hex string; empty means none.
func (e *Exchange) FillOrderTx(taker common.Address, sell, buy *Input, price string, opts chain.FillOptions) (*chain.TxData, error) {
	data, err := exchangeABI.Pack("execute", *sell, *buy)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "blur: failed to pack execute: %v", err)
	}
	return e.tx(taker, data, price, opts)
}

// FillOrdersTx encodes bulkExecute(executions)
func (e *Exchange) FillOrdersTx(taker common.Address, executions []Execution, price string, opts chain.FillOptions) (*chain.TxData, error) {
	if len(executions) == 0 {
		return nil, &chain.InvalidParamError{Message: "blur: no executions to fill"}
	}
	data, err := exchangeABI.Pack("bulkExecute", executions)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "blur: failed to pack bulkExecute: %v", err)
	}
	return e.tx(taker, data, price, opts)
}

func (e *Exchange) tx(taker common.Address, data []byte, price string, opts chain.FillOptions) (*chain.TxData, error) {
	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "blur: invalid price: " + err.Error()}
	}
	data, err = chain.AppendReferrer(data, opts.Referrer)
	if err != nil {
		return nil, err
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// FillListingTx buys the token offered by a signed sell order. Only a zero
// payment token (ETH) carries value. Blur orders are never partially fillable.
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	execution, price, err := e.listingExecution(taker, order, amount)
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, &execution.Sell, &execution.Buy, price.String(), opts)
}

// FillListingsTx buys several listings through a single bulkExecute. The
// transaction value is the exact sum of the ETH-priced listings.
func (e *Exchange) FillListingsTx(taker common.Address, orders []*Order, amounts []*big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if len(amounts) != 0 && len(amounts) != len(orders) {
		return nil, &chain.InvalidParamError{Message: "blur: amounts must match orders"}
	}

	executions := make([]Execution, 0, len(orders))
	total := new(big.Int)
	for i, order := range orders {
		var amount *big.Int
		if len(amounts) != 0 {
			amount = amounts[i]
		}
		execution, price, err := e.listingExecution(taker, order, amount)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		executions = append(executions, *execution)
		total.Add(total, price)
	}
	return e.FillOrdersTx(taker, executions, total.String(), opts)
}

// FillBidTx sells tokenID into a signed buy order. Blur bids are
// denominated in pool balance, so there is no native value.
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Side != SideBuy {
		return nil, chain.Malformed(exchangeName, "bid fill requires a buy order")
	}
	buy, err := order.Input()
	if err != nil {
		return nil, err
	}
	sell, err := order.BuildMatching(taker, tokenID)
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, sell, buy, "", opts)
}

func (e *Exchange) listingExecution(taker common.Address, order *Order, amount *big.Int) (*Execution, *big.Int, error) {
	if order.Side != SideSell {
		return nil, nil, chain.Malformed(exchangeName, "listing fill requires a sell order")
	}
	sell, err := order.Input()
	if err != nil {
		return nil, nil, err
	}
	if err := chain.CheckFullFill(exchangeName, amount, sell.Order.Amount); err != nil {
		return nil, nil, err
	}
	buy, err := order.BuildMatching(taker, nil)
	if err != nil {
		return nil, nil, err
	}
	value := new(big.Int)
	if sell.Order.PaymentToken == (common.Address{}) {
		value.Set(sell.Order.Price)
	}
	return &Execution{Sell: *sell, Buy: *buy}, value, nil
}

// GetNonce reads the trader's current nonce
func (e *Exchange) GetNonce(ctx context.Context, caller *chain.Caller, trader common.Address) (*big.Int, error) {
	out, err := caller.Call(ctx, e.Address, exchangeABI, "nonces", trader)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
