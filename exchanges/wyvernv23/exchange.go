package wyvernv23

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// Exchange encodes atomicMatch_ calls on the Wyvern v2.3 exchange.
//
// No options are honored.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the Wyvern exchange deployed on chainID
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

// MatchArgs lays buy and sell out in the flattened atomicMatch_ argument form
func MatchArgs(buy, sell *Parameters) []interface{} {
	var (
		addrs [14]common.Address
		uints [18]*big.Int
		enums [8]uint8
		rss   [5][32]byte
	)
	for i, p := range []*Parameters{buy, sell} {
		copy(addrs[7*i:], []common.Address{p.Exchange, p.Maker, p.Taker, p.FeeRecipient, p.Target, p.StaticTarget, p.PaymentToken})
		copy(uints[9*i:], []*big.Int{
			p.MakerRelayerFee, p.TakerRelayerFee, p.MakerProtocolFee, p.TakerProtocolFee,
			p.BasePrice, p.Extra, p.ListingTime, p.ExpirationTime, p.Salt,
		})
		copy(enums[4*i:], []uint8{p.FeeMethod, p.Side, p.SaleKind, p.HowToCall})
		rss[2*i] = p.R
		rss[2*i+1] = p.S
	}
	return []interface{}{
		addrs, uints, enums,
		buy.Calldata, sell.Calldata,
		buy.ReplacementPattern, sell.ReplacementPattern,
		buy.StaticExtradata, sell.StaticExtradata,
		[2]uint8{buy.V, sell.V},
		rss,
	}
}

// FillOrderTx encodes atomicMatch_(buy, sell). value is the native amount
// sent with the match, nil for token-paid orders.
func (e *Exchange) FillOrderTx(taker common.Address, buy, sell *Order, value *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	b, err := buy.Parameters()
	if err != nil {
		return nil, err
	}
	s, err := sell.Parameters()
	if err != nil {
		return nil, err
	}
	if Side(b.Side) != SideBuy || Side(s.Side) != SideSell {
		return nil, chain.Malformed(exchangeName, "atomic match needs a buy and a sell order")
	}
	if !CalldataMatches(b, s) {
		return nil, chain.Malformed(exchangeName, "buy and sell calldata do not match")
	}
	data, err := exchangeABI.Pack("atomicMatch_", MatchArgs(b, s)...)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "wyvern-v2.3: failed to pack atomicMatch_: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// FillListingTx buys a sell order. Native-currency listings send basePrice.
// Wyvern orders cannot be filled partially.
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Side != SideSell {
		return nil, chain.Malformed(exchangeName, "listing fill requires a sell order")
	}
	if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
		return nil, err
	}
	sell, err := order.Parameters()
	if err != nil {
		return nil, err
	}
	if sell.Taker != (common.Address{}) && sell.Taker != taker {
		return nil, chain.Malformed(exchangeName, "listing is reserved for %s", sell.Taker.Hex())
	}
	buy, err := order.BuildMatching(taker, nil)
	if err != nil {
		return nil, err
	}
	var value *big.Int
	if sell.PaymentToken == (common.Address{}) {
		value = sell.BasePrice
	}
	return e.FillOrderTx(taker, buy, order, value, opts)
}

// FillBidTx sells tokenID into a buy order. tokenID is required for
// contract-wide bids.
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Side != SideBuy {
		return nil, chain.Malformed(exchangeName, "bid fill requires a buy order")
	}
	sell, err := order.BuildMatching(taker, tokenID)
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, order, sell, nil, opts)
}

// --- Nonces ---

// GetNonce reads the current order nonce of maker
func (e *Exchange) GetNonce(ctx context.Context, caller *chain.Caller, maker common.Address) (*big.Int, error) {
	out, err := caller.Call(ctx, e.Address, exchangeABI, "nonces", maker)
	if err != nil {
		return nil, errors.WithMessage(err, exchangeName)
	}
	return out[0].(*big.Int), nil
}
