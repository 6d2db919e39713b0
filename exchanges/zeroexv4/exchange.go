package zeroexv4

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// Exchange encodes fills against the 0x v4 exchange proxy.
//
// No options are honored: purchased tokens always go to the taker and the
// referrer is ignored.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the 0x exchange proxy deployed on chainID
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

func (e *Exchange) pack(taker common.Address, price *big.Int, method string, args ...interface{}) (*chain.TxData, error) {
	data, err := exchangeABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "zeroex-v4: failed to pack %s: %v", method, err)
	}
	return chain.NewTxData(taker, e.Address, data, price), nil
}

// --- Fill order ---

// FillListingTx buys a sell order. amount is only accepted for ERC1155
// orders, which fill partially.
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if err := checkListing(taker, order); err != nil {
		return nil, err
	}
	sig, err := order.Signature()
	if err != nil {
		return nil, err
	}

	switch order.Kind {
	case chain.ContractKindERC721:
		o, err := order.ERC721()
		if err != nil {
			return nil, err
		}
		if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
			return nil, err
		}
		return e.pack(taker, listingValue(order, o.Erc20TokenAmount, o.Fees, nil, nil), "buyERC721", *o, *sig, []byte{})
	default:
		o, err := order.ERC1155()
		if err != nil {
			return nil, err
		}
		fill, err := fillAmount(amount, o.Erc1155TokenAmount)
		if err != nil {
			return nil, err
		}
		value := listingValue(order, o.Erc20TokenAmount, o.Fees, fill, o.Erc1155TokenAmount)
		return e.pack(taker, value, "buyERC1155", *o, *sig, fill, []byte{})
	}
}

// FillListingsTx buys several sell orders with batchBuyERC721s and
// batchBuyERC1155s, one transaction per token standard in first-appearance
// order. Batches revert unless every order fills.
func (e *Exchange) FillListingsTx(taker common.Address, orders []*Order, amounts []*big.Int, opts chain.FillOptions) ([]*chain.TxData, error) {
	if len(amounts) != 0 && len(amounts) != len(orders) {
		return nil, &chain.InvalidParamError{Message: "zeroex-v4: amounts must match orders"}
	}

	type group struct {
		erc721  []ERC721Order
		erc1155 []ERC1155Order
		sigs    []Signature
		fills   []*big.Int
		value   *big.Int
	}
	groups := make(map[chain.ContractKind]*group)
	var kinds []chain.ContractKind

	for i, order := range orders {
		if err := checkListing(taker, order); err != nil {
			return nil, chain.AtItem(i, err)
		}
		var amount *big.Int
		if len(amounts) != 0 {
			amount = amounts[i]
		}
		sig, err := order.Signature()
		if err != nil {
			return nil, chain.AtItem(i, err)
		}

		g, ok := groups[order.Kind]
		if !ok {
			g = &group{value: new(big.Int)}
			groups[order.Kind] = g
			kinds = append(kinds, order.Kind)
		}
		g.sigs = append(g.sigs, *sig)

		switch order.Kind {
		case chain.ContractKindERC721:
			o, err := order.ERC721()
			if err != nil {
				return nil, chain.AtItem(i, err)
			}
			if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
				return nil, chain.AtItem(i, err)
			}
			g.erc721 = append(g.erc721, *o)
			g.value = chain.SumValues(g.value, listingValue(order, o.Erc20TokenAmount, o.Fees, nil, nil))
		default:
			o, err := order.ERC1155()
			if err != nil {
				return nil, chain.AtItem(i, err)
			}
			fill, err := fillAmount(amount, o.Erc1155TokenAmount)
			if err != nil {
				return nil, chain.AtItem(i, err)
			}
			g.erc1155 = append(g.erc1155, *o)
			g.fills = append(g.fills, fill)
			g.value = chain.SumValues(g.value, listingValue(order, o.Erc20TokenAmount, o.Fees, fill, o.Erc1155TokenAmount))
		}
	}

	txs := make([]*chain.TxData, 0, len(kinds))
	for _, kind := range kinds {
		g := groups[kind]
		callbacks := make([][]byte, len(g.sigs))
		for i := range callbacks {
			callbacks[i] = []byte{}
		}

		var (
			tx  *chain.TxData
			err error
		)
		if kind == chain.ContractKindERC721 {
			tx, err = e.pack(taker, g.value, "batchBuyERC721s", g.erc721, g.sigs, callbacks, true)
		} else {
			tx, err = e.pack(taker, g.value, "batchBuyERC1155s", g.erc1155, g.sigs, g.fills, callbacks, true)
		}
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// FillBidTx sells tokenID into a buy order. Property-based orders accept
// any token id; others only their own. A SellArgs extra argument controls
// unwrapping of the proceeds.
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, extra chain.ExtraArgs, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Direction != DirectionBuy {
		return nil, chain.Malformed(exchangeName, "bid fill requires a buy order")
	}

	var args SellArgs
	switch a := extra.(type) {
	case nil:
	case SellArgs:
		args = a
	case *SellArgs:
		if a != nil {
			args = *a
		}
	default:
		return nil, chain.Malformed(exchangeName, "unexpected extra arguments for %s", extra.Exchange())
	}

	sig, err := order.Signature()
	if err != nil {
		return nil, err
	}

	switch order.Kind {
	case chain.ContractKindERC721:
		o, err := order.ERC721()
		if err != nil {
			return nil, err
		}
		id, err := sellTokenID(tokenID, o.Erc721TokenId, len(o.Erc721TokenProperties) > 0)
		if err != nil {
			return nil, err
		}
		return e.pack(taker, nil, "sellERC721", *o, *sig, id, args.UnwrapNativeToken, []byte{})
	default:
		o, err := order.ERC1155()
		if err != nil {
			return nil, err
		}
		id, err := sellTokenID(tokenID, o.Erc1155TokenId, len(o.Erc1155TokenProperties) > 0)
		if err != nil {
			return nil, err
		}
		return e.pack(taker, nil, "sellERC1155", *o, *sig, id, big.NewInt(1), args.UnwrapNativeToken, []byte{})
	}
}

func checkListing(taker common.Address, order *Order) error {
	if order.Direction != DirectionSell {
		return chain.Malformed(exchangeName, "listing fill requires a sell order")
	}
	reserved, err := chain.ParseAddress(order.Taker)
	if err != nil {
		return chain.Malformed(exchangeName, "taker: %v", err)
	}
	if reserved != (common.Address{}) && reserved != taker {
		return chain.Malformed(exchangeName, "order is reserved for %s", reserved.Hex())
	}
	return nil
}

// listingValue is the native value for a listing, none for ERC20 priced orders
func listingValue(order *Order, erc20Amount *big.Int, fees []Fee, fill, total *big.Int) *big.Int {
	if !order.IsNative() {
		return nil
	}
	return BuyPrice(erc20Amount, fees, fill, total)
}

func fillAmount(amount, total *big.Int) (*big.Int, error) {
	if amount == nil {
		return new(big.Int).Set(total), nil
	}
	if amount.Sign() <= 0 || amount.Cmp(total) > 0 {
		return nil, &chain.InvalidParamError{Message: "zeroex-v4: amount must be between 1 and " + total.String()}
	}
	return new(big.Int).Set(amount), nil
}

func sellTokenID(requested, orderID *big.Int, byProperty bool) (*big.Int, error) {
	if byProperty {
		if requested == nil {
			return nil, chain.Malformed(exchangeName, "property order needs a token id")
		}
		return new(big.Int).Set(requested), nil
	}
	if requested != nil && requested.Cmp(orderID) != 0 {
		return nil, chain.Malformed(exchangeName, "token id %s does not match the bid for %s", requested, orderID)
	}
	return new(big.Int).Set(orderID), nil
}
