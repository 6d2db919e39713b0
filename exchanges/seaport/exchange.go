package seaport

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// Exchange encodes fills against Seaport 1.1.
//
// Honored options: Referrer (appended to calldata), Recipient. Fills always
// use the zero fulfiller conduit key.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the Seaport deployment on chainID
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

// FillOrderTx encodes fulfillAdvancedOrder
func (e *Exchange) FillOrderTx(taker common.Address, order *AdvancedOrder, resolvers []CriteriaResolver, price string, opts chain.FillOptions) (*chain.TxData, error) {
	if resolvers == nil {
		resolvers = []CriteriaResolver{}
	}
	data, err := exchangeABI.Pack("fulfillAdvancedOrder", *order, resolvers, [32]byte{}, opts.RecipientOr(taker))
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "seaport: failed to pack fulfillAdvancedOrder: %v", err)
	}
	return e.tx(taker, data, price, opts)
}

// FillOrdersTx encodes fulfillAvailableAdvancedOrders over every order, with
// one fulfillment group per item and maximumFulfilled set to the order count
func (e *Exchange) FillOrdersTx(taker common.Address, orders []AdvancedOrder, price string, opts chain.FillOptions) (*chain.TxData, error) {
	if len(orders) == 0 {
		return nil, &chain.InvalidParamError{Message: "seaport: no orders to fill"}
	}
	offerFulfillments, considerationFulfillments := BuildFulfillments(orders)

	data, err := exchangeABI.Pack("fulfillAvailableAdvancedOrders",
		orders,
		[]CriteriaResolver{},
		offerFulfillments,
		considerationFulfillments,
		[32]byte{},
		opts.RecipientOr(taker),
		big.NewInt(int64(len(orders))),
	)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "seaport: failed to pack fulfillAvailableAdvancedOrders: %v", err)
	}
	return e.tx(taker, data, price, opts)
}

func (e *Exchange) tx(taker common.Address, data []byte, price string, opts chain.FillOptions) (*chain.TxData, error) {
	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "seaport: invalid price: " + err.Error()}
	}
	data, err = chain.AppendReferrer(data, opts.Referrer)
	if err != nil {
		return nil, err
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// BuildFulfillments returns singleton fulfillment groups for every offer and
// consideration item of the orders
func BuildFulfillments(orders []AdvancedOrder) ([][]FulfillmentComponent, [][]FulfillmentComponent) {
	offer := make([][]FulfillmentComponent, 0, len(orders))
	consideration := make([][]FulfillmentComponent, 0, len(orders))
	for i, order := range orders {
		for j := range order.Parameters.Offer {
			offer = append(offer, []FulfillmentComponent{{OrderIndex: big.NewInt(int64(i)), ItemIndex: big.NewInt(int64(j))}})
		}
		for j := range order.Parameters.Consideration {
			consideration = append(consideration, []FulfillmentComponent{{OrderIndex: big.NewInt(int64(i)), ItemIndex: big.NewInt(int64(j))}})
		}
	}
	return offer, consideration
}

// FillListingTx buys amount units of a listing. A nil amount buys the whole
// order; partial amounts need a partial order type.
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	advanced, value, err := e.listingOrder(order, amount)
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, advanced, nil, value.String(), opts)
}

// FillListingsTx buys several listings in one fulfillAvailableAdvancedOrders
// call. The value is the exact sum of each listing's prorated native price.
func (e *Exchange) FillListingsTx(taker common.Address, orders []*Order, amounts []*big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if len(amounts) != 0 && len(amounts) != len(orders) {
		return nil, &chain.InvalidParamError{Message: "seaport: amounts must match orders"}
	}

	advanced := make([]AdvancedOrder, 0, len(orders))
	total := new(big.Int)
	for i, order := range orders {
		var amount *big.Int
		if len(amounts) != 0 {
			amount = amounts[i]
		}
		a, value, err := e.listingOrder(order, amount)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		advanced = append(advanced, *a)
		total.Add(total, value)
	}
	return e.FillOrdersTx(taker, advanced, total.String(), opts)
}

func (e *Exchange) listingOrder(order *Order, amount *big.Int) (*AdvancedOrder, *big.Int, error) {
	if !order.IsListing() {
		return nil, nil, chain.Malformed(exchangeName, "listing fill requires an order offering an NFT")
	}
	if order.Parameters.Offer[0].ItemType.HasCriteria() {
		return nil, nil, chain.Malformed(exchangeName, "listing offers a criteria item")
	}
	params, err := order.Parameters.ABIParameters()
	if err != nil {
		return nil, nil, err
	}

	numerator, denominator, err := Fraction(params, params.Offer[0].StartAmount, amount)
	if err != nil {
		return nil, nil, err
	}
	value, err := NativeValue(params, numerator, denominator)
	if err != nil {
		return nil, nil, err
	}
	advanced, err := order.AdvancedOrder(numerator, denominator)
	if err != nil {
		return nil, nil, err
	}
	return advanced, value, nil
}

// FillBidTx sells tokenID into an offer. Criteria offers are resolved
// against tokenID with the proof carried by a CriteriaProof; any other extra
// argument type is rejected. ERC1155 offers for several units are filled
// one unit at a time when the order type allows it.
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, extra chain.ExtraArgs, opts chain.FillOptions) (*chain.TxData, error) {
	if order.IsListing() {
		return nil, chain.Malformed(exchangeName, "bid fill requires an order offering a currency")
	}

	var proof CriteriaProof
	switch args := extra.(type) {
	case nil:
	case CriteriaProof:
		proof = args
	case *CriteriaProof:
		if args != nil {
			proof = *args
		}
	default:
		return nil, chain.Malformed(exchangeName, "unexpected extra arguments for %s", extra.Exchange())
	}

	params, err := order.Parameters.ABIParameters()
	if err != nil {
		return nil, err
	}
	wanted := params.Consideration[0]
	if !ItemType(wanted.ItemType).IsNFT() {
		return nil, chain.Malformed(exchangeName, "first consideration item is not an NFT")
	}

	numerator, denominator := big.NewInt(1), big.NewInt(1)
	if wanted.StartAmount.Cmp(big.NewInt(1)) > 0 && OrderType(params.OrderType).Partial() {
		denominator = new(big.Int).Set(wanted.StartAmount)
	}
	advanced, err := order.AdvancedOrder(numerator, denominator)
	if err != nil {
		return nil, err
	}

	var resolvers []CriteriaResolver
	if ItemType(wanted.ItemType).HasCriteria() {
		if tokenID == nil {
			return nil, chain.Malformed(exchangeName, "criteria bid needs a token id")
		}
		if wanted.IdentifierOrCriteria.Sign() != 0 && len(proof.Proof) == 0 {
			return nil, chain.Malformed(exchangeName, "criteria bid needs a merkle proof")
		}
		hashes := make([][32]byte, 0, len(proof.Proof))
		for _, h := range proof.Proof {
			hashes = append(hashes, h)
		}
		resolvers = append(resolvers, CriteriaResolver{
			OrderIndex:    new(big.Int),
			Side:          SideConsideration,
			Index:         new(big.Int),
			Identifier:    new(big.Int).Set(tokenID),
			CriteriaProof: hashes,
		})
	} else if tokenID != nil && tokenID.Cmp(wanted.IdentifierOrCriteria) != 0 {
		return nil, chain.Malformed(exchangeName, "token id %s does not match the bid for %s", tokenID, wanted.IdentifierOrCriteria)
	}

	return e.FillOrderTx(taker, advanced, resolvers, "", opts)
}

// GetCounter reads the offerer's current counter
func (e *Exchange) GetCounter(ctx context.Context, caller *chain.Caller, offerer common.Address) (*big.Int, error) {
	out, err := caller.Call(ctx, e.Address, exchangeABI, "getCounter", offerer)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
