package x2y2

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const exchangeName = "x2y2"

// Order type as reported by the X2Y2 API
const (
	TypeSell = "sell"
	TypeBuy  = "buy"
)

// Order is an X2Y2 order together with the run input the X2Y2 API signed
// for the taker. Input is the ABI-encoded RunInput in hex.
type Order struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Maker    string `json:"maker"`
	Currency string `json:"currency"`
	Price    string `json:"price"`
	ItemHash string `json:"itemHash"`
	Input    string `json:"input"`
}

// DecodeInput decodes the signed run input carried by the order
func (o *Order) DecodeInput() (*RunInput, error) {
	raw, err := chain.ParseBytes(o.Input)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "input: %v", err)
	}
	if len(raw) == 0 {
		return nil, chain.Malformed(exchangeName, "order has no signed input")
	}
	values, err := marketABI.Methods["run"].Inputs.Unpack(raw)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "failed to decode input: %v", err)
	}
	return abi.ConvertType(values[0], new(RunInput)).(*RunInput), nil
}

// EncodeInput ABI-encodes a run input into the hex form carried by orders
func EncodeInput(input *RunInput) (string, error) {
	raw, err := marketABI.Methods["run"].Inputs.Pack(*input)
	if err != nil {
		return "", errors.Wrap(err, "x2y2: failed to encode input")
	}
	return hexutil.Encode(raw), nil
}

// Exchange encodes run calls on the X2Y2 market.
//
// No options are honored: the signed input fixes every settlement detail.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the X2Y2 market deployed on chainID
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

// FillOrderTx encodes run(input). The input must have been signed for taker.
func (e *Exchange) FillOrderTx(taker common.Address, input *RunInput, price string, opts chain.FillOptions) (*chain.TxData, error) {
	if input.Shared.User != taker {
		return nil, chain.Malformed(exchangeName, "input was signed for %s, not %s", input.Shared.User.Hex(), taker.Hex())
	}
	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "x2y2: invalid price: " + err.Error()}
	}
	data, err := marketABI.Pack("run", *input)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "x2y2: failed to pack run: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// FillListingTx buys a sell order through its signed input
func (e *Exchange) FillListingTx(taker common.Address, order *Order, amount *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Type != TypeSell {
		return nil, chain.Malformed(exchangeName, "listing fill requires a sell order")
	}
	if err := chain.CheckFullFill(exchangeName, amount, nil); err != nil {
		return nil, err
	}
	input, err := order.DecodeInput()
	if err != nil {
		return nil, err
	}
	price := order.Price
	if currency, err := chain.ParseAddress(order.Currency); err != nil || currency != (common.Address{}) {
		price = ""
	}
	return e.FillOrderTx(taker, input, price, opts)
}

// FillBidTx sells into a buy order through its signed input
func (e *Exchange) FillBidTx(taker common.Address, order *Order, tokenID *big.Int, opts chain.FillOptions) (*chain.TxData, error) {
	if order.Type != TypeBuy {
		return nil, chain.Malformed(exchangeName, "bid fill requires a buy order")
	}
	input, err := order.DecodeInput()
	if err != nil {
		return nil, err
	}
	return e.FillOrderTx(taker, input, "", opts)
}
