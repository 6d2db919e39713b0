package blurswap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const exchangeName = "blurswap"

// TradeDetails is one market call executed by the aggregator. Value is the
// native amount forwarded with TradeData to the market registered under
// MarketID.
type TradeDetails struct {
	MarketID  *big.Int `abi:"marketId"`
	Value     *big.Int `abi:"value"`
	TradeData []byte   `abi:"tradeData"`
}

// BlurSwap router ABI JSON for batchBuyWithETH
const routerABIJSON = `[
	{
		"inputs": [
			{"name": "tradeDetails", "type": "tuple[]", "components": [
				{"name": "marketId", "type": "uint256"},
				{"name": "value", "type": "uint256"},
				{"name": "tradeData", "type": "bytes"}
			]}
		],
		"name": "batchBuyWithETH",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

var routerABI = chain.MustParseABI("BlurSwap router", routerABIJSON)

// Addresses of the BlurSwap router
var Addresses = chain.AddressTable{
	chain.Mainnet: common.HexToAddress("0x39da41747a83aeE658334415666f3EF92DD0D541"),
}

// Exchange encodes batchBuyWithETH calls on the BlurSwap aggregator.
//
// No options are honored.
type Exchange struct {
	ChainID int64
	Address common.Address
}

// NewExchange resolves the BlurSwap router deployed on chainID
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

// ABI returns the parsed router ABI
func (e *Exchange) ABI() abi.ABI {
	return routerABI
}

// TradeFromTx wraps a market transaction built by another adapter as a
// trade leg for marketID
func TradeFromTx(marketID int64, tx *chain.TxData) TradeDetails {
	return TradeDetails{
		MarketID:  big.NewInt(marketID),
		Value:     tx.ValueBig(),
		TradeData: append([]byte{}, tx.Data...),
	}
}

// --- Fill order ---

// FillOrderTx encodes batchBuyWithETH(trades). price is the native value
// sent, as a decimal or hex string; it is used as given.
func (e *Exchange) FillOrderTx(taker common.Address, trades []TradeDetails, price string, opts chain.FillOptions) (*chain.TxData, error) {
	if len(trades) == 0 {
		return nil, &chain.InvalidParamError{Message: "blurswap: no trades to fill"}
	}
	value, err := chain.ParseBig(price)
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "blurswap: invalid price: " + err.Error()}
	}
	data, err := routerABI.Pack("batchBuyWithETH", trades)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "blurswap: failed to pack batchBuyWithETH: %v", err)
	}
	return chain.NewTxData(taker, e.Address, data, value), nil
}

// TotalValue sums the native value of every trade leg
func TotalValue(trades []TradeDetails) *big.Int {
	values := make([]*big.Int, 0, len(trades))
	for _, trade := range trades {
		values = append(values, trade.Value)
	}
	return chain.SumValues(values...)
}
