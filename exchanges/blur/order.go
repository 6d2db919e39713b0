package blur

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

const exchangeName = "blur"

// OrderFee is the JSON form of a Fee
type OrderFee struct {
	Rate      string `json:"rate"`
	Recipient string `json:"recipient"`
}

// Order represents a signed Blur order as exchanged with the marketplace
type Order struct {
	Trader           string     `json:"trader"`
	Side             Side       `json:"side"`
	MatchingPolicy   string     `json:"matchingPolicy"`
	Collection       string     `json:"collection"`
	TokenID          string     `json:"tokenId"`
	Amount           string     `json:"amount"`
	PaymentToken     string     `json:"paymentToken"`
	Price            string     `json:"price"`
	ListingTime      string     `json:"listingTime"`
	ExpirationTime   string     `json:"expirationTime"`
	Fees             []OrderFee `json:"fees"`
	Salt             string     `json:"salt"`
	ExtraParams      string     `json:"extraParams"`
	V                uint8      `json:"v"`
	R                string     `json:"r"`
	S                string     `json:"s"`
	ExtraSignature   string     `json:"extraSignature"`
	SignatureVersion uint8      `json:"signatureVersion"`
	BlockNumber      string     `json:"blockNumber"`
}

// Parameters converts the order into its ABI form
func (o *Order) Parameters() (*OrderParameters, error) {
	if o.Side != SideBuy && o.Side != SideSell {
		return nil, chain.Malformed(exchangeName, "invalid side %d", o.Side)
	}

	trader, err := chain.ParseAddress(o.Trader)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "trader: %v", err)
	}
	if trader == (common.Address{}) {
		return nil, chain.Malformed(exchangeName, "trader is required")
	}
	policy, err := chain.ParseAddress(o.MatchingPolicy)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "matchingPolicy: %v", err)
	}
	collection, err := chain.ParseAddress(o.Collection)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "collection: %v", err)
	}
	paymentToken, err := chain.ParseAddress(o.PaymentToken)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "paymentToken: %v", err)
	}

	ints := make([]*big.Int, 6)
	for i, field := range []struct{ name, value string }{
		{"tokenId", o.TokenID},
		{"amount", o.Amount},
		{"price", o.Price},
		{"listingTime", o.ListingTime},
		{"expirationTime", o.ExpirationTime},
		{"salt", o.Salt},
	} {
		v, err := chain.ParseBig(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		ints[i] = v
	}
	if ints[1].Sign() == 0 {
		ints[1] = big.NewInt(1)
	}

	fees := make([]Fee, 0, len(o.Fees))
	for _, f := range o.Fees {
		rate, err := chain.ParseUint(f.Rate, 16)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "fee rate: %v", err)
		}
		recipient, err := chain.ParseAddress(f.Recipient)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "fee recipient: %v", err)
		}
		fees = append(fees, Fee{Rate: uint16(rate), Recipient: recipient})
	}

	extraParams, err := chain.ParseBytes(o.ExtraParams)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "extraParams: %v", err)
	}

	return &OrderParameters{
		Trader:         trader,
		Side:           uint8(o.Side),
		MatchingPolicy: policy,
		Collection:     collection,
		TokenID:        ints[0],
		Amount:         ints[1],
		PaymentToken:   paymentToken,
		Price:          ints[2],
		ListingTime:    ints[3],
		ExpirationTime: ints[4],
		Fees:           fees,
		Salt:           ints[5],
		ExtraParams:    extraParams,
	}, nil
}

// Input converts the signed order into an execute input
func (o *Order) Input() (*Input, error) {
	params, err := o.Parameters()
	if err != nil {
		return nil, err
	}

	r, err := chain.ParseBytes32(o.R)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "r: %v", err)
	}
	s, err := chain.ParseBytes32(o.S)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "s: %v", err)
	}
	extraSignature, err := chain.ParseBytes(o.ExtraSignature)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "extraSignature: %v", err)
	}
	blockNumber, err := chain.ParseBig(o.BlockNumber)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "blockNumber: %v", err)
	}

	return &Input{
		Order:            *params,
		V:                o.V,
		R:                r,
		S:                s,
		ExtraSignature:   extraSignature,
		SignatureVersion: o.SignatureVersion,
		BlockNumber:      blockNumber,
	}, nil
}

// BuildMatching builds the unsigned counter-input a taker submits against
// this order. tokenID is used when the maker order is a collection bid; a nil
// tokenID keeps the maker's token.
func (o *Order) BuildMatching(taker common.Address, tokenID *big.Int) (*Input, error) {
	maker, err := o.Input()
	if err != nil {
		return nil, err
	}

	params := maker.Order
	params.Trader = taker
	params.Side = uint8(SideBuy)
	if o.Side == SideBuy {
		params.Side = uint8(SideSell)
	}
	if tokenID != nil {
		params.TokenID = new(big.Int).Set(tokenID)
	}
	params.Fees = []Fee{}
	params.Salt = new(big.Int)
	params.ExtraParams = []byte{}

	return &Input{
		Order:          params,
		ExtraSignature: []byte{},
		BlockNumber:    new(big.Int).Set(maker.BlockNumber),
	}, nil
}
