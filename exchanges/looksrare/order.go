package looksrare

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const exchangeName = "looks-rare"

// Order is a LooksRare v1 maker order as served by the marketplace API
type Order struct {
	IsOrderAsk         bool   `json:"isOrderAsk"`
	Signer             string `json:"signer"`
	Collection         string `json:"collection"`
	Price              string `json:"price"`
	TokenID            string `json:"tokenId"`
	Amount             string `json:"amount"`
	Strategy           string `json:"strategy"`
	Currency           string `json:"currency"`
	Nonce              string `json:"nonce"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	MinPercentageToAsk string `json:"minPercentageToAsk"`
	Params             string `json:"params"`
	V                  uint8  `json:"v"`
	R                  string `json:"r"`
	S                  string `json:"s"`
}

// MakerOrder converts the order into its ABI form
func (o *Order) MakerOrder() (*MakerOrder, error) {
	addrs := make([]common.Address, 4)
	for i, field := range []struct{ name, value string }{
		{"signer", o.Signer},
		{"collection", o.Collection},
		{"strategy", o.Strategy},
		{"currency", o.Currency},
	} {
		addr, err := chain.ParseAddress(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		addrs[i] = addr
	}
	if addrs[0] == (common.Address{}) {
		return nil, chain.Malformed(exchangeName, "signer is required")
	}

	ints := make([]*big.Int, 7)
	for i, field := range []struct{ name, value string }{
		{"price", o.Price},
		{"tokenId", o.TokenID},
		{"amount", o.Amount},
		{"nonce", o.Nonce},
		{"startTime", o.StartTime},
		{"endTime", o.EndTime},
		{"minPercentageToAsk", o.MinPercentageToAsk},
	} {
		v, err := chain.ParseBig(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		ints[i] = v
	}
	if ints[2].Sign() == 0 {
		ints[2] = big.NewInt(1)
	}

	params, err := chain.ParseBytes(o.Params)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "params: %v", err)
	}
	r, err := chain.ParseBytes32(o.R)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "r: %v", err)
	}
	s, err := chain.ParseBytes32(o.S)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "s: %v", err)
	}

	return &MakerOrder{
		IsOrderAsk:         o.IsOrderAsk,
		Signer:             addrs[0],
		Collection:         addrs[1],
		Price:              ints[0],
		TokenId:            ints[1],
		Amount:             ints[2],
		Strategy:           addrs[2],
		Currency:           addrs[3],
		Nonce:              ints[3],
		StartTime:          ints[4],
		EndTime:            ints[5],
		MinPercentageToAsk: ints[6],
		Params:             params,
		V:                  o.V,
		R:                  r,
		S:                  s,
	}, nil
}

// StructHash returns the EIP-712 struct hash of the maker order
func (m *MakerOrder) StructHash() (common.Hash, error) {
	return chain.HashStruct(
		[]string{"bytes32", "bool", "address", "address", "uint256", "uint256", "uint256", "address", "address", "uint256", "uint256", "uint256", "uint256", "bytes32"},
		MakerOrderTypeHash,
		m.IsOrderAsk,
		m.Signer,
		m.Collection,
		m.Price,
		m.TokenId,
		m.Amount,
		m.Strategy,
		m.Currency,
		m.Nonce,
		m.StartTime,
		m.EndTime,
		m.MinPercentageToAsk,
		crypto.Keccak256Hash(m.Params),
	)
}

// Hash returns the EIP-712 digest a maker signs on chainID
func (o *Order) Hash(chainID int64) (common.Hash, error) {
	addr, err := Addresses.Resolve(exchangeName, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	maker, err := o.MakerOrder()
	if err != nil {
		return common.Hash{}, err
	}
	structHash, err := maker.StructHash()
	if err != nil {
		return common.Hash{}, err
	}
	domain := chain.NewEIP712Domain(DomainName, DomainVersion, chainID, addr)
	return chain.TypedDataHash(domain, structHash), nil
}

// Sign signs the order with signer, which must be the order's signer, and
// stores v, r and s on it
func (o *Order) Sign(signer chain.Signer, chainID int64) error {
	maker, err := chain.ParseAddress(o.Signer)
	if err != nil {
		return chain.Malformed(exchangeName, "signer: %v", err)
	}
	if maker != signer.Address() {
		return &chain.InvalidParamError{Message: "looks-rare: signer " + signer.Address().Hex() + " does not match order signer " + maker.Hex()}
	}

	hash, err := o.Hash(chainID)
	if err != nil {
		return err
	}
	signature, err := signer.SignHash(hash)
	if err != nil {
		return errors.Wrap(err, "looks-rare: failed to sign order")
	}
	v, r, s, err := chain.SplitSignature(signature)
	if err != nil {
		return err
	}

	o.V = v
	o.R = common.Hash(r).Hex()
	o.S = common.Hash(s).Hex()
	return nil
}

// BuildMatching builds the taker order that fills this maker order.
// tokenID overrides the maker's token for collection bids.
func (o *Order) BuildMatching(taker common.Address, tokenID *big.Int) (*TakerOrder, error) {
	maker, err := o.MakerOrder()
	if err != nil {
		return nil, err
	}
	id := maker.TokenId
	if tokenID != nil {
		id = new(big.Int).Set(tokenID)
	}
	return &TakerOrder{
		IsOrderAsk:         !maker.IsOrderAsk,
		Taker:              taker,
		Price:              maker.Price,
		TokenId:            id,
		MinPercentageToAsk: maker.MinPercentageToAsk,
		Params:             []byte{},
	}, nil
}
