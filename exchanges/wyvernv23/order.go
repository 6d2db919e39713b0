package wyvernv23

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const exchangeName = "wyvern-v2.3"

// Order is a Wyvern v2.3 order in the JSON form used by marketplaces
type Order struct {
	Exchange           string    `json:"exchange"`
	Maker              string    `json:"maker"`
	Taker              string    `json:"taker"`
	MakerRelayerFee    string    `json:"makerRelayerFee"`
	TakerRelayerFee    string    `json:"takerRelayerFee"`
	MakerProtocolFee   string    `json:"makerProtocolFee"`
	TakerProtocolFee   string    `json:"takerProtocolFee"`
	FeeRecipient       string    `json:"feeRecipient"`
	FeeMethod          FeeMethod `json:"feeMethod"`
	Side               Side      `json:"side"`
	SaleKind           SaleKind  `json:"saleKind"`
	Target             string    `json:"target"`
	HowToCall          HowToCall `json:"howToCall"`
	Calldata           string    `json:"calldata"`
	ReplacementPattern string    `json:"replacementPattern"`
	StaticTarget       string    `json:"staticTarget"`
	StaticExtradata    string    `json:"staticExtradata"`
	PaymentToken       string    `json:"paymentToken"`
	BasePrice          string    `json:"basePrice"`
	Extra              string    `json:"extra"`
	ListingTime        string    `json:"listingTime"`
	ExpirationTime     string    `json:"expirationTime"`
	Salt               string    `json:"salt"`
	Nonce              string    `json:"nonce"`
	V                  uint8     `json:"v"`
	R                  string    `json:"r"`
	S                  string    `json:"s"`
}

// Parameters is the decoded form of an Order
type Parameters struct {
	Exchange           common.Address
	Maker              common.Address
	Taker              common.Address
	MakerRelayerFee    *big.Int
	TakerRelayerFee    *big.Int
	MakerProtocolFee   *big.Int
	TakerProtocolFee   *big.Int
	FeeRecipient       common.Address
	FeeMethod          uint8
	Side               uint8
	SaleKind           uint8
	Target             common.Address
	HowToCall          uint8
	Calldata           []byte
	ReplacementPattern []byte
	StaticTarget       common.Address
	StaticExtradata    []byte
	PaymentToken       common.Address
	BasePrice          *big.Int
	Extra              *big.Int
	ListingTime        *big.Int
	ExpirationTime     *big.Int
	Salt               *big.Int
	Nonce              *big.Int
	V                  uint8
	R                  [32]byte
	S                  [32]byte
}

// Parameters decodes the order
func (o *Order) Parameters() (*Parameters, error) {
	if o.Side != SideBuy && o.Side != SideSell {
		return nil, chain.Malformed(exchangeName, "invalid side %d", o.Side)
	}
	if o.SaleKind > SaleKindDutchAuction || o.HowToCall > HowToCallDelegateCall || o.FeeMethod > FeeMethodSplitFee {
		return nil, chain.Malformed(exchangeName, "invalid sale kind, call or fee method")
	}

	p := &Parameters{
		FeeMethod: uint8(o.FeeMethod),
		Side:      uint8(o.Side),
		SaleKind:  uint8(o.SaleKind),
		HowToCall: uint8(o.HowToCall),
		V:         o.V,
	}

	for _, field := range []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"exchange", o.Exchange, &p.Exchange},
		{"maker", o.Maker, &p.Maker},
		{"taker", o.Taker, &p.Taker},
		{"feeRecipient", o.FeeRecipient, &p.FeeRecipient},
		{"target", o.Target, &p.Target},
		{"staticTarget", o.StaticTarget, &p.StaticTarget},
		{"paymentToken", o.PaymentToken, &p.PaymentToken},
	} {
		addr, err := chain.ParseAddress(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		*field.dst = addr
	}
	if p.Maker == (common.Address{}) || p.Target == (common.Address{}) {
		return nil, chain.Malformed(exchangeName, "maker and target are required")
	}

	for _, field := range []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"makerRelayerFee", o.MakerRelayerFee, &p.MakerRelayerFee},
		{"takerRelayerFee", o.TakerRelayerFee, &p.TakerRelayerFee},
		{"makerProtocolFee", o.MakerProtocolFee, &p.MakerProtocolFee},
		{"takerProtocolFee", o.TakerProtocolFee, &p.TakerProtocolFee},
		{"basePrice", o.BasePrice, &p.BasePrice},
		{"extra", o.Extra, &p.Extra},
		{"listingTime", o.ListingTime, &p.ListingTime},
		{"expirationTime", o.ExpirationTime, &p.ExpirationTime},
		{"salt", o.Salt, &p.Salt},
		{"nonce", o.Nonce, &p.Nonce},
	} {
		v, err := chain.ParseBig(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		*field.dst = v
	}

	for _, field := range []struct {
		name  string
		value string
		dst   *[]byte
	}{
		{"calldata", o.Calldata, &p.Calldata},
		{"replacementPattern", o.ReplacementPattern, &p.ReplacementPattern},
		{"staticExtradata", o.StaticExtradata, &p.StaticExtradata},
	} {
		b, err := chain.ParseBytes(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		*field.dst = b
	}
	if len(p.ReplacementPattern) != 0 && len(p.ReplacementPattern) != len(p.Calldata) {
		return nil, chain.Malformed(exchangeName, "replacement pattern length %d does not match calldata length %d", len(p.ReplacementPattern), len(p.Calldata))
	}

	var err error
	if p.R, err = chain.ParseBytes32(o.R); err != nil {
		return nil, chain.Malformed(exchangeName, "r: %v", err)
	}
	if p.S, err = chain.ParseBytes32(o.S); err != nil {
		return nil, chain.Malformed(exchangeName, "s: %v", err)
	}
	return p, nil
}

// fromParameters renders decoded parameters back into an Order
func fromParameters(p *Parameters) *Order {
	return &Order{
		Exchange:           p.Exchange.Hex(),
		Maker:              p.Maker.Hex(),
		Taker:              p.Taker.Hex(),
		MakerRelayerFee:    p.MakerRelayerFee.String(),
		TakerRelayerFee:    p.TakerRelayerFee.String(),
		MakerProtocolFee:   p.MakerProtocolFee.String(),
		TakerProtocolFee:   p.TakerProtocolFee.String(),
		FeeRecipient:       p.FeeRecipient.Hex(),
		FeeMethod:          FeeMethod(p.FeeMethod),
		Side:               Side(p.Side),
		SaleKind:           SaleKind(p.SaleKind),
		Target:             p.Target.Hex(),
		HowToCall:          HowToCall(p.HowToCall),
		Calldata:           hexutil.Encode(p.Calldata),
		ReplacementPattern: hexutil.Encode(p.ReplacementPattern),
		StaticTarget:       p.StaticTarget.Hex(),
		StaticExtradata:    hexutil.Encode(p.StaticExtradata),
		PaymentToken:       p.PaymentToken.Hex(),
		BasePrice:          p.BasePrice.String(),
		Extra:              p.Extra.String(),
		ListingTime:        p.ListingTime.String(),
		ExpirationTime:     p.ExpirationTime.String(),
		Salt:               p.Salt.String(),
		Nonce:              p.Nonce.String(),
		V:                  p.V,
		R:                  common.Hash(p.R).Hex(),
		S:                  common.Hash(p.S).Hex(),
	}
}

// Hash returns the EIP-712 digest a maker signs on chainID
func (o *Order) Hash(chainID int64) (common.Hash, error) {
	addr, err := Addresses.Resolve(exchangeName, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	p, err := o.Parameters()
	if err != nil {
		return common.Hash{}, err
	}

	structHash, err := chain.HashStruct(
		[]string{
			"bytes32", "address", "address", "address", "uint256", "uint256", "uint256", "uint256",
			"address", "uint8", "uint8", "uint8", "address", "uint8", "bytes32", "bytes32",
			"address", "bytes32", "address", "uint256", "uint256", "uint256", "uint256", "uint256", "uint256",
		},
		OrderTypeHash,
		p.Exchange, p.Maker, p.Taker,
		p.MakerRelayerFee, p.TakerRelayerFee, p.MakerProtocolFee, p.TakerProtocolFee,
		p.FeeRecipient, p.FeeMethod, p.Side, p.SaleKind, p.Target, p.HowToCall,
		crypto.Keccak256Hash(p.Calldata), crypto.Keccak256Hash(p.ReplacementPattern),
		p.StaticTarget, crypto.Keccak256Hash(p.StaticExtradata), p.PaymentToken,
		p.BasePrice, p.Extra, p.ListingTime, p.ExpirationTime, p.Salt, p.Nonce,
	)
	if err != nil {
		return common.Hash{}, errors.WithMessage(err, exchangeName)
	}
	domain := chain.NewEIP712Domain(DomainName, DomainVersion, chainID, addr)
	return chain.TypedDataHash(domain, structHash), nil
}

// Sign signs the order with signer, which must be the maker, and stores
// v, r and s on it
func (o *Order) Sign(signer chain.Signer, chainID int64) error {
	maker, err := chain.ParseAddress(o.Maker)
	if err != nil {
		return chain.Malformed(exchangeName, "maker: %v", err)
	}
	if maker != signer.Address() {
		return &chain.InvalidParamError{Message: "wyvern-v2.3: signer " + signer.Address().Hex() + " is not the maker " + maker.Hex()}
	}
	hash, err := o.Hash(chainID)
	if err != nil {
		return err
	}
	signature, err := signer.SignHash(hash)
	if err != nil {
		return errors.Wrap(err, "wyvern-v2.3: failed to sign order")
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

// transfer is the NFT transfer an order's calldata performs
type transfer struct {
	method *abi.Method
	from   common.Address
	to     common.Address
	id     *big.Int
	amount *big.Int
}

func decodeTransfer(calldata []byte) (*transfer, error) {
	if len(calldata) < 4 {
		return nil, chain.Malformed(exchangeName, "calldata too short")
	}
	for _, contractABI := range []abi.ABI{chain.GetERC721ABI(), chain.GetERC1155ABI()} {
		method, err := contractABI.MethodById(calldata[:4])
		if err != nil {
			continue
		}
		if method.Name != "transferFrom" && method.Name != "safeTransferFrom" {
			break
		}
		args, err := method.Inputs.Unpack(calldata[4:])
		if err != nil {
			return nil, chain.Malformed(exchangeName, "failed to decode %s: %v", method.Name, err)
		}
		t := &transfer{
			method: method,
			from:   args[0].(common.Address),
			to:     args[1].(common.Address),
			id:     args[2].(*big.Int),
		}
		if len(args) > 3 {
			t.amount = args[3].(*big.Int)
		}
		return t, nil
	}
	return nil, chain.Unsupported(exchangeName, "calldata is not an ERC721 or ERC1155 transfer")
}

func (t *transfer) encode(from, to common.Address, id *big.Int) ([]byte, error) {
	args := []interface{}{from, to, id}
	if t.amount != nil {
		args = append(args, t.amount, []byte{})
	}
	data, err := t.method.Inputs.Pack(args...)
	if err != nil {
		return nil, errors.Wrapf(chain.ErrMalformedOrder, "wyvern-v2.3: failed to encode %s: %v", t.method.Name, err)
	}
	return append(append([]byte{}, t.method.ID...), data...), nil
}

// Argument words of a transfer, counted after the selector
const (
	wordFrom = 0
	wordTo   = 1
	wordID   = 2
)

// maskWords returns a replacement pattern for calldata of length n that lets
// the counterparty replace the given argument words
func maskWords(n int, words ...int) []byte {
	pattern := make([]byte, n)
	for _, w := range words {
		start := 4 + 32*w
		for i := start; i < start+32 && i < n; i++ {
			pattern[i] = 0xff
		}
	}
	return pattern
}

// GuardedArrayReplace copies desired into array wherever mask is set,
// as the exchange does before comparing calldata
func GuardedArrayReplace(array, desired, mask []byte) []byte {
	out := append([]byte{}, array...)
	if len(mask) == 0 {
		return out
	}
	for i := range out {
		if i < len(mask) && i < len(desired) && mask[i] != 0 {
			out[i] = desired[i]
		}
	}
	return out
}

// CalldataMatches reports whether the exchange would accept buy and sell
// calldata as a match
func CalldataMatches(buy, sell *Parameters) bool {
	if len(buy.Calldata) != len(sell.Calldata) {
		return false
	}
	b := GuardedArrayReplace(buy.Calldata, sell.Calldata, buy.ReplacementPattern)
	s := GuardedArrayReplace(sell.Calldata, buy.Calldata, sell.ReplacementPattern)
	return bytes.Equal(b, s)
}

// BuildMatching builds the unsigned counter-order a taker submits against
// this order. tokenID picks the sold token for contract-wide buy orders and
// is otherwise optional. The matching order uses salt 0, no expiration and
// no fee recipient.
func (o *Order) BuildMatching(taker common.Address, tokenID *big.Int) (*Order, error) {
	maker, err := o.Parameters()
	if err != nil {
		return nil, err
	}
	t, err := decodeTransfer(maker.Calldata)
	if err != nil {
		return nil, err
	}

	m := *maker
	m.Maker = taker
	m.Taker = common.Address{}
	m.FeeRecipient = common.Address{}
	m.StaticTarget = common.Address{}
	m.StaticExtradata = []byte{}
	m.ExpirationTime = new(big.Int)
	m.Salt = new(big.Int)
	m.Nonce = new(big.Int)
	m.V, m.R, m.S = 0, [32]byte{}, [32]byte{}

	if Side(maker.Side) == SideSell {
		if tokenID != nil && tokenID.Cmp(t.id) != 0 {
			return nil, chain.Malformed(exchangeName, "token id %s does not match the listing for %s", tokenID, t.id)
		}
		m.Side = uint8(SideBuy)
		m.Calldata, err = t.encode(common.Address{}, taker, t.id)
		if err != nil {
			return nil, err
		}
		m.ReplacementPattern = maskWords(len(m.Calldata), wordFrom)
	} else {
		id := t.id
		if isMasked(maker.ReplacementPattern, wordID) {
			if tokenID == nil {
				return nil, chain.Malformed(exchangeName, "contract-wide bid needs a token id")
			}
			id = tokenID
		} else if tokenID != nil && tokenID.Cmp(t.id) != 0 {
			return nil, chain.Malformed(exchangeName, "token id %s does not match the bid for %s", tokenID, t.id)
		}
		m.Side = uint8(SideSell)
		m.Calldata, err = t.encode(taker, t.to, id)
		if err != nil {
			return nil, err
		}
		m.ReplacementPattern = []byte{}
	}

	buy, sell := &m, maker
	if Side(maker.Side) == SideBuy {
		buy, sell = maker, &m
	}
	if !CalldataMatches(buy, sell) {
		return nil, chain.Malformed(exchangeName, "maker calldata cannot be matched")
	}
	return fromParameters(&m), nil
}

func isMasked(pattern []byte, word int) bool {
	start := 4 + 32*word
	if len(pattern) < start+32 {
		return false
	}
	for _, b := range pattern[start : start+32] {
		if b == 0 {
			return false
		}
	}
	return true
}
