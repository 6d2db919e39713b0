package nftrouter

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/blur"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/cryptopunks"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/foundation"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/looksrare"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/seaport"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/sudoswap"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/wyvernv23"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/x2y2"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/zeroexv4"
)

// ExchangeKind identifies the protocol an order belongs to. The numeric
// values are part of the wire contract: append new kinds, never renumber.
type ExchangeKind int

const (
	ExchangeKindWyvernV23 ExchangeKind = iota
	ExchangeKindLooksRare
	ExchangeKindZeroExV4
	ExchangeKindFoundation
	ExchangeKindX2Y2
	ExchangeKindSeaport
	ExchangeKindSudoswap
	ExchangeKindBlur
	ExchangeKindCryptoPunks
)

var kindNames = [...]string{
	ExchangeKindWyvernV23:   "wyvern-v2.3",
	ExchangeKindLooksRare:   "looks-rare",
	ExchangeKindZeroExV4:    "zeroex-v4",
	ExchangeKindFoundation:  "foundation",
	ExchangeKindX2Y2:        "x2y2",
	ExchangeKindSeaport:     "seaport",
	ExchangeKindSudoswap:    "sudoswap",
	ExchangeKindBlur:        "blur",
	ExchangeKindCryptoPunks: "cryptopunks",
}

// AllExchangeKinds lists every kind in numeric order
var AllExchangeKinds = []ExchangeKind{
	ExchangeKindWyvernV23,
	ExchangeKindLooksRare,
	ExchangeKindZeroExV4,
	ExchangeKindFoundation,
	ExchangeKindX2Y2,
	ExchangeKindSeaport,
	ExchangeKindSudoswap,
	ExchangeKindBlur,
	ExchangeKindCryptoPunks,
}

// Valid reports whether k is a known kind
func (k ExchangeKind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// String returns the order kind literal, e.g. "seaport"
func (k ExchangeKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// ParseExchangeKind parses an order kind literal
func ParseExchangeKind(s string) (ExchangeKind, error) {
	for i, name := range kindNames {
		if name == s {
			return ExchangeKind(i), nil
		}
	}
	return 0, chain.Malformed("router", "unknown order kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k ExchangeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, chain.Malformed("router", "unknown exchange kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *ExchangeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseExchangeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// GenericOrder holds exactly one protocol order, tagged with its kind.
// Build it with the New*Order factories.
type GenericOrder struct {
	kind  ExchangeKind
	order interface{}
}

func NewWyvernV23Order(order *wyvernv23.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindWyvernV23, order: order}
}

func NewLooksRareOrder(order *looksrare.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindLooksRare, order: order}
}

func NewZeroExV4Order(order *zeroexv4.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindZeroExV4, order: order}
}

func NewFoundationOrder(order *foundation.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindFoundation, order: order}
}

func NewX2Y2Order(order *x2y2.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindX2Y2, order: order}
}

func NewSeaportOrder(order *seaport.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindSeaport, order: order}
}

func NewSudoswapOrder(order *sudoswap.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindSudoswap, order: order}
}

func NewBlurOrder(order *blur.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindBlur, order: order}
}

func NewCryptoPunksOrder(order *cryptopunks.Order) GenericOrder {
	return GenericOrder{kind: ExchangeKindCryptoPunks, order: order}
}

// Kind returns the order's exchange kind
func (g GenericOrder) Kind() ExchangeKind {
	return g.kind
}

// Order returns the protocol order, e.g. a *seaport.Order
func (g GenericOrder) Order() interface{} {
	return g.order
}

// Validate checks that the kind is known and the payload has its shape
func (g GenericOrder) Validate() error {
	if !g.kind.Valid() {
		return chain.Malformed("router", "unknown exchange kind %d", int(g.kind))
	}

	var ok, isNil bool
	switch g.kind {
	case ExchangeKindWyvernV23:
		var o *wyvernv23.Order
		o, ok = g.order.(*wyvernv23.Order)
		isNil = o == nil
	case ExchangeKindLooksRare:
		var o *looksrare.Order
		o, ok = g.order.(*looksrare.Order)
		isNil = o == nil
	case ExchangeKindZeroExV4:
		var o *zeroexv4.Order
		o, ok = g.order.(*zeroexv4.Order)
		isNil = o == nil
	case ExchangeKindFoundation:
		var o *foundation.Order
		o, ok = g.order.(*foundation.Order)
		isNil = o == nil
	case ExchangeKindX2Y2:
		var o *x2y2.Order
		o, ok = g.order.(*x2y2.Order)
		isNil = o == nil
	case ExchangeKindSeaport:
		var o *seaport.Order
		o, ok = g.order.(*seaport.Order)
		isNil = o == nil
	case ExchangeKindSudoswap:
		var o *sudoswap.Order
		o, ok = g.order.(*sudoswap.Order)
		isNil = o == nil
	case ExchangeKindBlur:
		var o *blur.Order
		o, ok = g.order.(*blur.Order)
		isNil = o == nil
	case ExchangeKindCryptoPunks:
		var o *cryptopunks.Order
		o, ok = g.order.(*cryptopunks.Order)
		isNil = o == nil
	}
	if !ok {
		return chain.Malformed("router", "%s order has payload %T", g.kind, g.order)
	}
	if isNil {
		return chain.Malformed("router", "%s order is nil", g.kind)
	}
	return nil
}

type genericOrderJSON struct {
	Kind  string          `json:"kind"`
	Order json.RawMessage `json:"order"`
}

// MarshalJSON encodes the order as {"kind": ..., "order": ...}
func (g GenericOrder) MarshalJSON() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(g.order)
	if err != nil {
		return nil, err
	}
	return json.Marshal(genericOrderJSON{Kind: g.kind.String(), Order: raw})
}

// UnmarshalJSON decodes the {"kind": ..., "order": ...} form
func (g *GenericOrder) UnmarshalJSON(data []byte) error {
	var wire genericOrderJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return chain.Malformed("router", "invalid order envelope: %v", err)
	}
	decoded, err := decodeOrder(wire.Kind, wire.Order)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

func decodeOrder(literal string, raw json.RawMessage) (GenericOrder, error) {
	kind, err := ParseExchangeKind(literal)
	if err != nil {
		return GenericOrder{}, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return GenericOrder{}, chain.Malformed("router", "%s order is missing", kind)
	}

	var (
		g      GenericOrder
		target interface{}
	)
	switch kind {
	case ExchangeKindWyvernV23:
		o := new(wyvernv23.Order)
		g, target = NewWyvernV23Order(o), o
	case ExchangeKindLooksRare:
		o := new(looksrare.Order)
		g, target = NewLooksRareOrder(o), o
	case ExchangeKindZeroExV4:
		o := new(zeroexv4.Order)
		g, target = NewZeroExV4Order(o), o
	case ExchangeKindFoundation:
		o := new(foundation.Order)
		g, target = NewFoundationOrder(o), o
	case ExchangeKindX2Y2:
		o := new(x2y2.Order)
		g, target = NewX2Y2Order(o), o
	case ExchangeKindSeaport:
		o := new(seaport.Order)
		g, target = NewSeaportOrder(o), o
	case ExchangeKindSudoswap:
		o := new(sudoswap.Order)
		g, target = NewSudoswapOrder(o), o
	case ExchangeKindBlur:
		o := new(blur.Order)
		g, target = NewBlurOrder(o), o
	case ExchangeKindCryptoPunks:
		o := new(cryptopunks.Order)
		g, target = NewCryptoPunksOrder(o), o
	default:
		return GenericOrder{}, chain.Malformed("router", "unknown exchange kind %d", int(kind))
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return GenericOrder{}, chain.Malformed(kind.String(), "invalid order: %v", err)
	}
	return g, nil
}

// ListingFillDetails describes the token bought from a listing. Amount is
// only meaningful for partially fillable kinds; nil fills the whole order.
type ListingFillDetails struct {
	ContractKind chain.ContractKind
	Contract     common.Address
	TokenID      *big.Int
	Currency     common.Address
	Amount       *big.Int
}

// BidFillDetails describes the token sold into a bid. ExtraArgs is owned by
// the bid's exchange, e.g. seaport.CriteriaProof.
type BidFillDetails struct {
	ContractKind chain.ContractKind
	Contract     common.Address
	TokenID      *big.Int
	ExtraArgs    chain.ExtraArgs
}

// ListingDetails is one listing to fill
type ListingDetails struct {
	GenericOrder
	ListingFillDetails
}

// BidDetails is one bid to fill
type BidDetails struct {
	GenericOrder
	BidFillDetails
}

func checkFill(kind chain.ContractKind, contract common.Address, tokenID *big.Int) error {
	if !kind.Valid() {
		return chain.Malformed("router", "invalid contract kind %q", kind)
	}
	if contract == (common.Address{}) {
		return chain.Malformed("router", "contract is required")
	}
	if tokenID == nil {
		return chain.Malformed("router", "token id is required")
	}
	return nil
}

// Validate checks the order and the required fill fields
func (d ListingDetails) Validate() error {
	if err := d.GenericOrder.Validate(); err != nil {
		return err
	}
	if err := checkFill(d.ContractKind, d.Contract, d.TokenID); err != nil {
		return err
	}
	if d.Amount != nil && d.Amount.Sign() <= 0 {
		return &chain.InvalidParamError{Message: "amount must be positive, got: " + d.Amount.String()}
	}
	return nil
}

// Validate checks the order, the required fill fields and that any extra
// arguments belong to the bid's exchange
func (d BidDetails) Validate() error {
	if err := d.GenericOrder.Validate(); err != nil {
		return err
	}
	if err := checkFill(d.ContractKind, d.Contract, d.TokenID); err != nil {
		return err
	}
	if d.ExtraArgs != nil && d.ExtraArgs.Exchange() != d.Kind().String() {
		return chain.Malformed("router", "%s bid carries extra arguments for %s", d.Kind(), d.ExtraArgs.Exchange())
	}
	return nil
}

type listingDetailsJSON struct {
	Kind         string             `json:"kind"`
	Order        json.RawMessage    `json:"order"`
	ContractKind chain.ContractKind `json:"contractKind"`
	Contract     common.Address     `json:"contract"`
	TokenID      string             `json:"tokenId"`
	Currency     common.Address     `json:"currency"`
	Amount       string             `json:"amount,omitempty"`
}

type bidDetailsJSON struct {
	Kind         string             `json:"kind"`
	Order        json.RawMessage    `json:"order"`
	ContractKind chain.ContractKind `json:"contractKind"`
	Contract     common.Address     `json:"contract"`
	TokenID      string             `json:"tokenId"`
	ExtraArgs    json.RawMessage    `json:"extraArgs,omitempty"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func parseOptionalBig(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := chain.ParseBig(s)
	if err != nil {
		return nil, chain.Malformed("router", "%s: %v", field, err)
	}
	return v, nil
}

// MarshalJSON encodes the flattened {kind, order, contractKind, ...} form
func (d ListingDetails) MarshalJSON() ([]byte, error) {
	if err := d.GenericOrder.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(d.order)
	if err != nil {
		return nil, err
	}
	return json.Marshal(listingDetailsJSON{
		Kind:         d.kind.String(),
		Order:        raw,
		ContractKind: d.ContractKind,
		Contract:     d.Contract,
		TokenID:      bigString(d.TokenID),
		Currency:     d.Currency,
		Amount:       bigString(d.Amount),
	})
}

// UnmarshalJSON decodes the flattened form
func (d *ListingDetails) UnmarshalJSON(data []byte) error {
	var wire listingDetailsJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return chain.Malformed("router", "invalid listing: %v", err)
	}
	order, err := decodeOrder(wire.Kind, wire.Order)
	if err != nil {
		return err
	}
	tokenID, err := parseOptionalBig("tokenId", wire.TokenID)
	if err != nil {
		return err
	}
	amount, err := parseOptionalBig("amount", wire.Amount)
	if err != nil {
		return err
	}
	*d = ListingDetails{
		GenericOrder: order,
		ListingFillDetails: ListingFillDetails{
			ContractKind: wire.ContractKind,
			Contract:     wire.Contract,
			TokenID:      tokenID,
			Currency:     wire.Currency,
			Amount:       amount,
		},
	}
	return nil
}

// MarshalJSON encodes the flattened {kind, order, contractKind, ...} form
func (d BidDetails) MarshalJSON() ([]byte, error) {
	if err := d.GenericOrder.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(d.order)
	if err != nil {
		return nil, err
	}
	wire := bidDetailsJSON{
		Kind:         d.kind.String(),
		Order:        raw,
		ContractKind: d.ContractKind,
		Contract:     d.Contract,
		TokenID:      bigString(d.TokenID),
	}
	if d.ExtraArgs != nil {
		if wire.ExtraArgs, err = json.Marshal(d.ExtraArgs); err != nil {
			return nil, err
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the flattened form. extraArgs is decoded into the
// typed payload of the bid's exchange.
func (d *BidDetails) UnmarshalJSON(data []byte) error {
	var wire bidDetailsJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return chain.Malformed("router", "invalid bid: %v", err)
	}
	order, err := decodeOrder(wire.Kind, wire.Order)
	if err != nil {
		return err
	}
	tokenID, err := parseOptionalBig("tokenId", wire.TokenID)
	if err != nil {
		return err
	}
	extra, err := decodeExtraArgs(order.Kind(), wire.ExtraArgs)
	if err != nil {
		return err
	}
	*d = BidDetails{
		GenericOrder: order,
		BidFillDetails: BidFillDetails{
			ContractKind: wire.ContractKind,
			Contract:     wire.Contract,
			TokenID:      tokenID,
			ExtraArgs:    extra,
		},
	}
	return nil
}

func decodeExtraArgs(kind ExchangeKind, raw json.RawMessage) (chain.ExtraArgs, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch kind {
	case ExchangeKindSeaport:
		var args seaport.CriteriaProof
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, chain.Malformed(kind.String(), "invalid extra arguments: %v", err)
		}
		return args, nil
	case ExchangeKindZeroExV4:
		var args zeroexv4.SellArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, chain.Malformed(kind.String(), "invalid extra arguments: %v", err)
		}
		return args, nil
	}
	return nil, chain.Malformed(kind.String(), "bids take no extra arguments")
}
