package seaport

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

const exchangeName = "seaport"

// Item is the JSON form of an offer or consideration item. Recipient is
// only meaningful for consideration items.
type Item struct {
	ItemType             ItemType `json:"itemType"`
	Token                string   `json:"token"`
	IdentifierOrCriteria string   `json:"identifierOrCriteria"`
	StartAmount          string   `json:"startAmount"`
	EndAmount            string   `json:"endAmount"`
	Recipient            string   `json:"recipient,omitempty"`
}

// OrderComponents is the JSON form of the signed order parameters
type OrderComponents struct {
	Offerer                         string    `json:"offerer"`
	Zone                            string    `json:"zone"`
	Offer                           []Item    `json:"offer"`
	Consideration                   []Item    `json:"consideration"`
	OrderType                       OrderType `json:"orderType"`
	StartTime                       string    `json:"startTime"`
	EndTime                         string    `json:"endTime"`
	ZoneHash                        string    `json:"zoneHash"`
	Salt                            string    `json:"salt"`
	ConduitKey                      string    `json:"conduitKey"`
	Counter                         string    `json:"counter"`
	TotalOriginalConsiderationItems string    `json:"totalOriginalConsiderationItems,omitempty"`
}

// Order is a signed Seaport order as served by the marketplace API
type Order struct {
	Parameters OrderComponents `json:"parameters"`
	Signature  string          `json:"signature"`
}

// CriteriaProof is the bid extra argument for criteria orders: the merkle
// proof that the sold token id belongs to the bid's criteria root. Collection
// wide bids (zero root) need no proof.
type CriteriaProof struct {
	Proof []common.Hash `json:"proof"`
}

// Exchange implements chain.ExtraArgs
func (CriteriaProof) Exchange() string { return exchangeName }

type parsedItem struct {
	itemType   uint8
	token      common.Address
	identifier *big.Int
	start      *big.Int
	end        *big.Int
	recipient  common.Address
}

func parseItem(kind string, i int, item Item) (*parsedItem, error) {
	if item.ItemType > ItemTypeERC1155WithCriteria {
		return nil, chain.Malformed(exchangeName, "%s %d: invalid item type %d", kind, i, item.ItemType)
	}
	token, err := chain.ParseAddress(item.Token)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "%s %d token: %v", kind, i, err)
	}
	recipient, err := chain.ParseAddress(item.Recipient)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "%s %d recipient: %v", kind, i, err)
	}

	out := &parsedItem{itemType: uint8(item.ItemType), token: token, recipient: recipient}
	for _, field := range []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"identifierOrCriteria", item.IdentifierOrCriteria, &out.identifier},
		{"startAmount", item.StartAmount, &out.start},
		{"endAmount", item.EndAmount, &out.end},
	} {
		v, err := chain.ParseBig(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s %d %s: %v", kind, i, field.name, err)
		}
		*field.dst = v
	}
	return out, nil
}

// ABIParameters converts the order components into their ABI form
func (c *OrderComponents) ABIParameters() (*OrderParameters, error) {
	if c.OrderType > OrderTypePartialRestricted {
		return nil, chain.Malformed(exchangeName, "invalid order type %d", c.OrderType)
	}
	if len(c.Offer) == 0 || len(c.Consideration) == 0 {
		return nil, chain.Malformed(exchangeName, "order needs offer and consideration items")
	}

	offerer, err := chain.ParseAddress(c.Offerer)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "offerer: %v", err)
	}
	zone, err := chain.ParseAddress(c.Zone)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "zone: %v", err)
	}
	zoneHash, err := chain.ParseBytes32(c.ZoneHash)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "zoneHash: %v", err)
	}
	conduitKey, err := chain.ParseBytes32(c.ConduitKey)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "conduitKey: %v", err)
	}

	ints := make([]*big.Int, 4)
	for i, field := range []struct{ name, value string }{
		{"startTime", c.StartTime},
		{"endTime", c.EndTime},
		{"salt", c.Salt},
		{"totalOriginalConsiderationItems", c.TotalOriginalConsiderationItems},
	} {
		v, err := chain.ParseBig(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		ints[i] = v
	}
	if c.TotalOriginalConsiderationItems == "" {
		ints[3] = big.NewInt(int64(len(c.Consideration)))
	}

	params := &OrderParameters{
		Offerer:                         offerer,
		Zone:                            zone,
		Offer:                           make([]OfferItem, 0, len(c.Offer)),
		Consideration:                   make([]ConsiderationItem, 0, len(c.Consideration)),
		OrderType:                       uint8(c.OrderType),
		StartTime:                       ints[0],
		EndTime:                         ints[1],
		ZoneHash:                        zoneHash,
		Salt:                            ints[2],
		ConduitKey:                      conduitKey,
		TotalOriginalConsiderationItems: ints[3],
	}
	for i, item := range c.Offer {
		p, err := parseItem("offer", i, item)
		if err != nil {
			return nil, err
		}
		params.Offer = append(params.Offer, OfferItem{
			ItemType:             p.itemType,
			Token:                p.token,
			IdentifierOrCriteria: p.identifier,
			StartAmount:          p.start,
			EndAmount:            p.end,
		})
	}
	for i, item := range c.Consideration {
		p, err := parseItem("consideration", i, item)
		if err != nil {
			return nil, err
		}
		params.Consideration = append(params.Consideration, ConsiderationItem{
			ItemType:             p.itemType,
			Token:                p.token,
			IdentifierOrCriteria: p.identifier,
			StartAmount:          p.start,
			EndAmount:            p.end,
			Recipient:            p.recipient,
		})
	}
	return params, nil
}

// IsListing reports whether the order offers an NFT
func (o *Order) IsListing() bool {
	return len(o.Parameters.Offer) > 0 && o.Parameters.Offer[0].ItemType.IsNFT()
}

// AdvancedOrder converts the order into an AdvancedOrder filling
// numerator/denominator of it
func (o *Order) AdvancedOrder(numerator, denominator *big.Int) (*AdvancedOrder, error) {
	params, err := o.Parameters.ABIParameters()
	if err != nil {
		return nil, err
	}
	signature, err := chain.ParseBytes(o.Signature)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "signature: %v", err)
	}
	return &AdvancedOrder{
		Parameters:  *params,
		Numerator:   new(big.Int).Set(numerator),
		Denominator: new(big.Int).Set(denominator),
		Signature:   signature,
		ExtraData:   []byte{},
	}, nil
}

// Fraction returns the numerator/denominator filling amount units of the
// order's NFT quantity. A nil amount fills the whole order.
func Fraction(params *OrderParameters, nft *big.Int, amount *big.Int) (*big.Int, *big.Int, error) {
	one := big.NewInt(1)
	if amount == nil || amount.Cmp(nft) == 0 {
		return one, new(big.Int).Set(one), nil
	}
	if !OrderType(params.OrderType).Partial() {
		return nil, nil, chain.CheckFullFill(exchangeName, amount, nft)
	}
	if amount.Sign() <= 0 || amount.Cmp(nft) > 0 {
		return nil, nil, &chain.InvalidParamError{Message: "seaport: amount must be between 1 and " + nft.String()}
	}
	return new(big.Int).Set(amount), new(big.Int).Set(nft), nil
}

// NativeValue sums the native-currency consideration of an order at the
// given fraction. Ascending or descending amounts use the larger bound; the
// exchange refunds any surplus. Fractions that do not divide an amount
// exactly cannot be filled.
func NativeValue(params *OrderParameters, numerator, denominator *big.Int) (*big.Int, error) {
	total := new(big.Int)
	for i, item := range params.Consideration {
		if ItemType(item.ItemType) != ItemTypeNative {
			continue
		}
		amount := item.StartAmount
		if item.EndAmount.Cmp(amount) > 0 {
			amount = item.EndAmount
		}
		scaled := new(big.Int).Mul(amount, numerator)
		q, r := new(big.Int).QuoRem(scaled, denominator, new(big.Int))
		if r.Sign() != 0 {
			return nil, chain.Unsupported(exchangeName, "consideration "+strconv.Itoa(i)+" does not divide by the fill fraction")
		}
		total.Add(total, q)
	}
	return total, nil
}
