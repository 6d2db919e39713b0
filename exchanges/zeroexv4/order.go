package zeroexv4

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

const exchangeName = "zeroex-v4"

// OrderFee is the JSON form of a Fee
type OrderFee struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	FeeData   string `json:"feeData"`
}

// OrderProperty is the JSON form of a Property
type OrderProperty struct {
	PropertyValidator string `json:"propertyValidator"`
	PropertyData      string `json:"propertyData"`
}

// Order is a signed 0x v4 NFT order. Kind selects between the ERC721 and
// ERC1155 order structs; NftAmount is only used for ERC1155.
type Order struct {
	Kind             chain.ContractKind `json:"kind"`
	Direction        Direction          `json:"direction"`
	Maker            string             `json:"maker"`
	Taker            string             `json:"taker"`
	Expiry           string             `json:"expiry"`
	Nonce            string             `json:"nonce"`
	Erc20Token       string             `json:"erc20Token"`
	Erc20TokenAmount string             `json:"erc20TokenAmount"`
	Fees             []OrderFee         `json:"fees"`
	Nft              string             `json:"nft"`
	NftID            string             `json:"nftId"`
	NftProperties    []OrderProperty    `json:"nftProperties"`
	NftAmount        string             `json:"nftAmount,omitempty"`
	SignatureType    uint8              `json:"signatureType"`
	V                uint8              `json:"v"`
	R                string             `json:"r"`
	S                string             `json:"s"`
}

// SellArgs is the bid extra argument for 0x v4: whether WETH proceeds are
// unwrapped to the native currency
type SellArgs struct {
	UnwrapNativeToken bool `json:"unwrapNativeToken"`
}

// Exchange implements chain.ExtraArgs
func (SellArgs) Exchange() string { return exchangeName }

// parsed holds the fields shared by both order structs
type parsed struct {
	direction    uint8
	maker, taker common.Address
	expiry       *big.Int
	nonce        *big.Int
	erc20Token   common.Address
	erc20Amount  *big.Int
	fees         []Fee
	nft          common.Address
	nftID        *big.Int
	properties   []Property
	nftAmount    *big.Int
}

func (o *Order) parse() (*parsed, error) {
	if !o.Kind.Valid() {
		return nil, chain.Malformed(exchangeName, "invalid order kind %q", o.Kind)
	}
	if o.Direction != DirectionSell && o.Direction != DirectionBuy {
		return nil, chain.Malformed(exchangeName, "invalid direction %d", o.Direction)
	}

	p := &parsed{direction: uint8(o.Direction)}
	for _, field := range []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"maker", o.Maker, &p.maker},
		{"taker", o.Taker, &p.taker},
		{"erc20Token", o.Erc20Token, &p.erc20Token},
		{"nft", o.Nft, &p.nft},
	} {
		addr, err := chain.ParseAddress(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		*field.dst = addr
	}
	if p.maker == (common.Address{}) {
		return nil, chain.Malformed(exchangeName, "maker is required")
	}

	for _, field := range []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"expiry", o.Expiry, &p.expiry},
		{"nonce", o.Nonce, &p.nonce},
		{"erc20TokenAmount", o.Erc20TokenAmount, &p.erc20Amount},
		{"nftId", o.NftID, &p.nftID},
		{"nftAmount", o.NftAmount, &p.nftAmount},
	} {
		v, err := chain.ParseBig(field.value)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "%s: %v", field.name, err)
		}
		*field.dst = v
	}
	if p.nftAmount.Sign() == 0 {
		p.nftAmount = big.NewInt(1)
	}

	p.fees = make([]Fee, 0, len(o.Fees))
	for i, f := range o.Fees {
		recipient, err := chain.ParseAddress(f.Recipient)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "fee %d recipient: %v", i, err)
		}
		amount, err := chain.ParseBig(f.Amount)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "fee %d amount: %v", i, err)
		}
		data, err := chain.ParseBytes(f.FeeData)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "fee %d data: %v", i, err)
		}
		p.fees = append(p.fees, Fee{Recipient: recipient, Amount: amount, FeeData: data})
	}

	p.properties = make([]Property, 0, len(o.NftProperties))
	for i, prop := range o.NftProperties {
		validator, err := chain.ParseAddress(prop.PropertyValidator)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "property %d validator: %v", i, err)
		}
		data, err := chain.ParseBytes(prop.PropertyData)
		if err != nil {
			return nil, chain.Malformed(exchangeName, "property %d data: %v", i, err)
		}
		p.properties = append(p.properties, Property{PropertyValidator: validator, PropertyData: data})
	}
	return p, nil
}

// ERC721 converts an erc721 order into its ABI form
func (o *Order) ERC721() (*ERC721Order, error) {
	if o.Kind != chain.ContractKindERC721 {
		return nil, chain.Malformed(exchangeName, "expected an erc721 order, got %q", o.Kind)
	}
	p, err := o.parse()
	if err != nil {
		return nil, err
	}
	return &ERC721Order{
		Direction:             p.direction,
		Maker:                 p.maker,
		Taker:                 p.taker,
		Expiry:                p.expiry,
		Nonce:                 p.nonce,
		Erc20Token:            p.erc20Token,
		Erc20TokenAmount:      p.erc20Amount,
		Fees:                  p.fees,
		Erc721Token:           p.nft,
		Erc721TokenId:         p.nftID,
		Erc721TokenProperties: p.properties,
	}, nil
}

// ERC1155 converts an erc1155 order into its ABI form
func (o *Order) ERC1155() (*ERC1155Order, error) {
	if o.Kind != chain.ContractKindERC1155 {
		return nil, chain.Malformed(exchangeName, "expected an erc1155 order, got %q", o.Kind)
	}
	p, err := o.parse()
	if err != nil {
		return nil, err
	}
	if p.nftAmount.BitLen() > 128 {
		return nil, chain.Malformed(exchangeName, "nftAmount overflows uint128")
	}
	return &ERC1155Order{
		Direction:              p.direction,
		Maker:                  p.maker,
		Taker:                  p.taker,
		Expiry:                 p.expiry,
		Nonce:                  p.nonce,
		Erc20Token:             p.erc20Token,
		Erc20TokenAmount:       p.erc20Amount,
		Fees:                   p.fees,
		Erc1155Token:           p.nft,
		Erc1155TokenId:         p.nftID,
		Erc1155TokenProperties: p.properties,
		Erc1155TokenAmount:     p.nftAmount,
	}, nil
}

// Signature converts the order signature into its ABI form
func (o *Order) Signature() (*Signature, error) {
	r, err := chain.ParseBytes32(o.R)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "r: %v", err)
	}
	s, err := chain.ParseBytes32(o.S)
	if err != nil {
		return nil, chain.Malformed(exchangeName, "s: %v", err)
	}
	signatureType := o.SignatureType
	if signatureType == 0 {
		signatureType = SignatureTypeEIP712
	}
	return &Signature{SignatureType: signatureType, V: o.V, R: r, S: s}, nil
}

// BuyPrice is what a buyer pays for amount units of a sell order: the
// token amount plus every fee, rounded up when prorating an ERC1155 order
func BuyPrice(erc20Amount *big.Int, fees []Fee, amount, total *big.Int) *big.Int {
	price := new(big.Int).Set(erc20Amount)
	for _, fee := range fees {
		price.Add(price, fee.Amount)
	}
	if amount == nil || amount.Cmp(total) == 0 {
		return price
	}
	result := chain.CeilDiv(erc20Amount, amount, total)
	for _, fee := range fees {
		result.Add(result, chain.CeilDiv(fee.Amount, amount, total))
	}
	return result
}

// IsNative reports whether the order is priced in the chain currency
func (o *Order) IsNative() bool {
	token, err := chain.ParseAddress(o.Erc20Token)
	return err == nil && token == chain.NativeToken
}
