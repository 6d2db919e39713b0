package wyvernv23

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kaifufi/nft-router-sdk-go/chain"
)

// BuildParams describes an order to build. Fee is the relayer fee in basis
// points paid to FeeRecipient.
type BuildParams struct {
	Maker          common.Address
	Side           Side
	Kind           chain.ContractKind
	Contract       common.Address
	TokenID        *big.Int
	Amount         *big.Int
	PaymentToken   common.Address
	Price          *big.Int
	Fee            int64
	FeeRecipient   common.Address
	ListingTime    int64
	ExpirationTime int64
	Salt           string
	Nonce          *big.Int
}

func (p *BuildParams) validate() error {
	if !p.Kind.Valid() {
		return &chain.InvalidParamError{Message: "wyvern-v2.3: unsupported contract kind " + string(p.Kind)}
	}
	if p.Side != SideBuy && p.Side != SideSell {
		return &chain.InvalidParamError{Message: "wyvern-v2.3: invalid side"}
	}
	if p.Maker == (common.Address{}) || p.Contract == (common.Address{}) {
		return &chain.InvalidParamError{Message: "wyvern-v2.3: maker and contract are required"}
	}
	if p.Price == nil || p.Price.Sign() <= 0 {
		return &chain.InvalidParamError{Message: "wyvern-v2.3: price must be positive"}
	}
	if p.Fee < 0 || p.Fee > 10000 {
		return &chain.InvalidParamError{Message: "wyvern-v2.3: fee must be between 0 and 10000 bps, got " + strconv.FormatInt(p.Fee, 10)}
	}
	return nil
}

// SingleToken builds a buy or sell order for one token id
func SingleToken(chainID int64, params BuildParams) (*Order, error) {
	if params.TokenID == nil {
		return nil, &chain.InvalidParamError{Message: "wyvern-v2.3: token id is required"}
	}
	words := []int{wordTo}
	if params.Side == SideBuy {
		words = []int{wordFrom}
	}
	return build(chainID, params, params.TokenID, words)
}

// ContractWide builds a buy order accepting any token of the contract
func ContractWide(chainID int64, params BuildParams) (*Order, error) {
	if params.Side != SideBuy {
		return nil, &chain.InvalidParamError{Message: "wyvern-v2.3: contract-wide orders must be buy orders"}
	}
	return build(chainID, params, new(big.Int), []int{wordFrom, wordID})
}

func build(chainID int64, params BuildParams, tokenID *big.Int, masked []int) (*Order, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	exchange, err := Addresses.Resolve(exchangeName, chainID)
	if err != nil {
		return nil, err
	}

	var from, to common.Address
	if params.Side == SideSell {
		from = params.Maker
	} else {
		to = params.Maker
	}

	var calldata []byte
	if params.Kind == chain.ContractKindERC1155 {
		amount := params.Amount
		if amount == nil {
			amount = big.NewInt(1)
		}
		calldata, err = chain.GetERC1155ABI().Pack("safeTransferFrom", from, to, tokenID, amount, []byte{})
	} else {
		calldata, err = chain.GetERC721ABI().Pack("transferFrom", from, to, tokenID)
	}
	if err != nil {
		return nil, &chain.InvalidParamError{Message: "wyvern-v2.3: failed to encode transfer: " + err.Error()}
	}

	salt := params.Salt
	if salt == "" {
		if salt, err = chain.GenerateSalt(); err != nil {
			return nil, err
		}
	}
	nonce := params.Nonce
	if nonce == nil {
		nonce = new(big.Int)
	}

	return &Order{
		Exchange:           exchange.Hex(),
		Maker:              params.Maker.Hex(),
		Taker:              chain.ZeroAddress,
		MakerRelayerFee:    strconv.FormatInt(params.Fee, 10),
		TakerRelayerFee:    "0",
		MakerProtocolFee:   "0",
		TakerProtocolFee:   "0",
		FeeRecipient:       params.FeeRecipient.Hex(),
		FeeMethod:          FeeMethodSplitFee,
		Side:               params.Side,
		SaleKind:           SaleKindFixedPrice,
		Target:             params.Contract.Hex(),
		HowToCall:          HowToCallCall,
		Calldata:           hexutil.Encode(calldata),
		ReplacementPattern: hexutil.Encode(maskWords(len(calldata), masked...)),
		StaticTarget:       chain.ZeroAddress,
		StaticExtradata:    "0x",
		PaymentToken:       params.PaymentToken.Hex(),
		BasePrice:          params.Price.String(),
		Extra:              "0",
		ListingTime:        strconv.FormatInt(params.ListingTime, 10),
		ExpirationTime:     strconv.FormatInt(params.ExpirationTime, 10),
		Salt:               salt,
		Nonce:              nonce.String(),
	}, nil
}

// SplitFee returns the seller proceeds and relayer fee of a fill at price
// under SplitFee with makerRelayerFee bps
func SplitFee(price *big.Int, feeBps int64) (proceeds, fee *big.Int) {
	fee = new(big.Int).Mul(price, big.NewInt(feeBps))
	fee.Quo(fee, big.NewInt(10000))
	return new(big.Int).Sub(price, fee), fee
}
