package looksrare

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var (
	testTaker      = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testCollection = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	testWETH       = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func testOrder(signer common.Address, isAsk bool) *Order {
	return &Order{
		IsOrderAsk:         isAsk,
		Signer:             signer.Hex(),
		Collection:         testCollection.Hex(),
		Price:              "1000000000000000000",
		TokenID:            "7",
		Amount:             "1",
		Strategy:           StrategyStandardSaleForFixedPrice.Hex(),
		Currency:           testWETH.Hex(),
		Nonce:              "3",
		StartTime:          "1670000000",
		EndTime:            "1700000000",
		MinPercentageToAsk: "8500",
		Params:             "0x",
	}
}

func TestOrder_HashMatchesTypedData(t *testing.T) {
	signer := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	order := testOrder(signer, true)

	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"MakerOrder": []apitypes.Type{
				{Name: "isOrderAsk", Type: "bool"},
				{Name: "signer", Type: "address"},
				{Name: "collection", Type: "address"},
				{Name: "price", Type: "uint256"},
				{Name: "tokenId", Type: "uint256"},
				{Name: "amount", Type: "uint256"},
				{Name: "strategy", Type: "address"},
				{Name: "currency", Type: "address"},
				{Name: "nonce", Type: "uint256"},
				{Name: "startTime", Type: "uint256"},
				{Name: "endTime", Type: "uint256"},
				{Name: "minPercentageToAsk", Type: "uint256"},
				{Name: "params", Type: "bytes"},
			},
		},
		PrimaryType: "MakerOrder",
		Domain: apitypes.TypedDataDomain{
			Name:              DomainName,
			Version:           DomainVersion,
			ChainId:           math.NewHexOrDecimal256(chain.Mainnet),
			VerifyingContract: Addresses[chain.Mainnet].Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"isOrderAsk":         true,
			"signer":             order.Signer,
			"collection":         order.Collection,
			"price":              order.Price,
			"tokenId":            order.TokenID,
			"amount":             order.Amount,
			"strategy":           order.Strategy,
			"currency":           order.Currency,
			"nonce":              order.Nonce,
			"startTime":          order.StartTime,
			"endTime":            order.EndTime,
			"minPercentageToAsk": order.MinPercentageToAsk,
			"params":             []byte{},
		},
	}

	domainHash, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		t.Fatalf("Failed to hash domain: %v", err)
	}
	structHash, err := typedData.HashStruct("MakerOrder", typedData.Message)
	if err != nil {
		t.Fatalf("Failed to hash message: %v", err)
	}
	want := crypto.Keccak256Hash([]byte{0x19, 0x01}, domainHash, structHash)

	got, err := order.Hash(chain.Mainnet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != want {
		t.Errorf("Expected digest %s, got %s", want.Hex(), got.Hex())
	}
}

func TestOrder_Sign(t *testing.T) {
	signer, err := chain.NewPrivateKeySigner(testPrivateKey)
	if err != nil {
		t.Fatalf("Failed to create signer: %v", err)
	}
	order := testOrder(signer.Address(), true)

	if err := order.Sign(signer, chain.Mainnet); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if order.V != 27 && order.V != 28 {
		t.Errorf("Expected v in {27, 28}, got %d", order.V)
	}

	hash, _ := order.Hash(chain.Mainnet)
	signature := append(append(common.FromHex(order.R), common.FromHex(order.S)...), order.V)
	recovered, err := chain.RecoverSigner(hash, signature)
	if err != nil {
		t.Fatalf("Failed to recover signer: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("Expected signer %s, got %s", signer.Address().Hex(), recovered.Hex())
	}

	other := testOrder(testTaker, true)
	if err := other.Sign(signer, chain.Mainnet); !errors.Is(err, chain.ErrInvalidParam) {
		t.Errorf("Expected mismatched signer to be rejected, got: %v", err)
	}
}

func TestExchange_FillListingTx_RoundTrip(t *testing.T) {
	ex, err := NewExchange(chain.Mainnet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	maker := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	order := testOrder(maker, true)

	tx, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{Referrer: "ignored"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.ValueBig().String() != "1000000000000000000" {
		t.Errorf("Expected value of 1 ether, got %s", tx.ValueBig())
	}

	method := exchangeABI.Methods["matchAskWithTakerBidUsingETHAndWETH"]
	if !bytes.Equal(tx.Data[:4], method.ID) {
		t.Fatalf("Unexpected selector %x", tx.Data[:4])
	}
	args, err := method.Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	takerBid := *abi.ConvertType(args[0], new(TakerOrder)).(*TakerOrder)
	makerAsk := *abi.ConvertType(args[1], new(MakerOrder)).(*MakerOrder)
	if takerBid.IsOrderAsk || takerBid.Taker != testTaker || takerBid.Price.Cmp(makerAsk.Price) != 0 {
		t.Errorf("Unexpected taker bid: %+v", takerBid)
	}
	if makerAsk.Signer != maker || makerAsk.MinPercentageToAsk.Int64() != 8500 || makerAsk.Nonce.Int64() != 3 {
		t.Errorf("Unexpected maker ask: %+v", makerAsk)
	}

	if _, err := ex.FillListingTx(testTaker, order, big.NewInt(2), chain.FillOptions{}); !errors.Is(err, chain.ErrUnsupportedFeature) {
		t.Errorf("Expected partial fill to be unsupported, got: %v", err)
	}
}

func TestExchange_FillBidTx(t *testing.T) {
	ex, _ := NewExchange(chain.Goerli)
	maker := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	order := testOrder(maker, false)

	tx, err := ex.FillBidTx(testTaker, order, big.NewInt(11), chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.Value != nil {
		t.Error("Expected no value on bid fill")
	}
	args, err := exchangeABI.Methods["matchBidWithTakerAsk"].Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	takerAsk := *abi.ConvertType(args[0], new(TakerOrder)).(*TakerOrder)
	if !takerAsk.IsOrderAsk || takerAsk.TokenId.Int64() != 11 {
		t.Errorf("Unexpected taker ask: %+v", takerAsk)
	}

	if _, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{}); !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected bid used as listing to be malformed, got: %v", err)
	}
}
