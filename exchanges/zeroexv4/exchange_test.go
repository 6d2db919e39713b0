package zeroexv4

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

var (
	testTaker      = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testMaker      = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	testCollection = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	testWETH       = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func testOrder(kind chain.ContractKind, direction Direction, price, fee, nftAmount string) *Order {
	token := chain.NativeToken.Hex()
	if direction == DirectionBuy {
		token = testWETH.Hex()
	}
	return &Order{
		Kind:             kind,
		Direction:        direction,
		Maker:            testMaker.Hex(),
		Expiry:           "1700000000",
		Nonce:            "42",
		Erc20Token:       token,
		Erc20TokenAmount: price,
		Fees:             []OrderFee{{Recipient: "0x00000000000000000000000000000000000000dd", Amount: fee, FeeData: "0x"}},
		Nft:              testCollection.Hex(),
		NftID:            "7",
		NftAmount:        nftAmount,
		V:                28,
		R:                "0x1111111111111111111111111111111111111111111111111111111111111111",
		S:                "0x2222222222222222222222222222222222222222222222222222222222222222",
	}
}

func TestExchange_FillListingTx_ERC721(t *testing.T) {
	ex, err := NewExchange(chain.Mainnet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	order := testOrder(chain.ContractKindERC721, DirectionSell, "975", "25", "")

	tx, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{Referrer: "ignored"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.ValueBig().Int64() != 1000 {
		t.Errorf("Expected value 1000 (amount plus fees), got %s", tx.ValueBig())
	}
	if chain.HasReferrer(tx.Data, "ignored") {
		t.Error("0x v4 must not append a referrer")
	}

	method := exchangeABI.Methods["buyERC721"]
	if !bytes.Equal(tx.Data[:4], method.ID) {
		t.Fatalf("Expected buyERC721 selector, got %x", tx.Data[:4])
	}
	args, err := method.Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	decoded := *abi.ConvertType(args[0], new(ERC721Order)).(*ERC721Order)
	sig := *abi.ConvertType(args[1], new(Signature)).(*Signature)
	if decoded.Maker != testMaker || decoded.Erc721TokenId.Int64() != 7 || decoded.Nonce.Int64() != 42 {
		t.Errorf("Unexpected order: %+v", decoded)
	}
	if sig.SignatureType != SignatureTypeEIP712 || sig.V != 28 {
		t.Errorf("Unexpected signature: %+v", sig)
	}

	if _, err := ex.FillListingTx(testTaker, order, big.NewInt(2), chain.FillOptions{}); !errors.Is(err, chain.ErrUnsupportedFeature) {
		t.Errorf("Expected partial ERC721 fill to be unsupported, got: %v", err)
	}
}

func TestExchange_FillListingTx_ERC1155Partial(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	order := testOrder(chain.ContractKindERC1155, DirectionSell, "1000", "10", "3")

	tx, err := ex.FillListingTx(testTaker, order, big.NewInt(2), chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	// ceil(1000*2/3) + ceil(10*2/3) = 667 + 7
	if tx.ValueBig().Int64() != 674 {
		t.Errorf("Expected rounded up value 674, got %s", tx.ValueBig())
	}

	args, err := exchangeABI.Methods["buyERC1155"].Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	if args[2].(*big.Int).Int64() != 2 {
		t.Errorf("Expected buy amount 2, got %s", args[2])
	}

	if _, err := ex.FillListingTx(testTaker, order, big.NewInt(4), chain.FillOptions{}); !errors.Is(err, chain.ErrInvalidParam) {
		t.Errorf("Expected amount above quantity to be invalid, got: %v", err)
	}
}

func TestExchange_FillListingsTx_GroupsByStandard(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	orders := []*Order{
		testOrder(chain.ContractKindERC1155, DirectionSell, "100", "1", "1"),
		testOrder(chain.ContractKindERC721, DirectionSell, "200", "2", ""),
		testOrder(chain.ContractKindERC1155, DirectionSell, "300", "3", "1"),
	}

	txs, err := ex.FillListingsTx(testTaker, orders, nil, chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txs))
	}
	if !bytes.Equal(txs[0].Data[:4], exchangeABI.Methods["batchBuyERC1155s"].ID) {
		t.Errorf("Expected ERC1155 batch first, got selector %x", txs[0].Data[:4])
	}
	if txs[0].ValueBig().Int64() != 404 || txs[1].ValueBig().Int64() != 202 {
		t.Errorf("Unexpected batch values: %s, %s", txs[0].ValueBig(), txs[1].ValueBig())
	}

	args, err := exchangeABI.Methods["batchBuyERC1155s"].Inputs.Unpack(txs[0].Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	decoded := *abi.ConvertType(args[0], new([]ERC1155Order)).(*[]ERC1155Order)
	if len(decoded) != 2 || decoded[1].Erc20TokenAmount.Int64() != 300 {
		t.Errorf("Unexpected batched orders: %+v", decoded)
	}
	if !args[4].(bool) {
		t.Error("Expected revertIfIncomplete to be set")
	}
}

func TestExchange_FillBidTx(t *testing.T) {
	ex, _ := NewExchange(chain.Polygon)
	bid := testOrder(chain.ContractKindERC721, DirectionBuy, "500", "0", "")
	bid.NftID = "0"
	bid.NftProperties = []OrderProperty{{PropertyValidator: chain.ZeroAddress, PropertyData: "0x"}}

	tx, err := ex.FillBidTx(testTaker, bid, big.NewInt(1234), SellArgs{UnwrapNativeToken: true}, chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.Value != nil {
		t.Error("Expected no value on bid fill")
	}
	args, err := exchangeABI.Methods["sellERC721"].Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	if args[2].(*big.Int).Int64() != 1234 || !args[3].(bool) {
		t.Errorf("Expected token 1234 with unwrap, got %v %v", args[2], args[3])
	}

	specific := testOrder(chain.ContractKindERC721, DirectionBuy, "500", "0", "")
	if _, err := ex.FillBidTx(testTaker, specific, big.NewInt(8), nil, chain.FillOptions{}); !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected token mismatch to be malformed, got: %v", err)
	}
}

func TestExchange_ReservedTaker(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	order := testOrder(chain.ContractKindERC721, DirectionSell, "1", "0", "")
	order.Taker = "0x00000000000000000000000000000000000000ef"

	if _, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{}); !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected reserved order to be rejected, got: %v", err)
	}
}
