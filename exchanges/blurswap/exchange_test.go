package blurswap

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

var testTaker = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func TestExchange_FillOrderTx(t *testing.T) {
	ex, err := NewExchange(chain.Mainnet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if ex.Address != Addresses[chain.Mainnet] {
		t.Errorf("Expected %s, got %s", Addresses[chain.Mainnet].Hex(), ex.Address.Hex())
	}

	market := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	legs := []TradeDetails{
		TradeFromTx(0, chain.NewTxData(testTaker, market, []byte{0xde, 0xad}, big.NewInt(300))),
		TradeFromTx(1, chain.NewTxData(testTaker, market, []byte{0xbe, 0xef}, big.NewInt(200))),
	}
	total := TotalValue(legs)
	if total.Int64() != 500 {
		t.Fatalf("Expected total 500, got %s", total)
	}

	tx, err := ex.FillOrderTx(testTaker, legs, "0x1f4", chain.FillOptions{Referrer: "ignored"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.ValueBig().Int64() != 500 {
		t.Errorf("Expected value 500, got %s", tx.ValueBig())
	}
	if chain.HasReferrer(tx.Data, "ignored") {
		t.Error("Expected referrer to be ignored")
	}

	method := routerABI.Methods["batchBuyWithETH"]
	if !bytes.Equal(tx.Data[:4], method.ID) {
		t.Fatalf("Unexpected selector %x", tx.Data[:4])
	}
	args, err := method.Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	decoded := *abi.ConvertType(args[0], new([]TradeDetails)).(*[]TradeDetails)
	if len(decoded) != 2 || decoded[1].MarketID.Int64() != 1 || !bytes.Equal(decoded[1].TradeData, []byte{0xbe, 0xef}) {
		t.Errorf("Unexpected trades: %+v", decoded)
	}
}

func TestExchange_Errors(t *testing.T) {
	if _, err := NewExchange(chain.Polygon); !errors.Is(err, chain.ErrUnsupportedChain) {
		t.Errorf("Expected unsupported chain, got: %v", err)
	}
	ex, _ := NewExchange(chain.Mainnet)
	if _, err := ex.FillOrderTx(testTaker, nil, "1", chain.FillOptions{}); !errors.Is(err, chain.ErrInvalidParam) {
		t.Errorf("Expected empty trades to be rejected, got: %v", err)
	}
	legs := []TradeDetails{{MarketID: big.NewInt(0), Value: big.NewInt(1), TradeData: []byte{}}}
	if _, err := ex.FillOrderTx(testTaker, legs, "-1", chain.FillOptions{}); !errors.Is(err, chain.ErrInvalidParam) {
		t.Errorf("Expected bad price to be rejected, got: %v", err)
	}
}
