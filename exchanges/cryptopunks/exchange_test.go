package cryptopunks

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

var testTaker = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func TestExchange_FillListingTx(t *testing.T) {
	ex, err := NewExchange(chain.Mainnet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	order := &Order{Maker: "0x00000000000000000000000000000000000000bb", Side: SideSell, TokenID: "5822", Price: "8000000000000000000000"}

	tx, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.ValueBig().String() != "8000000000000000000000" {
		t.Errorf("Expected value 8000 ether, got %s", tx.ValueBig())
	}
	method := marketABI.Methods["buyPunk"]
	if !bytes.Equal(tx.Data[:4], method.ID) {
		t.Fatalf("Unexpected selector %x", tx.Data[:4])
	}
	args, err := method.Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	if args[0].(*big.Int).Int64() != 5822 {
		t.Errorf("Expected punk 5822, got %v", args[0])
	}
}

func TestExchange_FillBidTx(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	order := &Order{Maker: "0x00000000000000000000000000000000000000bb", Side: SideBuy, TokenID: "100", Price: "70"}

	tx, err := ex.FillBidTx(testTaker, order, big.NewInt(100), chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.Value != nil {
		t.Error("Expected no value when accepting a bid")
	}
	args, err := marketABI.Methods["acceptBidForPunk"].Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	if args[1].(*big.Int).Int64() != 70 {
		t.Errorf("Expected min price 70, got %v", args[1])
	}
}

func TestExchange_Errors(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)

	reserved := &Order{Side: SideSell, TokenID: "1", Price: "1", Taker: "0x00000000000000000000000000000000000000ef"}
	if _, err := ex.FillListingTx(testTaker, reserved, nil, chain.FillOptions{}); !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected reserved punk to be rejected, got: %v", err)
	}

	outOfRange := &Order{Side: SideSell, TokenID: "10000", Price: "1"}
	if _, err := ex.FillListingTx(testTaker, outOfRange, nil, chain.FillOptions{}); !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected out of range punk to be rejected, got: %v", err)
	}

	bid := &Order{Side: SideBuy, TokenID: "3", Price: "1"}
	if _, err := ex.FillBidTx(testTaker, bid, big.NewInt(4), chain.FillOptions{}); !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected token mismatch to be rejected, got: %v", err)
	}
}
