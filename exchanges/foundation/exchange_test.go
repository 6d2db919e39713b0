package foundation

import (
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
	referrer := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	order := &Order{Contract: "0x00000000000000000000000000000000000000cc", TokenID: "15", Price: "2000"}

	tx, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{Referrer: referrer.Hex()})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.To != Addresses[chain.Mainnet] || tx.ValueBig().Int64() != 2000 {
		t.Errorf("Unexpected tx: to=%s value=%s", tx.To.Hex(), tx.ValueBig())
	}

	args, err := marketABI.Methods["buyV2"].Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	if args[1].(*big.Int).Int64() != 15 || args[2].(*big.Int).Int64() != 2000 {
		t.Errorf("Unexpected token or max price: %v %v", args[1], args[2])
	}
	if args[3].(common.Address) != referrer {
		t.Errorf("Expected referrer %s, got %s", referrer.Hex(), args[3])
	}
}

func TestExchange_Errors(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	order := &Order{Contract: "0x00000000000000000000000000000000000000cc", TokenID: "1", Price: "1"}

	if _, err := ex.FillListingTx(testTaker, order, nil, chain.FillOptions{Referrer: "reservoir"}); !errors.Is(err, chain.ErrUnsupportedFeature) {
		t.Errorf("Expected non-address referrer to be unsupported, got: %v", err)
	}
	if _, err := ex.FillListingTx(testTaker, order, big.NewInt(2), chain.FillOptions{}); !errors.Is(err, chain.ErrUnsupportedFeature) {
		t.Errorf("Expected partial fill to be unsupported, got: %v", err)
	}
	if _, err := ex.FillBidTx(testTaker, order, big.NewInt(1), chain.FillOptions{}); !errors.Is(err, chain.ErrUnsupportedFeature) {
		t.Errorf("Expected bid fill to be unsupported, got: %v", err)
	}
	if _, err := NewExchange(chain.Polygon); !errors.Is(err, chain.ErrUnsupportedChain) {
		t.Errorf("Expected unsupported chain, got: %v", err)
	}
}
