package sudoswap

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

var (
	testTaker = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	pairA     = "0x00000000000000000000000000000000000000a1"
	pairB     = "0x00000000000000000000000000000000000000b2"
)

func TestExchange_FillListingsTx_GroupsByPair(t *testing.T) {
	ex, err := NewExchange(chain.Mainnet)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	deadline := time.Unix(1700000000, 0)

	fills := []Fill{
		{Order: &Order{Pair: pairA, Price: "100"}, TokenID: big.NewInt(1)},
		{Order: &Order{Pair: pairB, Price: "200"}, TokenID: big.NewInt(2)},
		{Order: &Order{Pair: pairA, Price: "300"}, TokenID: big.NewInt(3)},
	}

	tx, err := ex.FillListingsTx(testTaker, fills, nil, chain.FillOptions{Deadline: deadline, Referrer: "ignored"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.ValueBig().Int64() != 600 {
		t.Errorf("Expected value 600, got %s", tx.ValueBig())
	}
	if chain.HasReferrer(tx.Data, "ignored") {
		t.Error("Sudoswap must not append a referrer")
	}

	method := routerABI.Methods["swapETHForSpecificNFTs"]
	if !bytes.Equal(tx.Data[:4], method.ID) {
		t.Fatalf("Unexpected selector %x", tx.Data[:4])
	}
	args, err := method.Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}

	swapList := *abi.ConvertType(args[0], new([]PairSwapSpecific)).(*[]PairSwapSpecific)
	if len(swapList) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(swapList))
	}
	if swapList[0].Pair != common.HexToAddress(pairA) || len(swapList[0].NftIds) != 2 {
		t.Errorf("Expected pair A with 2 ids first, got %+v", swapList[0])
	}
	if swapList[0].NftIds[1].Int64() != 3 {
		t.Errorf("Expected second id of pair A to be 3, got %s", swapList[0].NftIds[1])
	}
	if args[1].(common.Address) != testTaker || args[2].(common.Address) != testTaker {
		t.Error("Expected taker as both recipients")
	}
	if args[3].(*big.Int).Int64() != deadline.Unix() {
		t.Errorf("Expected deadline in seconds %d, got %s", deadline.Unix(), args[3])
	}
}

func TestExchange_DefaultDeadline(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	ex.Now = func() time.Time { return time.Unix(1000, 0) }

	tx, err := ex.FillOrderTx(testTaker, []PairSwapSpecific{{Pair: common.HexToAddress(pairA), NftIds: []*big.Int{big.NewInt(1)}}}, "1", chain.FillOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	args, _ := routerABI.Methods["swapETHForSpecificNFTs"].Inputs.Unpack(tx.Data[4:])
	if got := args[3].(*big.Int).Int64(); got != 1000+3600 {
		t.Errorf("Expected deadline %d, got %d", 1000+3600, got)
	}
}

func TestExchange_FillBidsTx(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000ee")

	fills := []Fill{
		{Order: &Order{Pair: pairA, Price: "70"}, TokenID: big.NewInt(9)},
		{Order: &Order{Pair: pairA, Price: "65"}, TokenID: big.NewInt(10)},
	}
	tx, err := ex.FillBidsTx(testTaker, fills, chain.FillOptions{Recipient: recipient, Deadline: time.Unix(5, 0)})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if tx.Value != nil {
		t.Error("Expected no value when selling into a pair")
	}

	args, err := routerABI.Methods["swapNFTsForToken"].Inputs.Unpack(tx.Data[4:])
	if err != nil {
		t.Fatalf("Failed to unpack calldata: %v", err)
	}
	if args[1].(*big.Int).Int64() != 135 {
		t.Errorf("Expected min output 135, got %s", args[1])
	}
	if args[2].(common.Address) != recipient {
		t.Errorf("Expected proceeds to %s, got %s", recipient.Hex(), args[2])
	}
}

func TestExchange_Errors(t *testing.T) {
	ex, _ := NewExchange(chain.Mainnet)

	_, err := ex.FillListingsTx(testTaker, []Fill{{Order: &Order{Pair: "", Price: "1"}, TokenID: big.NewInt(1)}}, nil, chain.FillOptions{})
	if !errors.Is(err, chain.ErrMalformedOrder) {
		t.Errorf("Expected malformed order for missing pair, got: %v", err)
	}

	fills := []Fill{{Order: &Order{Pair: pairA, Price: "1"}, TokenID: big.NewInt(1)}}
	_, err = ex.FillListingsTx(testTaker, fills, []*big.Int{big.NewInt(3)}, chain.FillOptions{})
	if !errors.Is(err, chain.ErrUnsupportedFeature) {
		t.Errorf("Expected unsupported feature for partial amount, got: %v", err)
	}

	fills = append(fills, Fill{Order: &Order{Pair: pairA, Price: "1"}})
	_, err = ex.FillBidsTx(testTaker, fills, chain.FillOptions{})
	var item *chain.ItemError
	if !errors.As(err, &item) || item.Index != 1 {
		t.Errorf("Expected item error at 1 for missing token id, got: %v", err)
	}

	if _, err := NewExchange(chain.Goerli); !errors.Is(err, chain.ErrUnsupportedChain) {
		t.Errorf("Expected unsupported chain, got: %v", err)
	}
}
