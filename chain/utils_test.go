package chain

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     string
		wantErr  bool
	}{
		{name: "one ether", amount: "1.0", decimals: 18, want: "1000000000000000000"},
		{name: "fee share", amount: "0.025", decimals: 18, want: "25000000000000000"},
		{name: "usdc", amount: "12.5", decimals: 6, want: "12500000"},
		{name: "zero", amount: "0", decimals: 18, want: "0"},
		{name: "too many decimals", amount: "0.0000001", decimals: 6, wantErr: true},
		{name: "negative", amount: "-1", decimals: 18, wantErr: true},
		{name: "garbage", amount: "one", decimals: 18, wantErr: true},
		{name: "bad decimals", amount: "1", decimals: 19, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.amount, tt.decimals)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParam) {
					t.Fatalf("Expected invalid parameter error, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	wei, _ := new(big.Int).SetString("975000000000000000", 10)
	if got := FormatAmount(wei, 18); got != "0.975" {
		t.Errorf("Expected 0.975, got %s", got)
	}
	if got := FormatAmount(nil, 18); got != "0" {
		t.Errorf("Expected 0, got %s", got)
	}
}

func TestParseBig(t *testing.T) {
	v, err := ParseBig("0x0de0b6b3a7640000")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if v.String() != "1000000000000000000" {
		t.Errorf("Expected 1e18, got %s", v)
	}

	v, err = ParseBig("")
	if err != nil || v.Sign() != 0 {
		t.Errorf("Expected empty string to parse as zero, got %v, %v", v, err)
	}

	if _, err := ParseBig("-5"); err == nil {
		t.Error("Expected error for negative integer")
	}
	if _, err := ParseBig("1" + strings.Repeat("0", 80)); err == nil {
		t.Error("Expected error for uint256 overflow")
	}
}

func TestParseUint(t *testing.T) {
	if _, err := ParseUint("65536", 16); err == nil {
		t.Error("Expected overflow error for uint16")
	}
	v, err := ParseUint("250", 16)
	if err != nil || v != 250 {
		t.Errorf("Expected 250, got %d, %v", v, err)
	}
}

func TestParseBytes32(t *testing.T) {
	if _, err := ParseBytes32("0x1234"); err == nil {
		t.Error("Expected error for short word")
	}
	w, err := ParseBytes32("")
	if err != nil || w != [32]byte{} {
		t.Errorf("Expected zero word, got %x, %v", w, err)
	}
}

func TestAppendReferrer(t *testing.T) {
	data := []byte{0xde, 0xad}

	out, err := AppendReferrer(data, "reservoir")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !HasReferrer(out, "reservoir") {
		t.Errorf("Expected referrer suffix, got %x", out)
	}
	if len(out) != len(data)+len("reservoir")+2 {
		t.Errorf("Unexpected length %d", len(out))
	}

	out, err = AppendReferrer([]byte{0x01}, "")
	if err != nil || len(out) != 1 {
		t.Errorf("Expected empty referrer to leave data untouched, got %x, %v", out, err)
	}

	if _, err := AppendReferrer(data, "bad\x1ftag"); err == nil {
		t.Error("Expected error for referrer containing the separator")
	}
}

func TestNewTxData_ValueOmittedWhenZero(t *testing.T) {
	from := common.HexToAddress("0x1")
	to := common.HexToAddress("0x2")

	tx := NewTxData(from, to, []byte{0x01, 0x02}, big.NewInt(0))
	if tx.Value != nil {
		t.Fatalf("Expected no value, got %v", tx.Value)
	}

	raw, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Failed to marshal tx: %v", err)
	}
	if strings.Contains(string(raw), "value") {
		t.Errorf("Expected value to be omitted, got %s", raw)
	}
	if !strings.Contains(string(raw), `"data":"0x0102"`) {
		t.Errorf("Expected hex data, got %s", raw)
	}

	tx = NewTxData(from, to, nil, big.NewInt(255))
	raw, _ = json.Marshal(tx)
	if !strings.Contains(string(raw), `"value":"0xff"`) {
		t.Errorf("Expected hex value, got %s", raw)
	}
	if tx.ValueBig().Int64() != 255 {
		t.Errorf("Expected 255, got %s", tx.ValueBig())
	}
}

func TestAddressTable_Resolve(t *testing.T) {
	table := AddressTable{Mainnet: common.HexToAddress("0xabc")}

	addr, err := table.Resolve("test", Mainnet)
	if err != nil || addr != common.HexToAddress("0xabc") {
		t.Errorf("Expected mainnet address, got %s, %v", addr.Hex(), err)
	}

	_, err = table.Resolve("test", Polygon)
	if !errors.Is(err, ErrUnsupportedChain) {
		t.Fatalf("Expected unsupported chain error, got: %v", err)
	}
	var chainErr *UnsupportedChainError
	if !errors.As(err, &chainErr) || chainErr.ChainID != Polygon {
		t.Errorf("Expected UnsupportedChainError for polygon, got %v", err)
	}
}

func TestCheckFullFill(t *testing.T) {
	if err := CheckFullFill("x", nil, big.NewInt(3)); err != nil {
		t.Errorf("Expected nil amount to pass, got %v", err)
	}
	if err := CheckFullFill("x", big.NewInt(1), nil); err != nil {
		t.Errorf("Expected amount 1 to pass for single quantity, got %v", err)
	}
	if err := CheckFullFill("x", big.NewInt(2), big.NewInt(5)); !errors.Is(err, ErrUnsupportedFeature) {
		t.Errorf("Expected unsupported feature error, got %v", err)
	}
}

func TestCeilDiv(t *testing.T) {
	if got := CeilDiv(big.NewInt(10), big.NewInt(1), big.NewInt(3)); got.Int64() != 4 {
		t.Errorf("Expected 4, got %s", got)
	}
	if got := CeilDiv(big.NewInt(9), big.NewInt(2), big.NewInt(3)); got.Int64() != 6 {
		t.Errorf("Expected 6, got %s", got)
	}
}

func TestAtItem(t *testing.T) {
	if AtItem(3, nil) != nil {
		t.Error("Expected nil for a nil error")
	}
	err := AtItem(3, Malformed("blur", "bad"))
	var item *ItemError
	if !errors.As(err, &item) || item.Index != 3 {
		t.Fatalf("Expected item 3, got: %v", err)
	}
	if !errors.Is(err, ErrMalformedOrder) {
		t.Errorf("Expected ErrMalformedOrder through ItemError, got: %v", err)
	}
}
