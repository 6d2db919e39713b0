package chain

import (
	"bytes"
	crand "crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	MaxDecimals = 18
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

// ReferrerSeparator delimits the referrer tag appended to calldata
const ReferrerSeparator byte = 0x1f

var (
	// MaxUint256 is 2^256 - 1
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// NativeToken is the pseudo-address some exchanges use for the chain currency
	NativeToken = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
)

// AddressTable maps chain IDs to a deployed contract address
type AddressTable map[int64]common.Address

// Resolve returns the address registered for chainID, failing fast when absent
func (t AddressTable) Resolve(exchange string, chainID int64) (common.Address, error) {
	addr, ok := t[chainID]
	if !ok {
		return common.Address{}, &UnsupportedChainError{Exchange: exchange, ChainID: chainID}
	}
	return addr, nil
}

// ParseAmount converts a human-readable decimal amount into integer units
func ParseAmount(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, &InvalidParamError{Message: fmt.Sprintf("invalid amount %q", amount)}
	}
	if d.IsNegative() {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount must not be negative, got: %s", amount)}
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount %s has more than %d decimals", amount, decimals)}
	}

	result := scaled.BigInt()
	if result.Cmp(MaxUint256) > 0 {
		return nil, &InvalidParamError{Message: fmt.Sprintf("amount too large for uint256: %s", result.String())}
	}
	return result, nil
}

// ParseEther converts an amount of the native currency into wei
func ParseEther(amount string) (*big.Int, error) {
	return ParseAmount(amount, 18)
}

// FormatAmount renders integer units as a decimal string
func FormatAmount(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}

// ParseBig parses a non-negative integer written in decimal or 0x-prefixed hex.
// An empty string parses as zero.
func ParseBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
		if digits == "" {
			return new(big.Int), nil
		}
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid integer %q", s)
	}
	if v.Cmp(MaxUint256) > 0 {
		return nil, errors.Errorf("integer %q overflows uint256", s)
	}
	return v, nil
}

// ParseUint parses like ParseBig and checks the value fits in bits
func ParseUint(s string, bits uint) (uint64, error) {
	v, err := ParseBig(s)
	if err != nil {
		return 0, err
	}
	if v.BitLen() > int(bits) {
		return 0, errors.Errorf("integer %q overflows uint%d", s, bits)
	}
	return v.Uint64(), nil
}

// ParseAddress parses a hex address. An empty string is the zero address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseBytes decodes 0x-prefixed hex. An empty string or "0x" is empty bytes.
func ParseBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex bytes %q", s)
	}
	return b, nil
}

// ParseBytes32 decodes a 0x-prefixed 32 byte word. An empty string is the zero word.
func ParseBytes32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := ParseBytes(s)
	if err != nil {
		return out, err
	}
	if len(b) == 0 {
		return out, nil
	}
	if len(b) != 32 {
		return out, errors.Errorf("expected 32 bytes, got %d in %q", len(b), s)
	}
	copy(out[:], b)
	return out, nil
}

// ReferrerBytes returns the calldata suffix carrying a referrer tag, or nil
// when no referrer is set
func ReferrerBytes(referrer string) []byte {
	if referrer == "" {
		return nil
	}
	out := make([]byte, 0, len(referrer)+2)
	out = append(out, ReferrerSeparator)
	out = append(out, referrer...)
	return append(out, ReferrerSeparator)
}

// AppendReferrer appends the referrer suffix to calldata
func AppendReferrer(data []byte, referrer string) ([]byte, error) {
	if strings.IndexByte(referrer, ReferrerSeparator) >= 0 {
		return nil, &InvalidParamError{Message: "referrer must not contain the separator byte"}
	}
	return append(data, ReferrerBytes(referrer)...), nil
}

// HasReferrer reports whether data ends with the suffix for referrer
func HasReferrer(data []byte, referrer string) bool {
	suffix := ReferrerBytes(referrer)
	return len(suffix) > 0 && bytes.HasSuffix(data, suffix)
}

// SumValues adds native values exactly. Nil entries count as zero.
func SumValues(values ...*big.Int) *big.Int {
	total := new(big.Int)
	for _, v := range values {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

// CeilDiv returns ceil(a*b / c)
func CeilDiv(a, b, c *big.Int) *big.Int {
	num := new(big.Int).Mul(a, b)
	q, r := new(big.Int).QuoRem(num, c, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// GenerateSalt returns a random 256-bit salt in decimal form
func GenerateSalt() (string, error) {
	salt, err := crand.Int(crand.Reader, MaxUint256)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}
	return salt.String(), nil
}
