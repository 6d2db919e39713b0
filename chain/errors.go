package chain

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedChain is returned when no deployment is registered for a chain
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnsupportedKind is returned when no adapter is registered for an exchange kind
	ErrUnsupportedKind = errors.New("unsupported exchange kind")

	// ErrMalformedOrder is returned when an order or its fill details cannot be encoded
	ErrMalformedOrder = errors.New("malformed order")

	// ErrUnsupportedFeature is returned when a caller asks an adapter for a capability it lacks
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (e *InvalidParamError) Unwrap() error {
	return ErrInvalidParam
}

// UnsupportedChainError names the exchange and chain that have no deployment
type UnsupportedChainError struct {
	Exchange string
	ChainID  int64
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("%s: chain %d is not supported", e.Exchange, e.ChainID)
}

func (e *UnsupportedChainError) Unwrap() error {
	return ErrUnsupportedChain
}

// ItemError marks the position, within a batch call, of the order that
// could not be encoded
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// AtItem tags err with a batch position. A nil err stays nil.
func AtItem(index int, err error) error {
	if err == nil {
		return nil
	}
	return &ItemError{Index: index, Err: err}
}

// Malformed wraps ErrMalformedOrder with an exchange-prefixed message
func Malformed(exchange, format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedOrder, "%s: %s", exchange, fmt.Sprintf(format, args...))
}

// Unsupported wraps ErrUnsupportedFeature with the exchange and feature name
func Unsupported(exchange, feature string) error {
	return errors.Wrapf(ErrUnsupportedFeature, "%s: %s", exchange, feature)
}

// CheckFullFill rejects a requested amount on an exchange that cannot fill
// orders partially. A nil amount, or one equal to the order quantity, is accepted.
func CheckFullFill(exchange string, requested, quantity *big.Int) error {
	if requested == nil {
		return nil
	}
	if quantity == nil {
		quantity = big.NewInt(1)
	}
	if requested.Cmp(quantity) != 0 {
		return errors.Wrapf(ErrUnsupportedFeature, "%s: partial fill of %s out of %s", exchange, requested, quantity)
	}
	return nil
}
