package nftrouter

import (
	"fmt"

	"github.com/kaifufi/nft-router-sdk-go/chain"
)

var (
	// ErrUnsupportedChain is returned when an exchange has no deployment on the chain
	ErrUnsupportedChain = chain.ErrUnsupportedChain

	// ErrUnsupportedKind is returned when no filler is registered for an order kind
	ErrUnsupportedKind = chain.ErrUnsupportedKind

	// ErrMalformedOrder represents an order or fill details that cannot be encoded
	ErrMalformedOrder = chain.ErrMalformedOrder

	// ErrUnsupportedFeature represents a capability the exchange lacks
	ErrUnsupportedFeature = chain.ErrUnsupportedFeature

	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = chain.ErrInvalidParam
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError = chain.InvalidParamError

// DispatchError names the item that stopped a dispatch. Index is the
// position in the listings (or bids) passed to the router.
type DispatchError struct {
	Side  string
	Index int
	Kind  ExchangeKind
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s %d (%s): %v", e.Side, e.Index, e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
