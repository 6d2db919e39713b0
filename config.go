package nftrouter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"go.uber.org/zap"
)

// Chain IDs with at least one built-in exchange deployment
const (
	ChainIDMainnet  = chain.Mainnet
	ChainIDGoerli   = chain.Goerli
	ChainIDOptimism = chain.Optimism
	ChainIDPolygon  = chain.Polygon
	ChainIDArbitrum = chain.Arbitrum
)

// SupportedChainIDs lists the chains the built-in fillers cover
var SupportedChainIDs = []int64{ChainIDMainnet, ChainIDGoerli, ChainIDOptimism, ChainIDPolygon, ChainIDArbitrum}

// RouterConfig holds configuration for creating a Router
type RouterConfig struct {
	ChainID int64

	// AddressOverrides replaces the registered deployment of a kind. A kind
	// with no deployment on ChainID becomes available when overridden.
	AddressOverrides map[ExchangeKind]common.Address

	// Fillers replace the built-in filler of their kind
	Fillers []Filler

	// DisableDefaults registers only Fillers
	DisableDefaults bool

	// Logger receives one debug line per dispatch plan. Defaults to a no-op logger.
	Logger *zap.Logger
}
