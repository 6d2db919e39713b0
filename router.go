package nftrouter

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sides of a dispatch step
const (
	SideListing = "listing"
	SideBid     = "bid"
)

// Router dispatches listings and bids to the filler of their kind. It is
// immutable after construction and safe for concurrent use.
type Router struct {
	chainID int64
	fillers map[ExchangeKind]Filler
	logger  *zap.Logger
}

// NewRouter creates a router with the built-in fillers deployed on
// config.ChainID plus any configured fillers
func NewRouter(config RouterConfig) (*Router, error) {
	fillers := make(map[ExchangeKind]Filler)
	if !config.DisableDefaults {
		defaults, err := DefaultFillers(config.ChainID, config.AddressOverrides)
		if err != nil {
			return nil, err
		}
		for _, f := range defaults {
			fillers[f.Kind()] = f
		}
	}
	for _, f := range config.Fillers {
		if f == nil || !f.Kind().Valid() {
			return nil, &InvalidParamError{Message: "fillers must have a known exchange kind"}
		}
		fillers[f.Kind()] = f
	}
	if len(fillers) == 0 {
		return nil, &chain.UnsupportedChainError{Exchange: "router", ChainID: config.ChainID}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Router{
		chainID: config.ChainID,
		fillers: fillers,
		logger:  logger,
	}, nil
}

// ChainID returns the chain the router encodes for
func (r *Router) ChainID() int64 {
	return r.chainID
}

// Kinds returns the registered kinds in numeric order
func (r *Router) Kinds() []ExchangeKind {
	kinds := make([]ExchangeKind, 0, len(r.fillers))
	for kind := range r.fillers {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Filler returns the filler registered for kind
func (r *Router) Filler(kind ExchangeKind) (Filler, bool) {
	f, ok := r.fillers[kind]
	return f, ok
}

// MakerNonce reads the current nonce of maker on the exchange of kind
func (r *Router) MakerNonce(ctx context.Context, caller *chain.Caller, kind ExchangeKind, maker common.Address) (*big.Int, error) {
	f, ok := r.fillers[kind]
	if !ok {
		return nil, errors.Wrapf(chain.ErrUnsupportedKind, "no filler for %s on chain %d", kind, r.chainID)
	}
	reader, ok := f.(NonceReader)
	if !ok {
		return nil, chain.Unsupported(kind.String(), "maker nonces")
	}
	return reader.MakerNonce(ctx, caller, maker)
}

// Step is one filler call of a dispatch plan. Batch steps cover every index
// of their partition in a single call.
type Step struct {
	Side    string         `json:"side"`
	Kind    ExchangeKind   `json:"kind"`
	Address common.Address `json:"address"`
	Batch   bool           `json:"batch"`
	Indexes []int          `json:"indexes"`
}

// Plan is the ordered list of filler calls for a dispatch
type Plan struct {
	Steps []Step `json:"steps"`
}

type partition struct {
	kind    ExchangeKind
	indexes []int
}

// partitionByKind groups item indexes by kind, with kinds in
// first-appearance order and indexes in input order
func partitionByKind(n int, kindOf func(int) ExchangeKind) []*partition {
	var parts []*partition
	byKind := make(map[ExchangeKind]*partition)
	for i := 0; i < n; i++ {
		kind := kindOf(i)
		p, ok := byKind[kind]
		if !ok {
			p = &partition{kind: kind}
			byKind[kind] = p
			parts = append(parts, p)
		}
		p.indexes = append(p.indexes, i)
	}
	return parts
}

// Plan validates every item and returns the filler calls a fill would make.
// Listings are planned before bids. Any invalid item or kind without a
// filler fails the whole plan.
func (r *Router) Plan(listings []ListingDetails, bids []BidDetails) (*Plan, error) {
	if len(listings) == 0 && len(bids) == 0 {
		return nil, &InvalidParamError{Message: "nothing to fill"}
	}

	for i := range listings {
		if err := r.check(SideListing, i, listings[i].GenericOrder, listings[i].Validate()); err != nil {
			return nil, err
		}
	}
	for i := range bids {
		if err := r.check(SideBid, i, bids[i].GenericOrder, bids[i].Validate()); err != nil {
			return nil, err
		}
	}

	plan := &Plan{}
	plan.Steps = append(plan.Steps, r.steps(SideListing, len(listings), func(i int) ExchangeKind { return listings[i].Kind() }, func(f Filler) bool {
		_, ok := f.(ListingBatcher)
		return ok
	})...)
	plan.Steps = append(plan.Steps, r.steps(SideBid, len(bids), func(i int) ExchangeKind { return bids[i].Kind() }, func(f Filler) bool {
		_, ok := f.(BidBatcher)
		return ok
	})...)

	kinds := make([]string, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		kinds = append(kinds, s.Side+":"+s.Kind.String())
	}
	r.logger.Debug("dispatch plan",
		zap.Int64("chainId", r.chainID),
		zap.Int("listings", len(listings)),
		zap.Int("bids", len(bids)),
		zap.Int("steps", len(plan.Steps)),
		zap.Strings("calls", kinds),
	)
	return plan, nil
}

// steps walks one side in input order. A batching partition with more than
// one item becomes a single step at its first index; every other item is
// its own step.
func (r *Router) steps(side string, n int, kindOf func(int) ExchangeKind, batches func(Filler) bool) []Step {
	batchAt := make(map[int]*partition)
	inBatch := make(map[int]bool)
	for _, part := range partitionByKind(n, kindOf) {
		if len(part.indexes) > 1 && batches(r.fillers[part.kind]) {
			batchAt[part.indexes[0]] = part
			for _, i := range part.indexes {
				inBatch[i] = true
			}
		}
	}

	var steps []Step
	for i := 0; i < n; i++ {
		kind := kindOf(i)
		address := r.fillers[kind].Address()
		if part, ok := batchAt[i]; ok {
			steps = append(steps, Step{Side: side, Kind: kind, Address: address, Batch: true, Indexes: part.indexes})
			continue
		}
		if inBatch[i] {
			continue
		}
		steps = append(steps, Step{Side: side, Kind: kind, Address: address, Indexes: []int{i}})
	}
	return steps
}

func (r *Router) check(side string, index int, order GenericOrder, invalid error) error {
	if invalid != nil {
		return &DispatchError{Side: side, Index: index, Kind: order.Kind(), Err: invalid}
	}
	if _, ok := r.fillers[order.Kind()]; !ok {
		return &DispatchError{
			Side:  side,
			Index: index,
			Kind:  order.Kind(),
			Err:   errors.Wrapf(chain.ErrUnsupportedKind, "no filler for %s on chain %d", order.Kind(), r.chainID),
		}
	}
	return nil
}

// FillListingsTx encodes the transactions that buy every listing
func (r *Router) FillListingsTx(taker common.Address, listings []ListingDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	return r.FillTx(taker, listings, nil, opts)
}

// FillBidsTx encodes the transactions that sell into every bid
func (r *Router) FillBidsTx(taker common.Address, bids []BidDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	return r.FillTx(taker, nil, bids, opts)
}

// FillTx encodes listings then bids following Plan. On any error no
// transactions are returned.
func (r *Router) FillTx(taker common.Address, listings []ListingDetails, bids []BidDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	plan, err := r.Plan(listings, bids)
	if err != nil {
		return nil, err
	}

	var txs []*chain.TxData
	for _, step := range plan.Steps {
		stepTxs, err := r.execute(taker, step, listings, bids, opts)
		if err != nil {
			return nil, stepError(step, err)
		}
		txs = append(txs, stepTxs...)
	}
	return txs, nil
}

// stepError maps a batch position reported by the filler back to the
// caller's index
func stepError(step Step, err error) *DispatchError {
	index := step.Indexes[0]
	var item *chain.ItemError
	if errors.As(err, &item) && item.Index >= 0 && item.Index < len(step.Indexes) {
		index = step.Indexes[item.Index]
		err = item.Err
	}
	return &DispatchError{Side: step.Side, Index: index, Kind: step.Kind, Err: err}
}

func (r *Router) execute(taker common.Address, step Step, listings []ListingDetails, bids []BidDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	f := r.fillers[step.Kind]

	if step.Side == SideListing {
		if step.Batch {
			group := make([]ListingDetails, 0, len(step.Indexes))
			for _, i := range step.Indexes {
				group = append(group, listings[i])
			}
			return f.(ListingBatcher).FillListings(taker, group, opts)
		}
		tx, err := f.FillListing(taker, listings[step.Indexes[0]], opts)
		if err != nil {
			return nil, err
		}
		return []*chain.TxData{tx}, nil
	}

	if step.Batch {
		group := make([]BidDetails, 0, len(step.Indexes))
		for _, i := range step.Indexes {
			group = append(group, bids[i])
		}
		return f.(BidBatcher).FillBids(taker, group, opts)
	}
	tx, err := f.FillBid(taker, bids[step.Indexes[0]], opts)
	if err != nil {
		return nil, err
	}
	return []*chain.TxData{tx}, nil
}
