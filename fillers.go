package nftrouter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/blur"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/cryptopunks"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/foundation"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/looksrare"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/seaport"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/sudoswap"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/wyvernv23"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/x2y2"
	"github.com/kaifufi/nft-router-sdk-go/exchanges/zeroexv4"
	"github.com/pkg/errors"
)

// Filler encodes fills for one exchange kind
type Filler interface {
	Kind() ExchangeKind
	Address() common.Address
	FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error)
	FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error)
}

// ListingBatcher is implemented by fillers that can buy several listings of
// their kind with fewer transactions than listings
type ListingBatcher interface {
	FillListings(taker common.Address, listings []ListingDetails, opts chain.FillOptions) ([]*chain.TxData, error)
}

// BidBatcher is implemented by fillers that can sell into several bids of
// their kind at once
type BidBatcher interface {
	FillBids(taker common.Address, bids []BidDetails, opts chain.FillOptions) ([]*chain.TxData, error)
}

// DefaultFillers builds the built-in filler of every kind deployed on
// chainID. overrides replaces the deployment address of a kind.
func DefaultFillers(chainID int64, overrides map[ExchangeKind]common.Address) ([]Filler, error) {
	var fillers []Filler
	for _, kind := range AllExchangeKinds {
		addr, overridden := overrides[kind]
		filler, err := newFiller(kind, chainID, addr, overridden)
		if errors.Is(err, chain.ErrUnsupportedChain) {
			continue
		}
		if err != nil {
			return nil, err
		}
		fillers = append(fillers, filler)
	}
	return fillers, nil
}

func newFiller(kind ExchangeKind, chainID int64, addr common.Address, overridden bool) (Filler, error) {
	switch kind {
	case ExchangeKindWyvernV23:
		ex, err := wyvernv23.NewExchange(chainID)
		if overridden {
			ex, err = wyvernv23.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &wyvernFiller{ex: ex}, nil
	case ExchangeKindLooksRare:
		ex, err := looksrare.NewExchange(chainID)
		if overridden {
			ex, err = looksrare.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &looksRareFiller{ex: ex}, nil
	case ExchangeKindZeroExV4:
		ex, err := zeroexv4.NewExchange(chainID)
		if overridden {
			ex, err = zeroexv4.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &zeroExV4Filler{ex: ex}, nil
	case ExchangeKindFoundation:
		ex, err := foundation.NewExchange(chainID)
		if overridden {
			ex, err = foundation.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &foundationFiller{ex: ex}, nil
	case ExchangeKindX2Y2:
		ex, err := x2y2.NewExchange(chainID)
		if overridden {
			ex, err = x2y2.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &x2y2Filler{ex: ex}, nil
	case ExchangeKindSeaport:
		ex, err := seaport.NewExchange(chainID)
		if overridden {
			ex, err = seaport.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &seaportFiller{ex: ex}, nil
	case ExchangeKindSudoswap:
		ex, err := sudoswap.NewExchange(chainID)
		if overridden {
			ex, err = sudoswap.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &sudoswapFiller{ex: ex}, nil
	case ExchangeKindBlur:
		ex, err := blur.NewExchange(chainID)
		if overridden {
			ex, err = blur.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &blurFiller{ex: ex}, nil
	case ExchangeKindCryptoPunks:
		ex, err := cryptopunks.NewExchange(chainID)
		if overridden {
			ex, err = cryptopunks.NewExchangeAt(chainID, addr), nil
		}
		if err != nil {
			return nil, err
		}
		return &cryptoPunksFiller{ex: ex}, nil
	}
	return nil, errors.Wrapf(chain.ErrUnsupportedKind, "exchange kind %d", int(kind))
}

func payload(g GenericOrder, want ExchangeKind) (interface{}, error) {
	if g.Kind() != want {
		return nil, errors.Wrapf(chain.ErrUnsupportedKind, "%s filler cannot fill %s orders", want, g.Kind())
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g.Order(), nil
}

func amountsOf(listings []ListingDetails) []*big.Int {
	amounts := make([]*big.Int, len(listings))
	for i := range listings {
		amounts[i] = listings[i].Amount
	}
	return amounts
}

// --- Blur ---

type blurFiller struct{ ex *blur.Exchange }

func (f *blurFiller) Kind() ExchangeKind      { return ExchangeKindBlur }
func (f *blurFiller) Address() common.Address { return f.ex.Address }

func (f *blurFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindBlur)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*blur.Order), listing.Amount, opts)
}

func (f *blurFiller) FillListings(taker common.Address, listings []ListingDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	orders := make([]*blur.Order, 0, len(listings))
	for i := range listings {
		order, err := payload(listings[i].GenericOrder, ExchangeKindBlur)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		orders = append(orders, order.(*blur.Order))
	}
	tx, err := f.ex.FillListingsTx(taker, orders, amountsOf(listings), opts)
	if err != nil {
		return nil, err
	}
	return []*chain.TxData{tx}, nil
}

func (f *blurFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindBlur)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*blur.Order), bid.TokenID, opts)
}

// --- Seaport ---

type seaportFiller struct{ ex *seaport.Exchange }

func (f *seaportFiller) Kind() ExchangeKind      { return ExchangeKindSeaport }
func (f *seaportFiller) Address() common.Address { return f.ex.Address }

func (f *seaportFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindSeaport)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*seaport.Order), listing.Amount, opts)
}

func (f *seaportFiller) FillListings(taker common.Address, listings []ListingDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	orders := make([]*seaport.Order, 0, len(listings))
	for i := range listings {
		order, err := payload(listings[i].GenericOrder, ExchangeKindSeaport)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		orders = append(orders, order.(*seaport.Order))
	}
	tx, err := f.ex.FillListingsTx(taker, orders, amountsOf(listings), opts)
	if err != nil {
		return nil, err
	}
	return []*chain.TxData{tx}, nil
}

func (f *seaportFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindSeaport)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*seaport.Order), bid.TokenID, bid.ExtraArgs, opts)
}

// --- 0x v4 ---

type zeroExV4Filler struct{ ex *zeroexv4.Exchange }

func (f *zeroExV4Filler) Kind() ExchangeKind      { return ExchangeKindZeroExV4 }
func (f *zeroExV4Filler) Address() common.Address { return f.ex.Address }

func (f *zeroExV4Filler) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := zeroExOrder(listing.GenericOrder, listing.ContractKind)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order, listing.Amount, opts)
}

func (f *zeroExV4Filler) FillListings(taker common.Address, listings []ListingDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	orders := make([]*zeroexv4.Order, 0, len(listings))
	for i := range listings {
		order, err := zeroExOrder(listings[i].GenericOrder, listings[i].ContractKind)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		orders = append(orders, order)
	}
	return f.ex.FillListingsTx(taker, orders, amountsOf(listings), opts)
}

func (f *zeroExV4Filler) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := zeroExOrder(bid.GenericOrder, bid.ContractKind)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order, bid.TokenID, bid.ExtraArgs, opts)
}

// zeroExOrder rejects an order whose token standard differs from the fill details
func zeroExOrder(g GenericOrder, kind chain.ContractKind) (*zeroexv4.Order, error) {
	p, err := payload(g, ExchangeKindZeroExV4)
	if err != nil {
		return nil, err
	}
	order := p.(*zeroexv4.Order)
	if order.Kind != kind {
		return nil, chain.Malformed(ExchangeKindZeroExV4.String(), "%s order cannot fill %s details", order.Kind, kind)
	}
	return order, nil
}

// --- Sudoswap ---

// sudoswapFiller routes even single fills through the swap list encoders
type sudoswapFiller struct{ ex *sudoswap.Exchange }

func (f *sudoswapFiller) Kind() ExchangeKind      { return ExchangeKindSudoswap }
func (f *sudoswapFiller) Address() common.Address { return f.ex.Address }

func (f *sudoswapFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	txs, err := f.FillListings(taker, []ListingDetails{listing}, opts)
	if err != nil {
		return nil, err
	}
	return txs[0], nil
}

func (f *sudoswapFiller) FillListings(taker common.Address, listings []ListingDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	fills := make([]sudoswap.Fill, 0, len(listings))
	for i := range listings {
		order, err := payload(listings[i].GenericOrder, ExchangeKindSudoswap)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		fills = append(fills, sudoswap.Fill{Order: order.(*sudoswap.Order), TokenID: listings[i].TokenID})
	}
	tx, err := f.ex.FillListingsTx(taker, fills, amountsOf(listings), opts)
	if err != nil {
		return nil, err
	}
	return []*chain.TxData{tx}, nil
}

func (f *sudoswapFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	txs, err := f.FillBids(taker, []BidDetails{bid}, opts)
	if err != nil {
		return nil, err
	}
	return txs[0], nil
}

func (f *sudoswapFiller) FillBids(taker common.Address, bids []BidDetails, opts chain.FillOptions) ([]*chain.TxData, error) {
	fills := make([]sudoswap.Fill, 0, len(bids))
	for i := range bids {
		order, err := payload(bids[i].GenericOrder, ExchangeKindSudoswap)
		if err != nil {
			return nil, chain.AtItem(i, err)
		}
		fills = append(fills, sudoswap.Fill{Order: order.(*sudoswap.Order), TokenID: bids[i].TokenID})
	}
	tx, err := f.ex.FillBidsTx(taker, fills, opts)
	if err != nil {
		return nil, err
	}
	return []*chain.TxData{tx}, nil
}

// --- Single fill kinds ---

type looksRareFiller struct{ ex *looksrare.Exchange }

func (f *looksRareFiller) Kind() ExchangeKind      { return ExchangeKindLooksRare }
func (f *looksRareFiller) Address() common.Address { return f.ex.Address }

func (f *looksRareFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindLooksRare)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*looksrare.Order), listing.Amount, opts)
}

func (f *looksRareFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindLooksRare)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*looksrare.Order), bid.TokenID, opts)
}

type foundationFiller struct{ ex *foundation.Exchange }

func (f *foundationFiller) Kind() ExchangeKind      { return ExchangeKindFoundation }
func (f *foundationFiller) Address() common.Address { return f.ex.Address }

func (f *foundationFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindFoundation)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*foundation.Order), listing.Amount, opts)
}

func (f *foundationFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindFoundation)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*foundation.Order), bid.TokenID, opts)
}

type x2y2Filler struct{ ex *x2y2.Exchange }

func (f *x2y2Filler) Kind() ExchangeKind      { return ExchangeKindX2Y2 }
func (f *x2y2Filler) Address() common.Address { return f.ex.Address }

func (f *x2y2Filler) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindX2Y2)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*x2y2.Order), listing.Amount, opts)
}

func (f *x2y2Filler) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindX2Y2)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*x2y2.Order), bid.TokenID, opts)
}

type wyvernFiller struct{ ex *wyvernv23.Exchange }

func (f *wyvernFiller) Kind() ExchangeKind      { return ExchangeKindWyvernV23 }
func (f *wyvernFiller) Address() common.Address { return f.ex.Address }

func (f *wyvernFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindWyvernV23)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*wyvernv23.Order), listing.Amount, opts)
}

func (f *wyvernFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindWyvernV23)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*wyvernv23.Order), bid.TokenID, opts)
}

type cryptoPunksFiller struct{ ex *cryptopunks.Exchange }

func (f *cryptoPunksFiller) Kind() ExchangeKind      { return ExchangeKindCryptoPunks }
func (f *cryptoPunksFiller) Address() common.Address { return f.ex.Address }

func (f *cryptoPunksFiller) FillListing(taker common.Address, listing ListingDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(listing.GenericOrder, ExchangeKindCryptoPunks)
	if err != nil {
		return nil, err
	}
	return f.ex.FillListingTx(taker, order.(*cryptopunks.Order), listing.Amount, opts)
}

func (f *cryptoPunksFiller) FillBid(taker common.Address, bid BidDetails, opts chain.FillOptions) (*chain.TxData, error) {
	order, err := payload(bid.GenericOrder, ExchangeKindCryptoPunks)
	if err != nil {
		return nil, err
	}
	return f.ex.FillBidTx(taker, order.(*cryptopunks.Order), bid.TokenID, opts)
}

// --- Maker nonces ---

// NonceReader is implemented by fillers whose exchange tracks a per-maker
// nonce (or counter) that signed orders must carry
type NonceReader interface {
	MakerNonce(ctx context.Context, caller *chain.Caller, maker common.Address) (*big.Int, error)
}

func (f *blurFiller) MakerNonce(ctx context.Context, caller *chain.Caller, maker common.Address) (*big.Int, error) {
	return f.ex.GetNonce(ctx, caller, maker)
}

func (f *looksRareFiller) MakerNonce(ctx context.Context, caller *chain.Caller, maker common.Address) (*big.Int, error) {
	return f.ex.GetMinNonce(ctx, caller, maker)
}

func (f *seaportFiller) MakerNonce(ctx context.Context, caller *chain.Caller, maker common.Address) (*big.Int, error) {
	return f.ex.GetCounter(ctx, caller, maker)
}

func (f *wyvernFiller) MakerNonce(ctx context.Context, caller *chain.Caller, maker common.Address) (*big.Int, error) {
	return f.ex.GetNonce(ctx, caller, maker)
}
