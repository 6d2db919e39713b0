package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	nftrouter "github.com/kaifufi/nft-router-sdk-go"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
)

// Response is the envelope of every reply. Code is 0 on success and the
// HTTP status otherwise.
type Response struct {
	Code   int         `json:"code"`
	Msg    string      `json:"msg"`
	Result interface{} `json:"result,omitempty"`
}

func (s *Server) reply(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "ok", Result: result})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Response{Code: status, Msg: err.Error()})
}

// statusOf maps the error taxonomy onto HTTP statuses
func statusOf(err error) int {
	switch {
	case errors.Is(err, chain.ErrUnsupportedKind), errors.Is(err, chain.ErrUnsupportedChain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, chain.ErrMalformedOrder), errors.Is(err, chain.ErrUnsupportedFeature), errors.Is(err, chain.ErrInvalidParam):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) exchangesHandler(c *gin.Context) {
	kinds := s.router.Kinds()
	infos := make([]nftrouter.ExchangeInfo, 0, len(kinds))
	for _, kind := range kinds {
		f, _ := s.router.Filler(kind)
		_, batchListings := f.(nftrouter.ListingBatcher)
		_, batchBids := f.(nftrouter.BidBatcher)
		infos = append(infos, nftrouter.ExchangeInfo{
			Kind:          kind,
			ID:            int(kind),
			Address:       f.Address(),
			BatchListings: batchListings,
			BatchBids:     batchBids,
		})
	}
	s.reply(c, nftrouter.GetExchangesResponse{ChainID: s.router.ChainID(), Exchanges: infos})
}

func (s *Server) bind(c *gin.Context, listings, bids bool) (*nftrouter.FillRequest, bool) {
	var req nftrouter.FillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, chain.ErrMalformedOrder) {
			err = &chain.InvalidParamError{Message: "invalid request body: " + err.Error()}
		}
		s.fail(c, err)
		return nil, false
	}
	if !listings {
		req.Listings = nil
	}
	if !bids {
		req.Bids = nil
	}
	if req.Taker == (common.Address{}) {
		s.fail(c, &chain.InvalidParamError{Message: "taker is required"})
		return nil, false
	}
	if n := len(req.Listings) + len(req.Bids); n > s.opts.MaxItems {
		s.fail(c, &chain.InvalidParamError{Message: "too many items: " + strconv.Itoa(n) + " > " + strconv.Itoa(s.opts.MaxItems)})
		return nil, false
	}
	return &req, true
}

func (s *Server) fillOptions(o nftrouter.FillRequestOptions) chain.FillOptions {
	opts := chain.FillOptions{
		Referrer:  o.Referrer,
		Recipient: o.Recipient,
	}
	if opts.Referrer == "" {
		opts.Referrer = s.opts.Referrer
	}
	if o.Deadline > 0 {
		opts.Deadline = time.Unix(o.Deadline, 0)
	} else if s.opts.DeadlineTTL > 0 {
		opts.Deadline = s.opts.Now().Add(s.opts.DeadlineTTL)
	}
	return opts
}

func (s *Server) fillHandler(listings, bids bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := s.bind(c, listings, bids)
		if !ok {
			return
		}
		txs, err := s.router.FillTx(req.Taker, req.Listings, req.Bids, s.fillOptions(req.Options))
		if err != nil {
			s.fail(c, err)
			return
		}
		s.reply(c, nftrouter.FillResponse{Txs: txs, TotalValue: nftrouter.TotalValue(txs).String()})
	}
}

func (s *Server) planHandler(c *gin.Context) {
	req, ok := s.bind(c, true, true)
	if !ok {
		return
	}
	plan, err := s.router.Plan(req.Listings, req.Bids)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, plan)
}

// NonceResult is the reply of the nonce endpoint
type NonceResult struct {
	Kind  nftrouter.ExchangeKind `json:"kind"`
	Maker common.Address         `json:"maker"`
	Nonce string                 `json:"nonce"`
}

func (s *Server) nonceHandler(c *gin.Context) {
	if s.opts.Caller == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, Response{Code: http.StatusServiceUnavailable, Msg: "no rpc_url configured"})
		return
	}
	kind, err := nftrouter.ParseExchangeKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}
	maker, err := chain.ParseAddress(c.Param("maker"))
	if err != nil || maker == (common.Address{}) {
		s.fail(c, &chain.InvalidParamError{Message: "invalid maker: " + c.Param("maker")})
		return
	}

	nonce, err := s.router.MakerNonce(c.Request.Context(), s.opts.Caller, kind, maker)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, NonceResult{Kind: kind, Maker: maker, Nonce: nonce.String()})
}
