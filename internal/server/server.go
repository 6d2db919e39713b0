package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	nftrouter "github.com/kaifufi/nft-router-sdk-go"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Options configures the HTTP surface
type Options struct {
	// Referrer is applied to fills that do not name one
	Referrer string
	// DeadlineTTL sets the deadline of fills that do not give one. Zero
	// leaves the exchange default.
	DeadlineTTL time.Duration
	// MaxItems bounds listings plus bids in one request
	MaxItems    int
	CorsOrigins []string
	Pprof       bool

	// Caller serves maker nonce lookups. Nil disables them.
	Caller *chain.Caller

	// Now is the clock used for default deadlines
	Now func() time.Time
}

// Server exposes a Router over HTTP
type Server struct {
	router *nftrouter.Router
	logger *zap.Logger
	opts   Options
	engine *gin.Engine
}

// New builds the gin engine and its routes
func New(router *nftrouter.Router, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(RecoverMiddleware(logger))
	engine.Use(RLog(logger))
	if len(opts.CorsOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CorsOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost},
			AllowHeaders:  []string{"Content-Type", RequestIDHeader},
			ExposeHeaders: []string{RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if opts.Pprof {
		pprof.Register(engine)
	}

	s := &Server{
		router: router,
		logger: logger,
		opts:   opts,
		engine: engine,
	}
	s.initV1Route()
	return s
}

func (s *Server) initV1Route() {
	apiV1 := s.engine.Group("/v1")
	apiV1.GET("/exchanges", s.exchangesHandler)
	apiV1.GET("/nonce/:kind/:maker", s.nonceHandler)

	fill := apiV1.Group("/fill")
	fill.POST("", s.fillHandler(true, true))
	fill.POST("/listings", s.fillHandler(true, false))
	fill.POST("/bids", s.fillHandler(false, true))
	fill.POST("/plan", s.planHandler)
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("nftrouterd listening", zap.String("addr", addr), zap.Int64("chainId", s.router.ChainID()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down")
		}
		return nil
	}
}
