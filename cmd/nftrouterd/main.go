package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	nftrouter "github.com/kaifufi/nft-router-sdk-go"
	"github.com/kaifufi/nft-router-sdk-go/chain"
	"github.com/kaifufi/nft-router-sdk-go/internal/config"
	"github.com/kaifufi/nft-router-sdk-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(c config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func main() {
	conf := flag.String("conf", "", "conf file path (TOML); empty reads NFTROUTER_ environment variables only")
	flag.Parse()

	c, err := config.UnmarshalConfig(*conf)
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(c.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	overrides, err := c.Overrides()
	if err != nil {
		logger.Fatal("invalid address overrides", zap.Error(err))
	}
	router, err := nftrouter.NewRouter(nftrouter.RouterConfig{
		ChainID:          c.ChainID,
		AddressOverrides: overrides,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("failed to create router", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var caller *chain.Caller
	if c.RPCURL != "" {
		caller, err = chain.DialCaller(ctx, c.RPCURL)
		if err != nil {
			logger.Fatal("failed to dial rpc", zap.Error(err))
		}
		defer caller.Close()
	}

	kinds := make([]string, 0)
	for _, kind := range router.Kinds() {
		kinds = append(kinds, kind.String())
	}
	logger.Info("router ready", zap.Int64("chainId", c.ChainID), zap.Strings("exchanges", kinds), zap.Bool("nonces", caller != nil))

	srv := server.New(router, logger, server.Options{
		Referrer:    c.Referrer,
		DeadlineTTL: c.DeadlineTTL,
		MaxItems:    c.Api.MaxItems,
		CorsOrigins: c.Api.CorsOrigins,
		Pprof:       c.Api.Pprof,
		Caller:      caller,
	})
	if err := srv.Run(ctx, c.Api.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
