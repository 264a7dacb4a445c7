package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/congo-pay/congo_chain/internal/config"
	"github.com/congo-pay/congo_chain/internal/diagnostics"
	"github.com/congo-pay/congo_chain/internal/genesis"
	"github.com/congo-pay/congo_chain/internal/infra"
	"github.com/congo-pay/congo_chain/internal/logging"
	"github.com/congo-pay/congo_chain/internal/node"
	"github.com/congo-pay/congo_chain/internal/server"
)

const diagnosticsMaxLen = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	g, err := genesis.Load(cfg.GenesisFile)
	if err != nil {
		logger.Error("load genesis", "error", err)
		os.Exit(1)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	clients, err := infra.Open(connectCtx, cfg.DatabaseURL, cfg.RedisURL)
	cancelConnect()
	if err != nil {
		logger.Error("connect backends", "error", err)
		os.Exit(1)
	}
	defer clients.Close(logger)

	sinks := diagnostics.Fanout{diagnostics.NewLoggerSink(logger)}
	if clients.Cache != nil {
		sinks = append(sinks, diagnostics.NewRedisSink(clients.Cache, cfg.DiagnosticsStream, diagnosticsMaxLen))
	}
	if clients.DB != nil {
		pg := diagnostics.NewPostgresSink(clients.DB)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Error("prepare diagnostics table", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pg)
	}

	svc := node.NewService(g, sinks, logger)
	logger.Info("node ready",
		"genesis_accounts", len(g.Balances),
		"postgres", clients.DB != nil,
		"redis", clients.Cache != nil,
	)

	srv, err := server.New(cfg, clients, svc, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly", "block_number", svc.Head())
}
