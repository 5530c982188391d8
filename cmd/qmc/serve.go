package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rgonek/quill-md-converter/converter"
	"github.com/rgonek/quill-md-converter/internal/config"
	"github.com/rgonek/quill-md-converter/internal/logging"
	"github.com/rgonek/quill-md-converter/renderer"
	"github.com/rgonek/quill-md-converter/resolver"
	"github.com/rgonek/quill-md-converter/server"
	"github.com/rgonek/quill-md-converter/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, cleanup, err := buildServer(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.Server.Addr) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildServer wires the configured components. cleanup releases the store.
func buildServer(cfg config.Config, log *zap.Logger) (*server.Server, func(), error) {
	conv, err := converter.New(cfg.Converter)
	if err != nil {
		return nil, nil, err
	}

	st, cleanup, err := buildStore(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	res, assets, err := buildResolver(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	rcfg := cfg.RendererFor(res)
	rcfg.Logger = log
	r, err := renderer.New(rcfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	srv, err := server.New(server.Config{
		AllowOrigins:  cfg.Server.AllowOrigins,
		BodyLimit:     cfg.Server.BodyLimit,
		RenderTimeout: cfg.Renderer.RenderTimeout,
	}, server.Deps{
		Converter: conv,
		Renderer:  r,
		Store:     st,
		Resolver:  res,
		Assets:    assets,
		Logger:    log,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return srv, cleanup, nil
}

func buildStore(cfg config.StoreConfig) (store.Store, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "", "file":
		return store.NewFile(cfg.Dir), noop, nil
	case "redis":
		rs, err := store.NewRedisFromURL(cfg.RedisURL, cfg.RedisPrefix, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	case "http":
		return store.NewHTTP(cfg.BaseURL, nil), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func buildResolver(cfg config.Config, log *zap.Logger) (renderer.Resolver, *resolver.Local, error) {
	rc := cfg.Resolver
	cacheTTL := rc.CacheTTL

	var (
		res    renderer.Resolver
		assets *resolver.Local
	)
	switch rc.Backend {
	case "", "local":
		secret := rc.SigningSecret
		if secret == "" {
			secret = uuid.NewString()
			log.Warn("resolver.signingSecret is empty, using a random secret; signed URLs will not survive a restart")
		}
		signer, err := resolver.NewSigner(secret, rc.SignatureTTL)
		if err != nil {
			return nil, nil, err
		}
		assets = resolver.NewLocal(rc.AssetsDir, cfg.Server.BaseURL, signer)
		res = assets
		// Cached URLs must not outlive their signature.
		if rc.SignatureTTL > 0 && cacheTTL >= rc.SignatureTTL {
			cacheTTL = rc.SignatureTTL / 2
		}
	case "http":
		res = resolver.NewHTTP(rc.BaseURL)
	case "static":
		return resolver.NewStatic(rc.URLs), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown resolver backend %q", rc.Backend)
	}

	if cacheTTL > 0 {
		res = resolver.NewCache(res, cacheTTL, 2*cacheTTL)
	}
	return res, assets, nil
}
