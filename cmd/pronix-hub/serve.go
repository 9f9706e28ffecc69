package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pronix-hub/internal/config"
	"github.com/rpggio/pronix-hub/internal/mcp"
	"github.com/rpggio/pronix-hub/internal/transport"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var mode string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and MCP endpoint (http) or MCP over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			override := func(cfg *config.Config) {
				if mode != "" {
					cfg.Transport.Mode = mode
				}
				if port != 0 {
					cfg.Server.Port = port
				}
			}
			return withApp(cmd, override, func(ctx context.Context, a *app) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				mcpServer := mcp.NewServer(mcp.Config{
					Services:      a.mcpServices(),
					Resolver:      transport.StaticTokens(a.cfg.Auth.Tokens),
					AuthEnabled:   a.cfg.Auth.Enabled,
					TransportMode: a.cfg.Transport.Mode,
					Version:       version,
					Logger:        a.logger,
				})

				if a.cfg.Transport.Mode == config.TransportStdio {
					return runStdioMode(ctx, a.logger, mcpServer)
				}
				return runHTTPMode(ctx, a, mcpServer)
			})
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "transport mode: http or stdio")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port")
	return cmd
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, a *app, mcpServer *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	opts := transport.Options{MCP: mcpHandler, Logger: a.logger, Ready: a.ready}
	if a.cfg.Auth.Enabled {
		opts.Auth = transport.AuthMiddleware(transport.StaticTokens(a.cfg.Auth.Tokens))
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(a.transportServices(), opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", "addr", addr, "auth", a.cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return waitForShutdown(ctx, a.logger, httpServer)
	})
	return g.Wait()
}

func waitForShutdown(ctx context.Context, logger *slog.Logger, server *http.Server) error {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
