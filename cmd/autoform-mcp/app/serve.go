package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/slovensko-digital/autoform-mcp-server/internal/autoform"
	"github.com/slovensko-digital/autoform-mcp-server/internal/config"
	logpkg "github.com/slovensko-digital/autoform-mcp-server/internal/logger"
	"github.com/slovensko-digital/autoform-mcp-server/internal/metrics"
	"github.com/slovensko-digital/autoform-mcp-server/internal/server"
	"github.com/slovensko-digital/autoform-mcp-server/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Autoform MCP server",
	Long: `Start the Autoform MCP server.

The stdio transport (default) speaks JSON-RPC on stdin/stdout for clients
that spawn the server as a subprocess. The http transport serves the MCP
streamable HTTP endpoint at /mcp, plus /health and /metrics.

The access token for the upstream registry is resolved per call from the
Authorization: Bearer header, the x-autoform-private-access-token header,
or the AUTOFORM_PRIVATE_ACCESS_TOKEN environment variable, in that order.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 60 * time.Second // streaming responses can outlive a request timeout
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("transport", "stdio", "Transport type (stdio or http)")
	serveCmd.Flags().String("address", config.DefaultAddress, "Address to listen on (http transport)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, optional)")

	for _, flag := range []string{"transport", "address", "config"} {
		if err := viper.BindPFlag(flag, serveCmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
		}
	}
}

// newServeLogger builds the JSON logger for the server process. Logs go to
// stderr so the stdio transport keeps stdout for protocol data.
func newServeLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logpkg.NewLogger(true, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// loadConfig loads the optional YAML configuration file named by the
// --config flag.
func loadConfig() (*config.Config, error) {
	var opts []config.Option
	if path := viper.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	return config.LoadConfig(opts...)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newServeLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	info := version.GetInfo()
	mcpSrv := server.New(server.Options{
		Endpoint: cfg.GetEndpoint(),
		Timeout:  cfg.GetTimeout(),
		Version:  info.Version,
		Logger:   logger,
	})

	transport := viper.GetString("transport")
	switch transport {
	case "stdio":
		logger.Info("starting Autoform MCP server on stdio",
			zap.String("version", info.Version))
		if err := mcpserver.ServeStdio(mcpSrv); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server error: %w", err)
		}
		return nil
	case "http":
		return serveHTTP(mcpSrv, listenAddress(cmd.Flags(), cfg), logger)
	default:
		return fmt.Errorf("unknown transport %q, expected stdio or http", transport)
	}
}

// listenAddress picks the HTTP listen address. An --address flag the caller
// actually set wins over the configuration file; the flag's default never
// shadows a configured value.
func listenAddress(flags *pflag.FlagSet, cfg *config.Config) string {
	if flags.Changed("address") {
		address, _ := flags.GetString("address")
		return address
	}
	return cfg.GetAddress()
}

func serveHTTP(mcpSrv *mcpserver.MCPServer, address string, logger *zap.Logger) error {
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return autoform.WithRequestContext(ctx, autoform.RequestContextFromHeader(r.Header))
		}),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(loggingMiddleware(logger))

	r.Handle("/mcp", streamable)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         address,
		Handler:      r,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting Autoform MCP server on http",
			zap.String("address", address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
