package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/base"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/credentials"
	"github.com/olgasafonova/ghost-content-mcp-server/internal/ghost"
	"github.com/olgasafonova/ghost-content-mcp-server/metrics"
	"github.com/olgasafonova/ghost-content-mcp-server/tools"
	"github.com/olgasafonova/ghost-content-mcp-server/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const instructions = `Ghost Content MCP Server provides read-only access to a Ghost site's Content API.

Tools: browse_posts, read_post_by_id, read_post_by_slug, browse_authors,
read_author_by_id, read_author_by_slug, browse_tags, read_tag_by_id,
read_tag_by_slug, browse_pages, read_page_by_id, read_page_by_slug,
browse_tiers, browse_settings.

Results are the Ghost API's JSON responses, unmodified. Failures come back as
error results describing the HTTP status and Ghost's error message.

Configure via environment variables:
- GHOST_ADMIN_DOMAIN: Site domain (e.g., demo.ghost.io)
- GHOST_CONTENT_API_KEY: Content API key from a custom integration
- GHOST_API_VERSION: Accept-Version header (default v5.0)`

func runServe(cmd *cobra.Command, opts *serveOptions) (err error) {
	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	defer recoverPanicAsError(logger, "serve", &err)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	config, err := ghost.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	clientOpts := append(config.Options(), base.WithLogger(logger))
	client := ghost.NewClient(credentialProvider(opts.credentialsFile), clientOpts...)
	defer client.Close()

	server := newMCPServer(client, logger)

	logger.Info("Starting Ghost Content MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"transport", opts.transport,
		"timeout", config.Timeout,
	)

	switch opts.transport {
	case "stdio":
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case "http":
		return serveHTTP(ctx, server, client, logger, opts)
	default:
		return fmt.Errorf("unknown transport %q: use stdio or http", opts.transport)
	}
}

// credentialProvider reads the environment, falling back to a YAML file
// for any setting the environment leaves empty.
func credentialProvider(file string) credentials.Provider {
	if file == "" {
		return credentials.EnvProvider{}
	}
	return credentials.ChainProvider{
		credentials.EnvProvider{},
		credentials.FileProvider{Path: file},
	}
}

func newMCPServer(client *ghost.Client, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: instructions,
	})
	tools.NewHandlerRegistry(client, logger).RegisterAll(server)
	return server
}

// newHTTPHandler mounts the MCP endpoint, Prometheus metrics and a health check.
func newHTTPHandler(client *ghost.Client, mcpHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(client))
	return instrumentHTTP(mux)
}

func serveHTTP(ctx context.Context, server *mcp.Server, client *ghost.Client, logger *slog.Logger, opts *serveOptions) error {
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	security := NewSecurityMiddleware(mcpHandler, logger, SecurityConfig{
		BearerToken:    opts.authToken,
		AllowedOrigins: opts.allowedOrigins,
		RateLimit:      opts.rateLimit,
		MaxBodySize:    opts.maxBodySize,
	})
	defer security.Close()

	if opts.authToken == "" {
		logger.Warn("HTTP transport running without authentication; set --auth-token or MCP_AUTH_TOKEN")
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newHTTPHandler(client, security),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP transport listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shutting down HTTP transport")
	return srv.Shutdown(shutdownCtx)
}

// healthResponse is served on /health.
type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Credentials string `json:"credentials"`
	Circuit     string `json:"circuit"`
}

func healthHandler(client *ghost.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:      "ok",
			Version:     ServerVersion,
			Credentials: client.CredentialState().String(),
			Circuit:     client.CircuitBreakerStats().State,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// statusRecorder captures the response status for metrics. It forwards
// Flush so streamed MCP responses keep working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrumentHTTP records request counts and latency per method and route.
func instrumentHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, routeLabel(r.URL.Path)).Observe(time.Since(start).Seconds())
	})
}

// routeLabel bounds the path label to the mounted routes.
func routeLabel(path string) string {
	switch path {
	case "/mcp", "/metrics", "/health":
		return path
	}
	return "other"
}
