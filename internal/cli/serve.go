package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/internal/config"
	"github.com/matzehuels/unitconv/pkg/api"
	"github.com/matzehuels/unitconv/pkg/cache"
	"github.com/matzehuels/unitconv/pkg/observability"
	"github.com/matzehuels/unitconv/pkg/pipeline"
	"github.com/matzehuels/unitconv/pkg/session"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Long: `Serve the converter as a JSON API.

The listen address comes from --addr, UNITCONV_SERVER_ADDR or the config
file, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, -1, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	sessions, err := c.newSessionStore(ctx, runner)
	if err != nil {
		return err
	}
	defer sessions.Close()

	installLogHooks(logger)
	defer observability.Reset()

	srv := api.NewServer(runner, sessions, logger)
	srv.SessionTTL = c.Config.Session.TTL
	return srv.ListenAndServe(ctx, addr)
}

// newSessionStore shares the Redis connection with the diagram cache when
// both use Redis.
func (c *CLI) newSessionStore(ctx context.Context, runner *pipeline.Runner) (session.Store, error) {
	if c.Config.Session.Backend != config.BackendRedis {
		return session.NewMemoryStore(), nil
	}
	if rc, ok := runner.Cache.(*cache.RedisCache); ok {
		return session.NewRedisStore(rc.Client(), runner.Keyer, c.Config.Session.TTL), nil
	}
	rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis session store: %w", err)
	}
	return &ownedRedisStore{RedisStore: session.NewRedisStore(rc.Client(), runner.Keyer, c.Config.Session.TTL), conn: rc}, nil
}

// ownedRedisStore closes the connection it was created with.
type ownedRedisStore struct {
	*session.RedisStore
	conn *cache.RedisCache
}

func (s *ownedRedisStore) Close() error { return s.conn.Close() }

// =============================================================================
// Log-backed observability hooks
// =============================================================================

// installLogHooks routes pipeline, cache and HTTP events to logger.
func installLogHooks(logger *log.Logger) {
	observability.SetPipelineHooks(logPipelineHooks{logger})
	observability.SetCacheHooks(logCacheHooks{logger})
	observability.SetHTTPHooks(logHTTPHooks{logger})
}

type logPipelineHooks struct{ logger *log.Logger }

func (h logPipelineHooks) OnConvert(_ context.Context, category, from, to string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("conversion rejected", "category", category, "from", from, "to", to, "error", err)
		return
	}
	h.logger.Debug("conversion", "category", category, "from", from, "to", to, "duration", d)
}

func (h logPipelineHooks) OnDiagramStart(_ context.Context, category, format string) {
	h.logger.Debug("diagram render started", "category", category, "format", format)
}

func (h logPipelineHooks) OnDiagramComplete(_ context.Context, category, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("diagram render failed", "category", category, "format", format, "error", err)
		return
	}
	h.logger.Info("diagram rendered", "category", category, "format", format, "bytes", size, "duration", d)
}

type logCacheHooks struct{ logger *log.Logger }

func (h logCacheHooks) OnCacheHit(_ context.Context, kind string)  { h.logger.Debug("cache hit", "kind", kind) }
func (h logCacheHooks) OnCacheMiss(_ context.Context, kind string) { h.logger.Debug("cache miss", "kind", kind) }
func (h logCacheHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

// logHTTPHooks reports failed requests; successful ones are already logged
// at debug level by the API.
type logHTTPHooks struct{ logger *log.Logger }

func (logHTTPHooks) OnRequest(context.Context, string, string) {}

func (h logHTTPHooks) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	kv := []any{"id", middleware.GetReqID(ctx), "method", method, "path", path, "status", status, "duration", d}
	switch {
	case status >= http.StatusInternalServerError:
		h.logger.Error("request failed", kv...)
	case status >= http.StatusBadRequest:
		h.logger.Warn("request rejected", kv...)
	}
}
