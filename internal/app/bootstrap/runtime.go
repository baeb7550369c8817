package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/lead-intake/internal/config"
	"github.com/wolfman30/lead-intake/internal/leads"
	"github.com/wolfman30/lead-intake/internal/notify"
	"github.com/wolfman30/lead-intake/internal/observability/metrics"
	"github.com/wolfman30/lead-intake/pkg/logging"
)

const connectTimeout = 5 * time.Second

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not available, in-flight guard disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// ConnectPostgres opens a pgx pool for the leads table. An empty or unparseable URL
// returns nil, which disables counting and storage. The pool connects lazily, so a
// failed startup ping is only logged; per-request store errors fail open.
func ConnectPostgres(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Warn("postgres not reachable at startup, will retry per request", "error", err)
	}
	return pool
}

// Runtime is the wired lead handler plus the clients it owns.
type Runtime struct {
	Handler *leads.Handler
	Pool    *pgxpool.Pool
	Redis   *redis.Client
}

// Close releases the pool and Redis client.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
}

// BuildLeadHandler wires the notifier, stores and guard from configuration.
// Every collaborator is optional; the handler reports what is missing at request time.
func BuildLeadHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, leadMetrics *metrics.LeadMetrics) *Runtime {
	if cfg == nil {
		cfg = appconfig.Load()
	}
	if logger == nil {
		logger = logging.Default()
	}

	deps := leads.Deps{
		Metrics: leadMetrics,
		Logger:  logger,
	}

	if cfg.TelegramConfigured() {
		deps.Notifier = notify.NewTelegramNotifier(notify.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			APIBase:  cfg.TelegramAPIBase,
			Timeout:  cfg.TelegramTimeout,
		}, logger)
	} else {
		logger.Warn("telegram credentials missing, submissions will be rejected")
	}

	rt := &Runtime{}
	if pool := ConnectPostgres(ctx, cfg.DatabaseURL, logger); pool != nil {
		repo := leads.NewPostgresRepository(pool)
		deps.RateLimits = repo
		deps.Records = repo
		rt.Pool = pool
	} else {
		logger.Warn("database not configured, leads are neither counted nor stored")
	}

	if rdb := BuildRedisClient(ctx, cfg, logger, true); rdb != nil {
		deps.Guard = leads.NewRedisAddressGuard(rdb, cfg.InflightTTL)
		rt.Redis = rdb
	}

	rt.Handler = leads.NewHandler(leads.Config{MaxLeadsPerAddress: cfg.MaxLeadsPerAddress}, deps)
	return rt
}
