package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"portfolio-edge/flags"
	"portfolio-edge/logging"
	"portfolio-edge/middleware/edgegate"
	"portfolio-edge/middleware/edgegate/domain"
	"portfolio-edge/middleware/edgegate/infra"
	"portfolio-edge/vitals"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		bootLogger := logging.New(nil, "portfolio-edge", "")
		bootLogger.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(nil, cfg.serviceName, string(cfg.mode))

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid UPSTREAM_URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	store := infra.NewWindowStore(cfg.rateCapacity, cfg.rateWindow)
	vitalsStore := infra.NewBucketStore(cfg.vitalsRPS, cfg.vitalsBurst)

	var statsStore domain.StatsStore
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("redis stats ping error")
		}

		statsStore = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackKeys(cfg.statsTrackKeys),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartJanitor(ctx)
	vitalsStore.StartJanitor(ctx)

	resolver := flags.NewResolver(cfg.mode, cfg.featureFlags)

	pages := http.Handler(proxy)
	pages = edgegate.ConcurrencyMiddleware(edgegate.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	})(pages)

	mux := http.NewServeMux()
	mux.Handle("/api/vitals", &vitals.Handler{
		Logger: logger,
		Store:  vitalsStore,
		Stats:  statsStore,
	})
	mux.HandleFunc("/api/flags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resolver.Snapshot())
	})
	mux.Handle("/", pages)

	h := edgegate.Middleware(edgegate.Options{
		Store:       store,
		Stats:       statsStore,
		Logger:      logger,
		Mode:        cfg.mode,
		Service:     cfg.serviceName,
		AssetPrefix: cfg.assetPrefix,
		APIPrefix:   cfg.apiPrefix,
		RetryAfter:  cfg.rateWindow,
	})(mux)

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Msgf("edge listening on %s -> %s", cfg.listenAddr, target)
	logger.Info().Msgf("rate: mode=%s capacity=%d window=%s assetPrefix=%q apiPrefix=%q", cfg.mode, cfg.rateCapacity, cfg.rateWindow, cfg.assetPrefix, cfg.apiPrefix)
	logger.Info().Msgf("stats: enabled=%v redisAddr=%q bucket=%q ttl=%s trackKeys=%v", cfg.statsEnabled, cfg.statsRedisAddr, cfg.statsBucket, cfg.statsTTL, cfg.statsTrackKeys)
	logger.Info().Msgf("vitals: rps=%.3f burst=%d | concurrency: max=%d acquireTimeout=%s", cfg.vitalsRPS, cfg.vitalsBurst, cfg.concurrencyMax, cfg.concurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}

type config struct {
	listenAddr  string
	upstreamURL string
	serviceName string
	mode        edgegate.Mode

	rateCapacity int
	rateWindow   time.Duration
	assetPrefix  string
	apiPrefix    string

	concurrencyMax     int
	concurrencyTimeout time.Duration

	vitalsRPS   float64
	vitalsBurst int

	featureFlags string

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackKeys     bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.serviceName = getenvDefault("SERVICE_NAME", "portfolio-edge")
	cfg.mode = edgegate.ParseMode(getenvDefault("APP_ENV", "development"))

	// IMPORTANTE: em test a capacidade padrão sobe para 200 para que suítes
	// de integração disparando rajadas não sejam limitadas por acidente.
	// O 200 é margem de segurança arbitrária, não regra de negócio; quem quiser
	// outro teto define RATE_CAPACITY explicitamente.
	if capacity, ok := getenvInt("RATE_CAPACITY"); ok {
		cfg.rateCapacity = capacity
	} else {
		cfg.rateCapacity = 60
		if cfg.mode == edgegate.ModeTest {
			cfg.rateCapacity = 200
		}
	}
	cfg.rateWindow = getenvDurationDefault("RATE_WINDOW", edgegate.DefaultWindow)
	cfg.assetPrefix = getenvDefault("ASSET_PREFIX", edgegate.DefaultAssetPrefix)
	cfg.apiPrefix = getenvDefault("API_PREFIX", edgegate.DefaultAPIPrefix)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.vitalsRPS = getenvFloatDefault("VITALS_RPS", 5)
	cfg.vitalsBurst = getenvIntDefault("VITALS_BURST", 10)

	cfg.featureFlags = os.Getenv("FEATURE_FLAGS")

	cfg.statsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.statsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("RATE_STATS_PREFIX", "edgegate:stats")
	cfg.statsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.statsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	if cfg.upstreamURL == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	if cfg.rateCapacity <= 0 {
		return config{}, errors.New("RATE_CAPACITY must be > 0")
	}
	if cfg.rateWindow <= 0 {
		return config{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.vitalsRPS <= 0 {
		return config{}, errors.New("VITALS_RPS must be > 0")
	}
	if cfg.vitalsBurst <= 0 {
		return config{}, errors.New("VITALS_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
