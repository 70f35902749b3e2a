// Command socialbridge serves the social login flow backed by Gigya.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/socialbridge/pkg/clientip"
	"github.com/dmitrymomot/socialbridge/pkg/config"
	"github.com/dmitrymomot/socialbridge/pkg/gigya"
	"github.com/dmitrymomot/socialbridge/pkg/httpserver"
	"github.com/dmitrymomot/socialbridge/pkg/logger"
	"github.com/dmitrymomot/socialbridge/pkg/ratelimiter"
	"github.com/dmitrymomot/socialbridge/pkg/redis"
	"github.com/dmitrymomot/socialbridge/pkg/requestid"
	"github.com/dmitrymomot/socialbridge/svc/socialauth"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"socialbridge"`

	// Zero disables the identity cache.
	IdentityCacheSize int           `env:"IDENTITY_CACHE_SIZE" envDefault:"1024"`
	IdentityCacheTTL  time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"1m"`
}

func main() {
	var app appConfig
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), app, log); err != nil {
		log.Error("socialbridge stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, app appConfig, log *slog.Logger) error {
	var (
		gigyaCfg  gigya.Config
		redisCfg  redis.Config
		serverCfg httpserver.Config
		limitCfg  ratelimiter.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&gigyaCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&limitCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := gigya.NewMetrics(reg)
	if err != nil {
		return err
	}

	gw, err := gigya.New(gigyaCfg,
		gigya.WithLogger(log),
		gigya.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	log.Info("identity gateway configured",
		slog.Any("providers", gw.Providers()),
		slog.String("base_url", gigyaCfg.BaseURL),
	)

	users := socialauth.NewRedisUserProvider(rdb)
	auth := socialauth.NewAuthenticator(
		socialauth.NewCachingResolver(gw, app.IdentityCacheSize, app.IdentityCacheTTL),
		socialauth.WithUserProvider(users),
		socialauth.WithLogger(log),
	)

	limiter, err := ratelimiter.New(rdb, limitCfg, "socialbridge:ratelimit:")
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(clientip.Middleware())
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, redis.Healthcheck(rdb)))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/auth", socialauth.NewHandler(gw, auth, log,
		socialauth.WithRefresher(socialauth.NewRefresher(gw, users)),
	).Routes(
		ratelimiter.Middleware(limiter, ratelimiter.ByClientIP, log),
	))

	return httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log)).Run(ctx, r)
}
