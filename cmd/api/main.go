package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"looks/internal/analytics"
	"looks/internal/assetcache"
	"looks/internal/catalog"
	"looks/internal/http/handlers"
	httpapi "looks/internal/http/httpapi"
	"looks/internal/infra"
	"looks/internal/infra/geoip"
	"looks/internal/kv"
	"looks/internal/middleware"
	"looks/internal/providers/genai"
	"looks/internal/providers/image"
	"looks/internal/providers/replicate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open analytics store")
	}
	defer cleanup()

	styles, err := catalog.Load(cfg.StylesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.StylesPath).Msg("failed to load style catalog")
	}
	logger.Info().Int("styles", styles.Len()).Msg("style catalog loaded")

	assets := assetcache.New(cfg.StaticDir, logger)
	if err := assets.Precache(assetcache.PrecacheManifest); err != nil {
		logger.Fatal().Err(err).Msg("failed to precache static assets")
	}

	var countryLookup middleware.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	generators, err := buildGenerators(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure generation providers")
	}
	if _, ok := generators[cfg.Provider]; !ok {
		logger.Fatal().Str("provider", cfg.Provider).Msg("unknown generation provider")
	}

	app := &handlers.App{
		Logger:            logger,
		Analytics:         analytics.NewService(store, logger),
		Generators:        generators,
		DefaultProvider:   cfg.Provider,
		Catalog:           styles,
		AdminPassword:     cfg.AdminPassword,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:             logger,
		DefaultLocale:      cfg.DefaultLocale,
		CountryLookup:      countryLookup,
		RateLimitPerMinute: cfg.RateLimitPerMin,
		Assets:             assets,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg *infra.Config) (kv.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return kv.NewMemory(), func() {}, nil
	case "sqlite":
		db, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case "postgres":
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := kv.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return nil, nil, errUnknownStoreDriver(cfg.StoreDriver)
	}
}

type errUnknownStoreDriver string

func (e errUnknownStoreDriver) Error() string {
	return "unknown store driver: " + string(e)
}

func buildGenerators(cfg *infra.Config, logger *infra.Logger) (map[string]image.Generator, error) {
	generators := make(map[string]image.Generator)

	replicateClient, err := replicate.NewClient(replicate.Options{
		APIToken:        cfg.ReplicateAPIToken,
		BaseURL:         cfg.ReplicateBaseURL,
		Version:         cfg.ReplicateModel,
		Logger:          logger,
		PollInterval:    cfg.PollInterval,
		MaxPollAttempts: cfg.PollMaxAttempts,
	})
	if err != nil {
		return nil, err
	}
	generators["replicate"] = image.NewReplicateGenerator(replicateClient)

	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	generators["gemini"] = image.NewGeminiGenerator(geminiClient)

	generators["synthetic"] = image.NewSyntheticGenerator()

	return generators, nil
}
