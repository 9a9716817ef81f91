package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"looks/internal/assetcache"
	"looks/internal/http/handlers"
	"looks/internal/infra"
	"looks/internal/middleware"
)

// Options carries everything the router needs beyond the handlers.
type Options struct {
	Logger             infra.Logger
	DefaultLocale      string
	CountryLookup      middleware.CountryLookup
	RateLimitPerMinute int
	Assets             *assetcache.Cache
}

// NewRouter wires the middleware chain and routes. The rate limiter only
// guards /generate; analytics writes and static reads stay cheap.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger.With().Str("component", "http").Logger()),
		middleware.CORS,
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/health", app.Health)
	r.Get("/styles-data.json", app.Styles)
	r.Post("/log_event", app.LogEvent)
	r.Get("/get_analytics", app.GetAnalytics)

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			limiter := middleware.NewRateLimiter(
				rate.Limit(float64(opts.RateLimitPerMinute)/60.0), opts.RateLimitPerMinute)
			r.Use(limiter.Middleware)
		}
		r.Post("/generate", app.Generate)
	})

	if opts.Assets != nil {
		r.NotFound(opts.Assets.ServeHTTP)
	}

	return r
}
