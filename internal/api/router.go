package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JMousqueton/api.ransomware.live/internal/middleware"
	"github.com/JMousqueton/api.ransomware.live/internal/ratelimit"
)

// Router builds the HTTP router. Every data route sits behind its own rate
// limit window; /health does not. Unknown paths redirect to the public
// documentation.
func (a *API) Router(limiter *ratelimit.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(a.logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limited := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimit(limiter, route, a.logger)(h).ServeHTTP
	}

	r.Get("/health", a.handleHealth)

	r.Get("/recentvictims", limited("recentvictims", a.handleRecentVictims))
	r.Get("/groups", limited("groups", a.handleGroups))
	r.Get("/group/{name}", limited("group", a.handleGroup))
	r.Get("/victims/{year}", limited("victims", a.handleVictimsByPeriod))
	r.Get("/victims/{year}/{month}", limited("victims", a.handleVictimsByPeriod))
	r.Get("/groupvictims/{name}", limited("groupvictims", a.handleGroupVictims))
	r.Get("/recentcyberattacks", limited("recentcyberattacks", a.handleRecentCyberattacks))
	r.Get("/allcyberattacks", limited("allcyberattacks", a.handleAllCyberattacks))
	r.Get("/country/{id}", limited("country", a.handleCountry))
	r.Get("/countryattacks/{code}", limited("countryattacks", a.handleCountryAttacks))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, a.cfg.DocsURL, http.StatusFound)
	})

	return r
}
