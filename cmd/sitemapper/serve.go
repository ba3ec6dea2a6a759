package main

import (
	"net/http"

	sitemapperhttp "github.com/fwojciec/sitemapper/http"
	"golang.org/x/time/rate"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	return newServer(deps).Run(deps.Ctx)
}

func newServer(deps *Dependencies) *sitemapperhttp.Server {
	cfg := deps.Config

	srv := &sitemapperhttp.Server{
		Addr:          cfg.Addr,
		Generator:     deps.Generator,
		Sitemaps:      deps.Sitemaps,
		AllowedOrigin: cfg.FrontendURL,
		Logger:        deps.Logger,
	}
	if cfg.RateLimit > 0 {
		srv.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	if deps.Metrics != nil {
		srv.Metrics = deps.Metrics.Handler()
		srv.Middleware = []func(http.Handler) http.Handler{deps.Metrics.Middleware}
	}
	return srv
}
