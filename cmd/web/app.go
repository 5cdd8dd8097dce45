package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/cms"
	"finitefield.org/storefront-web/internal/config"
	"finitefield.org/storefront-web/internal/i18n"
	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/platform/observability"
	"finitefield.org/storefront-web/internal/status"
	"finitefield.org/storefront-web/public"
)

// app carries the dependencies shared by every handler.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	bundle    *i18n.Bundle
	loader    *catalog.Loader
	templates *templateLoader
	assets    fs.FS
	status    *status.Prober
}

func newApp(cfg config.Config, logger *zap.Logger, bundle *i18n.Bundle, client *cms.Client) (*app, error) {
	assets, err := public.AssetsFS()
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	tl, err := newTemplateLoader(cfg.Server, bundle)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	prober := status.NewProber(status.WithCheckTimeout(cfg.CMS.Timeout))
	prober.Register("cms", client.Ping)
	prober.Register("templates", func(context.Context) error {
		_, err := tl.get()
		return err
	})
	return &app{
		cfg:       cfg,
		logger:    logger,
		bundle:    bundle,
		loader:    catalog.NewLoader(client),
		templates: tl,
		assets:    assets,
		status:    prober,
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(observability.RecoveryMiddleware(a.logger))
	r.Use(observability.TraceMiddleware())
	r.Use(observability.InjectLoggerMiddleware(a.logger))
	r.Use(observability.RequestLoggerMiddleware())
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(mw.HTMX)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/readyz", a.status.Handler())
	r.Handle("/metrics", observability.MetricsHandler())

	// Static assets under /assets/
	r.Handle("/assets/*", mw.AssetsWithCache(a.assets, "/assets"))

	r.Group(func(r chi.Router) {
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.VaryLocale)

		r.Get("/", a.HomeHandler)
		r.Get("/store", a.StoreHandler)
		r.With(mw.FragmentOnly(storeFallback)).Get("/store/categories", a.StorePickerFrag)
		r.Get("/category/{slug}", a.ProductHandler)
		r.With(mw.FragmentOnly(productFallback)).Get("/category/{slug}/gallery", a.ProductGalleryFrag)
		r.With(mw.FragmentOnly(navFallback)).Get("/nav", a.NavFrag)
		r.NotFound(a.NotFoundHandler)
	})
	return r
}
