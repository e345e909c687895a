// CineCache - Movie Metadata Enrichment Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecache

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinecache/internal/middleware"
)

// Router builds the HTTP route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// Setup configures all routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	h := router.handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/health", h.Health)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", h.BrowseMovies)
			r.Get("/search", h.SearchMovies)
			r.Get("/lists/{name}", h.TopList)
			r.Get("/decade/{year}", h.MoviesByDecade)
			r.Get("/{id}", h.MovieDetails)
		})

		r.Get("/actors/{id}", h.ActorDetails)

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", h.ListGenres)
			r.Get("/popular", h.PopularGenres)
			r.Get("/{name}", h.MoviesByGenre)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/genres", h.AnalyticsGenres)
			r.Get("/decades", h.AnalyticsDecades)
			r.Get("/best-per-decade", h.AnalyticsBestPerDecade)
			r.Get("/title-words", h.AnalyticsTitleWords)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.ListFavorites)
			r.Post("/toggle", h.ToggleFavorite)
		})

		r.Get("/recommendations", h.Recommendations)
	})

	return r
}
