package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/arbitra/internal/auth"
	"github.com/MrJamesThe3rd/arbitra/internal/http/export"
	"github.com/MrJamesThe3rd/arbitra/internal/http/holder"
	"github.com/MrJamesThe3rd/arbitra/internal/http/importcsv"
	"github.com/MrJamesThe3rd/arbitra/internal/http/preview"
	"github.com/MrJamesThe3rd/arbitra/internal/http/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/http/report"
	"github.com/MrJamesThe3rd/arbitra/internal/http/transaction"
)

type Handlers struct {
	Transactions *transaction.Handler
	Calculator   *transaction.Calculator
	Holders      *holder.Handler
	Reports      *report.Handler
	Export       *export.Handler
	Import       *importcsv.Handler
	Rates        *rates.Handler
	Preview      *preview.Handler
}

// New builds the API router. A nil issuer leaves the API open; the link preview under /t is
// always public.
func New(h Handlers, issuer *auth.Issuer, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/t", h.Preview.Routes)

	router.Route("/api/v1", func(r chi.Router) {
		if issuer != nil {
			r.Use(issuer.Authenticate)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/calculate", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Calculator.Routes(r)
		})

		r.Route("/holders", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Holders.Routes(r)
		})

		r.Route("/reports", h.Reports.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})

		r.Route("/import", h.Import.Routes)
		r.Route("/rates", h.Rates.Routes)
	})

	return router
}
