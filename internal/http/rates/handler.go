package rates

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
	"github.com/MrJamesThe3rd/arbitra/internal/rates"
)

type Handler struct {
	svc *rates.Service
}

func NewHandler(svc *rates.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{currency}", h.quote)
}

// quote never fails: when no source has a rate the response carries source "none" and a
// zero rate, and the caller keeps whatever the user typed.
func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Quote(r.Context(), chi.URLParam(r, "currency")))
}
