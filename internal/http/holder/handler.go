package holder

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
)

type Handler struct {
	svc *holder.Service
}

func NewHandler(svc *holder.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type holderResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsInvestor bool      `json:"is_investor"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func toResponse(h *holder.Holder) holderResponse {
	return holderResponse{
		ID:         h.ID,
		Name:       h.Name,
		IsInvestor: h.IsInvestor,
		CreatedBy:  h.CreatedBy,
		CreatedAt:  h.CreatedAt,
	}
}

type createHolderRequest struct {
	Name       string `json:"name"`
	IsInvestor bool   `json:"is_investor"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := h.svc.Create(r.Context(), holder.CreateParams{
		Name:       req.Name,
		IsInvestor: req.IsInvestor,
		CreatedBy:  audit.ActorFrom(r.Context()),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	holders, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]holderResponse, len(holders))
	for i, hl := range holders {
		resp[i] = toResponse(hl)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(found))
}

type updateHolderRequest struct {
	Name       *string `json:"name,omitempty"`
	IsInvestor *bool   `json:"is_investor,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	var req updateHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.svc.Update(r.Context(), id, holder.UpdateParams{
		Name:       req.Name,
		IsInvestor: req.IsInvestor,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
