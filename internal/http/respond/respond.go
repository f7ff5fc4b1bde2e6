// Package respond writes JSON responses and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// BadRequest is for requests that could not be decoded at all.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// Error maps err to a status: rejected input is 422, missing records 404 and anything else
// is a store failure, logged and reported as 500 without details.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, holder.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, holder.ErrDuplicateName), errors.Is(err, holder.ErrEmptyName):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	switch transaction.KindOf(err) {
	case transaction.KindValidation:
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case transaction.KindNotFound:
		JSON(w, http.StatusNotFound, errorResponse{Error: transaction.ErrNotFound.Error()})
	default:
		slog.Error("request failed", "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
