package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/arbitra/internal/export"
	"github.com/MrJamesThe3rd/arbitra/internal/http/report"
	"github.com/MrJamesThe3rd/arbitra/internal/http/respond"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportMetadataResponse struct {
	Summary  report.SummaryResponse `json:"summary"`
	Trades   int                    `json:"trades"`
	Markdown string                 `json:"markdown"`
}

// readReport decodes the filter from the request body and runs the export. An empty body
// exports everything.
func (h *Handler) readReport(w http.ResponseWriter, r *http.Request) (*export.Report, bool) {
	var filter transaction.ListFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil && err != io.EOF {
		respond.BadRequest(w, "invalid request body: "+err.Error())
		return nil, false
	}

	rep, err := h.svc.Export(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return nil, false
	}

	return rep, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.readReport(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, exportMetadataResponse{
		Summary:  report.ToSummaryResponse(rep.Summary),
		Trades:   len(rep.Lines),
		Markdown: export.Markdown(rep),
	})
}

// download streams the ledger as CSV, or as a zip with the CSV and the markdown report when
// format=zip.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	if format != "csv" && format != "zip" {
		respond.BadRequest(w, fmt.Sprintf("unknown format %q", format))
		return
	}

	rep, ok := h.readReport(w, r)
	if !ok {
		return
	}

	stamp := rep.GeneratedAt.Format("20060102")

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.csv\"", stamp))

		if err := export.WriteCSV(w, rep.Lines); err != nil {
			slog.Error("failed to write csv", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"export_%s.zip\"", stamp))

	if err := export.WriteZip(w, rep); err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
