// Package preview serves the public link preview of a transaction: a small HTML page carrying
// Open Graph tags for chat apps that unfurl links, which sends browsers on to the record in the
// web app.
package preview

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

var page = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="og:type" content="website">
<meta property="og:site_name" content="{{.SiteName}}">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:url" content="{{.URL}}">
<meta name="twitter:card" content="summary">
<meta http-equiv="refresh" content="0; url={{.URL}}">
</head>
<body>
<p>{{.Description}}</p>
<p><a href="{{.URL}}">Open {{.Title}}</a></p>
</body>
</html>
`))

type pageData struct {
	SiteName    string
	Title       string
	Description string
	URL         string
}

type Handler struct {
	svc       *transaction.Service
	siteName  string
	publicURL string
}

func NewHandler(svc *transaction.Service, siteName, publicURL string) *Handler {
	return &Handler{
		svc:       svc,
		siteName:  siteName,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{displayID}", h.preview)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetByDisplayID(r.Context(), chi.URLParam(r, "displayID"))
	if err != nil {
		if transaction.KindOf(err) == transaction.KindNotFound {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		slog.Error("failed to load preview", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	data := pageData{
		SiteName:    h.siteName,
		Title:       "Trade " + rec.DisplayID(),
		Description: describe(rec),
		URL:         fmt.Sprintf("%s/transactions/%s", h.publicURL, rec.ID),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := page.Execute(w, data); err != nil {
		slog.Error("failed to render preview", "error", err)
	}
}

// describe summarizes a record for the preview card. Private records reveal only their status.
func describe(r *transaction.Record) string {
	status := strings.ReplaceAll(string(r.Status), "_", " ")

	if r.IsPrivate {
		return "Private trade, " + status
	}

	l := transaction.LineFor(r)

	return fmt.Sprintf("%s for %s at %s. Profit %s, %s.",
		money.Format(r.FiatAmount, string(r.FiatCurrency)),
		money.Format(r.UsdtAmount, money.USDT),
		r.UsdtRate.String(),
		money.Signed(l.Profit, money.LYD),
		status,
	)
}
