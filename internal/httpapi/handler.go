// Package httpapi exposes a pos.Terminal as a JSON API on net/http.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/till/internal/pos"
	"github.com/xenking/till/pkg/httpmiddleware"
)

// PassphraseHeader carries the passphrase of privileged calls.
const PassphraseHeader = "X-Till-Passphrase"

const (
	maxBodyBytes   = 1 << 20
	maxBackupBytes = 64 << 20
)

// Handler serves the terminal API.
type Handler struct {
	term *pos.Terminal
}

// New returns a Handler for term.
func New(term *pos.Terminal) *Handler {
	return &Handler{term: term}
}

// Register mounts every route on mux under /api.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.addProduct)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.deleteProduct)
	mux.HandleFunc("GET /api/categories", h.categories)

	mux.HandleFunc("GET /api/cart", h.cart)
	mux.HandleFunc("POST /api/cart/lines", h.addLine)
	mux.HandleFunc("PUT /api/cart/lines/{id}", h.setLine)
	mux.HandleFunc("DELETE /api/cart/lines/{id}", h.removeLine)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("POST /api/checkout", h.checkout)

	mux.HandleFunc("GET /api/sales", h.sales)
	mux.HandleFunc("GET /api/sales/summary", h.summary)
	mux.HandleFunc("GET /api/sales/daily", h.daily)
	mux.HandleFunc("GET /api/sales/{id}/receipt", h.receipt)
	mux.HandleFunc("GET /api/dashboard", h.dashboard)

	mux.HandleFunc("GET /api/settings", h.settings)
	mux.HandleFunc("PUT /api/settings", h.saveSettings)
	mux.HandleFunc("POST /api/backup/export", h.exportBackup)
	mux.HandleFunc("POST /api/backup/import", h.importBackup)
	mux.HandleFunc("POST /api/reports/daily", h.exportReport)
	mux.HandleFunc("POST /api/session/end", h.endSession)
	mux.HandleFunc("POST /api/reset", h.reset)
}

// errBadRequest marks malformed requests.
var errBadRequest = errors.New("bad request")

func passphrase(r *http.Request) string {
	return r.Header.Get(PassphraseHeader)
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errBadRequest, "invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	d := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	d.DisallowUnknownFields()
	if err := d.Decode(v); err != nil {
		return errors.Wrapf(errBadRequest, "decode body: %s", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Debug("Write response", zap.Error(err))
	}
}

func writeFile(w http.ResponseWriter, contentType string, e pos.Export) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+e.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(e.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, reason := classify(err)
	if status >= http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		httpmiddleware.WriteErrorReason(w, status, reason, "internal error")
		return
	}
	httpmiddleware.WriteErrorReason(w, status, reason, err.Error())
}
