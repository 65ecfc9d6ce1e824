package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.Sales())
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.Summary())
}

// daily serves the aggregate of ?day=02Jan2006, today by default.
func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.DailyAggregate(r.URL.Query().Get("day")))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.Dashboard())
}

// receipt serves JSON, or the printable text when the client accepts
// text/plain only.
func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	rc, err := h.term.Receipt(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if accept := r.Header.Get("Accept"); strings.HasPrefix(accept, "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(rc.Text))
		return
	}
	writeJSON(w, r, http.StatusOK, rc)
}
