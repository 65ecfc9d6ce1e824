package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/xenking/till/internal/domain/settings"
)

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.Settings())
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var s settings.Settings
	if err := decode(r, &s); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.term.SaveSettings(r.Context(), s); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.term.Settings())
}

// exportBackup answers with the backup file, gzip compressed for ?gzip=true.
func (h *Handler) exportBackup(w http.ResponseWriter, r *http.Request) {
	compressed, _ := strconv.ParseBool(r.URL.Query().Get("gzip"))
	e, err := h.term.ExportBackup(r.Context(), passphrase(r), compressed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	contentType := "application/json"
	if compressed {
		contentType = "application/gzip"
	}
	writeFile(w, contentType, e)
}

// importBackup takes the raw backup file, plain or gzip, as the body.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, r, errors.Wrapf(errBadRequest, "read body: %s", err))
		return
	}
	if err := h.term.ImportBackup(r.Context(), data, confirmed(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	e, err := h.term.ExportDailyReport(r.Context(), passphrase(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, "text/plain; charset=utf-8", e)
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	if err := h.term.EndSession(r.Context(), passphrase(r), confirmed(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.term.Reset(r.Context(), passphrase(r), confirmed(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
