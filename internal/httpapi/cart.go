package httpapi

import (
	"net/http"

	"github.com/xenking/till/internal/domain/checkout"
)

type addLineRequest struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}

type setLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) cart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.Cart())
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.term.AddToCart(req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *Handler) setLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setLineRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.term.SetQuantity(id, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.term.RemoveFromCart(id))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.term.ClearCart(confirmed(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var p checkout.Payment
	if err := decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	receipt, err := h.term.Checkout(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, receipt)
}
