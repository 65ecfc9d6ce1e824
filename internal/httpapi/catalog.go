package httpapi

import (
	"net/http"

	"github.com/xenking/till/internal/domain/product"
)

// productView is a product with its inventory badge.
type productView struct {
	product.Product
	Status product.StockStatus `json:"status"`
}

func viewProduct(p product.Product) productView {
	return productView{Product: p, Status: p.Status()}
}

func viewProducts(ps []product.Product) []productView {
	out := make([]productView, len(ps))
	for i, p := range ps {
		out[i] = viewProduct(p)
	}
	return out
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products := h.term.SearchProducts(q.Get("q"), q.Get("category"))
	writeJSON(w, r, http.StatusOK, viewProducts(products))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.term.Product(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewProduct(p))
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var d product.Draft
	if err := decode(r, &d); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.term.AddProduct(r.Context(), passphrase(r), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, viewProduct(p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var d product.Draft
	if err := decode(r, &d); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.term.UpdateProduct(r.Context(), passphrase(r), id, d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewProduct(p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.term.DeleteProduct(r.Context(), passphrase(r), id, confirmed(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.term.Categories())
}
