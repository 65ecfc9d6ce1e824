package httpapi

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/till/internal/backup"
	"github.com/xenking/till/internal/domain/cart"
	"github.com/xenking/till/internal/domain/checkout"
	"github.com/xenking/till/internal/domain/product"
	"github.com/xenking/till/internal/domain/settings"
	"github.com/xenking/till/internal/gate"
	"github.com/xenking/till/internal/pos"
	"github.com/xenking/till/internal/report"
)

// classify maps domain errors to a status code and a stable reason.
func classify(err error) (int, string) {
	var ve *product.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, "validation"
	}

	for _, m := range []struct {
		target error
		status int
		reason string
	}{
		{errBadRequest, http.StatusBadRequest, "bad_request"},
		{backup.ErrInvalidFileFormat, http.StatusBadRequest, "invalid_file_format"},
		{gate.ErrIncorrectCredential, http.StatusForbidden, "incorrect_credential"},
		{product.ErrNotFound, http.StatusNotFound, "product_not_found"},
		{pos.ErrSaleNotFound, http.StatusNotFound, "sale_not_found"},
		{report.ErrNoSales, http.StatusNotFound, "no_sales"},
		{pos.ErrConfirmationRequired, http.StatusConflict, "confirmation_required"},
		{pos.ErrExportRequired, http.StatusConflict, "export_required"},
		{cart.ErrOutOfStock, http.StatusUnprocessableEntity, "out_of_stock"},
		{cart.ErrInsufficientStock, http.StatusUnprocessableEntity, "insufficient_stock"},
		{checkout.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
		{checkout.ErrInsufficientPayment, http.StatusUnprocessableEntity, "insufficient_payment"},
		{checkout.ErrUnsupportedPaymentMethod, http.StatusUnprocessableEntity, "unsupported_payment_method"},
		{settings.ErrInvalid, http.StatusUnprocessableEntity, "invalid_settings"},
	} {
		if errors.Is(err, m.target) {
			return m.status, m.reason
		}
	}
	return http.StatusInternalServerError, ""
}
