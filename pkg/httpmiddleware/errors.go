package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/jx"
)

// WriteError writes a JSON error body {"code": status, "message": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteErrorReason(w, status, "", message)
}

// WriteErrorReason is WriteError with a machine-readable reason, omitted
// when empty.
func WriteErrorReason(w http.ResponseWriter, status int, reason, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		if reason != "" {
			e.Field("reason", func(e *jx.Encoder) { e.Str(reason) })
		}
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
