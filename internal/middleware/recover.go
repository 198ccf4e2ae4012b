package middleware

import (
	"net/http"
	"runtime/debug"

	"vet-practice/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover loguea el panic con el request id y responde 500 JSON.
// http.ErrAbortHandler se re-lanza (lo usa net/http para cortar la respuesta).
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]any{
					"request_id": chimw.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"panic":      rec,
					"stack":      string(debug.Stack()),
				})
				writeError(w, http.StatusInternalServerError, map[string]string{
					"error": "internal error",
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
