package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Recover guards the server from handler panics. The panic is logged with its
// stack and request ID, and the client gets a JSON 500 matching the API's
// error envelope.
func Recover(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID, _ := r.Context().Value(RequestIDKey).(string)
					log.Error().
						Str("request_id", requestID).
						Str("path", r.URL.Path).
						Interface("error", rec).
						Bytes("stack", debug.Stack()).
						Msg("http_panic")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w,
						`{"error":{"code":"internal_error","message":"internal server error","request_id":%q}}`,
						requestID)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
