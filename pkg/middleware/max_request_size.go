package middleware

import (
	"net/http"

	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
)

// MaxRequestSize rejects bodies that declare more than maxBytes and caps
// reads for bodies of unknown length.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				appErr := apperrors.New("PAYLOAD_TOO_LARGE", "Request body too large", http.StatusRequestEntityTooLarge)
				_ = httputil.WriteError(w, appErr)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
