package httpapi

import (
	"crypto/subtle"
	"net/http"

	"riffmates/internal/http/middleware"
	"riffmates/internal/logging"
)

// APIKeyHeader carries the shared key on mutating requests.
const APIKeyHeader = "X-API-Key"

// requireKey rejects requests without the configured API key. Clients that
// keep failing are throttled before the key is even compared.
func (s *Server) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := middleware.ClientKey(r)
		if s.failures.Exhausted(client) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many failed attempts"})
			return
		}

		got := r.Header.Get(APIKeyHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), s.apiKey) != 1 {
			s.failures.Record(client)
			logging.WithContext(r.Context()).Warn().
				Str("client", client).
				Str("path", r.URL.Path).
				Msg("rejected api key")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
		next(w, r)
	}
}
