package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/fleetops-data/deviation.report/internal/httputil"
)

// APIKeyHeader carries the shared intake secret.
const APIKeyHeader = "X-API-Key"

// requireKey rejects requests whose X-API-Key header does not match
// the shared secret. A mismatch has no side effects on engine state.
func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			httputil.Unauthorized(w, "Unauthorized: Invalid API Key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
