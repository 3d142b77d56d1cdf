// CLAUDE:SUMMARY Request body size cap middleware.
package shield

import "net/http"

// MaxBody returns middleware that limits the request body size. Reads
// beyond the limit fail with http.MaxBytesError, which the JSON decoder
// in the MCP handler surfaces as a 400.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
