package middleware

import "net/http"

// DefaultBodyLimit caps request bodies; reviews and trigger payloads are small JSON documents.
const DefaultBodyLimit int64 = 10 << 10

// BodyLimit rejects bodies larger than limit. A declared Content-Length over the limit is
// refused up front with 413; undeclared bodies fail on read once the limit is crossed.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
