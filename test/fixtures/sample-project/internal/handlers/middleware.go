package handlers

import "net/http"

// LoggingMiddleware is a no-op middleware for fixture coverage.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
	})
}
