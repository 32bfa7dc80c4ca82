package middleware

import (
	"net/http"
	"strings"
)

// CORSHeaders sets the headers AMP documents need for cross-origin use.
// The AMP source origin is the origin the request was addressed to.
func CORSHeaders(h http.Header, r *http.Request) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("AMP-Access-Control-Allow-Source-Origin", RequestOrigin(r))
	h.Set("Access-Control-Expose-Headers", "AMP-Access-Control-Allow-Source-Origin")
}

// CORS adds CORS headers to every response and answers preflight requests
// with 204 No Content.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		CORSHeaders(w.Header(), r)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestOrigin returns scheme://host for the request, honouring
// X-Forwarded-Proto set by a fronting proxy.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}
