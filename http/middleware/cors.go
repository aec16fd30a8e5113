package middleware

import (
	"net/http"

	"course-payments/config"
)

// EnableCORS wraps a handler with the configured origin allow-list. Preflight
// requests are answered here and never reach the handler.
func EnableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowed, value := allowedOrigin(origin); allowed {
			w.Header().Set("Access-Control-Allow-Origin", value)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

func allowedOrigin(origin string) (bool, string) {
	for _, o := range config.AppConfig.CORSAllowedOrigins {
		if o == "*" {
			return true, "*"
		}
		if o == origin && origin != "" {
			return true, origin
		}
	}
	return false, ""
}
