package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader 回應中帶回的 request id 標頭
const RequestIDHeader = "X-Request-Id"

// RequestID 沿用 chi 的 request id，並寫回回應標頭方便前端回報問題
func RequestID(next http.Handler) http.Handler {
	return chimid.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimid.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

func GetReqID(r *http.Request) string {
	return chimid.GetReqID(r.Context())
}
