package gateway

import (
	"net/http"

	"go.uber.org/zap"
)

// New assembles the edge handler: request id, access log, rate limit,
// edge authentication and finally the reverse proxy. /healthz is served
// locally and bypasses the chain.
func New(auth *EdgeAuthenticator, limiter *RateLimiter, router *Router, logger *zap.Logger) http.Handler {
	mws := []Middleware{RequestID, AccessLog(logger)}
	if limiter != nil {
		mws = append(mws, limiter.Middleware)
	}
	mws = append(mws, auth.Middleware)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/", Chain(router, mws...))
	return mux
}
