package gateway

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/adapter/handler"
)

type route struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

// Router forwards each request to the upstream whose path prefix is the
// longest match.
type Router struct {
	routes []route
	logger *zap.Logger
}

func NewRouter(upstreams map[string]string, timeout time.Duration, logger *zap.Logger) (*Router, error) {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   64,
		IdleConnTimeout:       90 * time.Second,
	}

	rt := &Router{logger: logger}
	for prefix, raw := range upstreams {
		target, err := url.Parse(raw)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("route %s: invalid upstream %q", prefix, raw)
		}

		proxy := &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(target)
				pr.SetXForwarded()
			},
			Transport:    transport,
			ErrorHandler: rt.proxyError,
		}
		rt.routes = append(rt.routes, route{prefix: prefix, proxy: proxy})
	}

	sort.Slice(rt.routes, func(i, j int) bool {
		return len(rt.routes[i].prefix) > len(rt.routes[j].prefix)
	})
	return rt, nil
}

func (rt *Router) match(path string) (route, bool) {
	for _, r := range rt.routes {
		if path == r.prefix || strings.HasPrefix(path, strings.TrimSuffix(r.prefix, "/")+"/") {
			return r, true
		}
	}
	return route{}, false
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, ok := rt.match(r.URL.Path)
	if !ok {
		handler.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no route for path")
		return
	}
	target.proxy.ServeHTTP(w, r)
}

func (rt *Router) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	rt.logger.Warn("upstream unreachable",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err),
	)
	handler.WriteError(w, http.StatusBadGateway, "BAD_GATEWAY", "upstream service unavailable")
}
