package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shlink-go/internal/handlers"
)

// RequestMeta is a middleware that adds client IP, user-agent, and referrer to the request context.
// Proxy headers are only read when trustProxyHeaders is set; otherwise the
// client IP is the connection's remote address.
func RequestMeta(_ huma.API, trustProxyHeaders bool) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  extractClientIP(ctx, trustProxyHeaders),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

func extractClientIP(ctx huma.Context, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		// X-Forwarded-For may hold a proxy chain; the first entry is the client.
		if xff := ctx.Header("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")

			return strings.TrimSpace(first)
		}

		if xri := ctx.Header("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}

	return addr
}
