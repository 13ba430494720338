package handlers

import (
	"context"

	"github.com/serroba/shlink-go/internal/visits"
)

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata about the visitor.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// VisitorContext converts the metadata into the keys the visit tracker reads.
func (m RequestMeta) VisitorContext() visits.VisitorContext {
	return visits.NewVisitorContext(m.UserAgent, m.Referrer, m.ClientIP)
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
