package client

import "context"

type traceKey struct{}

// WithTraceID attaches a trace id that every backend request made with ctx
// forwards as X-Trace-ID.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}
