package httpapi

import "context"

type callerKey struct{}

// WithCaller records how the request was authenticated ("token" or "anonymous").
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func CallerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey{}).(string); ok && v != "" {
		return v
	}
	return "anonymous"
}
