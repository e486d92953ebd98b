package utils

import "context"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, reqID)
}

// RequestID returns the id stored by WithRequestID, or nil.
func RequestID(ctx context.Context) *string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return &reqID
	}
	return nil
}
