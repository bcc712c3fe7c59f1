package agent

import "context"

type callerKey struct{}

// WithCaller tags ctx with the verified caller identity. Tool handlers
// that keep per-caller state (pending confirmations) read it back with
// CallerFrom.
func WithCaller(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerKey{}, callerID)
}

// CallerFrom returns the caller identity set by WithCaller, if any.
func CallerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callerKey{}).(string)
	return id, ok && id != ""
}
