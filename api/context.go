package api

import "context"

type contextKey string

const (
	skipHooksKey contextKey = "skip_hooks"
	retriedKey   contextKey = "retried"
)

// WithoutHooks marks ctx so that requests made with it bypass every hook.
func WithoutHooks(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipHooksKey, true)
}

// HooksDisabled reports whether ctx was created by WithoutHooks.
func HooksDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(skipHooksKey).(bool)
	return v
}

// MarkRetried marks ctx as belonging to a request that is already a retry.
func MarkRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

// IsRetried reports whether the request owning ctx has already been re-sent once.
func IsRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey).(bool)
	return v
}
