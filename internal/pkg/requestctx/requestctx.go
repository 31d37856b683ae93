// Package requestctx carries the caller identity of a request through context.
package requestctx

import "context"

type ctxKey struct{}

// Info describes who issued the current operation and from where.
type Info struct {
	ActorID   *uint
	ActorName string
	IP        string
	UserAgent string
	RequestID string
}

// With returns a copy of ctx carrying info.
func With(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the Info stored in ctx, or the zero Info.
func FromContext(ctx context.Context) Info {
	if ctx == nil {
		return Info{}
	}
	info, _ := ctx.Value(ctxKey{}).(Info)
	return info
}

// System marks work started by the process itself, such as CLI maintenance.
func System(ctx context.Context, name string) context.Context {
	return With(ctx, Info{ActorName: name})
}
