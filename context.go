package pshot

import (
	"context"
	"errors"
)

// ErrNoContainer is returned by the context helpers when ctx carries no container.
var ErrNoContainer = errors.New("no container in context")

type containerCtxKey struct{}

// WithContainer returns a new context with the container attached.
//
// Example:
//
//	func middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        ctx := pshot.WithContainer(r.Context(), appContainer)
//	        next.ServeHTTP(w, r.WithContext(ctx))
//	    })
//	}
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerCtxKey{}, c)
}

// FromContext retrieves the container from the context.
func FromContext(ctx context.Context) (*Container, bool) {
	c, ok := ctx.Value(containerCtxKey{}).(*Container)
	return c, ok && c != nil
}

// ResolveCtx resolves key from the container in context.
//
// Example:
//
//	config, err := pshot.ResolveCtx[*Config](ctx, pshot.TypeKey[*Config]())
func ResolveCtx[T any](ctx context.Context, key Key) (T, error) {
	c, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, ErrNoContainer
	}
	return Resolve[T](c, key)
}

// GetCtx resolves token from the container in context.
func GetCtx[T any](ctx context.Context, token *Token[T]) (T, error) {
	return ResolveCtx[T](ctx, token.Key())
}

// InjectCtx populates a struct's fields from the container in context.
//
// Example:
//
//	var deps struct {
//	    Config *Config
//	    DSN    string `pshot:"dsn"`
//	}
//	err := pshot.InjectCtx(ctx, &deps)
func InjectCtx(ctx context.Context, target any) error {
	c, ok := FromContext(ctx)
	if !ok {
		return ErrNoContainer
	}
	return c.Inject(target)
}

// CallCtx calls f with dependencies from the container in context. ctx is
// also used to await an async f.
func CallCtx[R any](ctx context.Context, f *Func, args ...any) (R, error) {
	c, ok := FromContext(ctx)
	if !ok {
		var zero R
		return zero, ErrNoContainer
	}
	return call[R](ctx, c, f, args)
}
