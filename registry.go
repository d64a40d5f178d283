package pshot

import (
	"context"
	"errors"
	"fmt"
)

// Resolve returns the value built under key converted to T.
// A *Func is adapted when T is a Go func type, a list when T is a slice.
//
// Example:
//
//	sum, err := pshot.Resolve[func() int](c, pshot.TypeKey[Summer]())
func Resolve[T any](c *Container, key Key) (T, error) {
	v, err := c.Resolve(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v)
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, key Key) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(fmt.Sprintf("could not resolve %s: %v", key, err))
	}
	return v
}

// ResolveAll returns every value built under the item key of key. A key with
// a single registration yields a one-element slice.
//
// Example:
//
//	handlers, err := pshot.ResolveAll[Handler](c, pshot.TypeKey[Handler]())
func ResolveAll[T any](c *Container, key Key) ([]T, error) {
	v, err := c.Resolve(ListOf(key))
	if errors.Is(err, ErrNotRegistered) {
		if v, err = c.Resolve(key.Item()); err == nil {
			if _, isList := v.([]any); !isList {
				v = []any{v}
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return as[[]T](v)
}

// Get resolves the value registered under token.
//
// Example:
//
//	dsn := pshot.NewToken[string]("dsn")
//	c.RegisterSingleton("postgres://", pshot.WithKey(dsn.Key()))
//	...
//	v, err := pshot.Get(c, dsn)
func Get[T any](c *Container, token *Token[T]) (T, error) {
	return Resolve[T](c, token.Key())
}

// Call auto-wires f against a built container, calls it with args and
// converts the result to R. An async f is awaited.
//
// Example:
//
//	report, err := pshot.Call[string](c, pshot.FuncOf("report", func(db *DB, day time.Time) string {
//	    return db.Report(day)
//	}), time.Now())
func Call[R any](c *Container, f *Func, args ...any) (R, error) {
	return call[R](context.Background(), c, f, args)
}

func call[R any](ctx context.Context, c *Container, f *Func, args []any) (R, error) {
	var zero R
	if !c.isBuilt {
		return zero, newError(ErrNotBuilt, Key{}, "container not built")
	}

	wired, err := c.autowire(f, false)
	if err != nil {
		return zero, err
	}

	v, err := wired.CallContext(ctx, args...)
	if err != nil {
		return zero, err
	}
	return Await[R](ctx, v)
}
