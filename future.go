package pshot

import (
	"context"

	"github.com/pkg/errors"
)

// Future is the pending result of an asynchronous Func.
type Future struct {
	name  string
	done  chan struct{}
	value any
	err   error
}

func startFuture(ctx context.Context, name string, run func(ctx context.Context) (any, error)) *Future {
	f := &Future{
		name: name,
		done: make(chan struct{}),
	}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = errors.Errorf("async %s panicked: %v", name, r)
			}
		}()

		f.value, f.err = run(ctx)
	}()

	return f
}

// Await blocks until the result is available or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "awaiting %s", f.name)
	}
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await waits for v when it is a *Future and converts the result to R.
// Any other v is converted directly.
//
// Example:
//
//	v, err := adderReturner.Call()
//	adder, err := pshot.Await[*pshot.Func](ctx, v)
func Await[R any](ctx context.Context, v any) (R, error) {
	if fut, ok := v.(*Future); ok {
		var err error
		if v, err = fut.Await(ctx); err != nil {
			var zero R
			return zero, err
		}
	}
	return as[R](v)
}
