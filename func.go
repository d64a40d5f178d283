package pshot

import (
	"context"
	"slices"

	"github.com/pkg/errors"
)

// Param is one declared parameter of a Func.
//
// Name is matched against name keys, Key against every other key. Either may
// be empty. A list Key (see ListOf) asks for every producer of its item key.
type Param struct {
	Name string
	Key  Key
}

// Func is a callable together with its dependency descriptor.
//
// A Func is immutable. Partial application returns a new Func whose Params
// are the unbound suffix of the original parameters.
type Func struct {
	name   string
	params []Param
	bound  []any
	body   func(args ...any) (any, error)
	async  func(ctx context.Context, args ...any) (any, error)
}

// NewFunc describes a synchronous callable.
//
// Example:
//
//	add := pshot.NewFunc("add", []pshot.Param{{Name: "a"}, {Name: "b"}},
//	    func(args ...any) (any, error) {
//	        return args[0].(int) + args[1].(int), nil
//	    })
func NewFunc(name string, params []Param, body func(args ...any) (any, error)) *Func {
	if body == nil {
		panic("NewFunc: body cannot be nil")
	}
	return &Func{name: name, params: slices.Clone(params), body: body}
}

// NewAsyncFunc describes an asynchronous callable. Calling it starts the body
// on its own goroutine and returns a *Future.
func NewAsyncFunc(name string, params []Param, body func(ctx context.Context, args ...any) (any, error)) *Func {
	if body == nil {
		panic("NewAsyncFunc: body cannot be nil")
	}
	return &Func{name: name, params: slices.Clone(params), async: body}
}

// Name returns the name the Func was described with.
func (f *Func) Name() string {
	if f.name == "" {
		return "<anonymous>"
	}
	return f.name
}

// Params returns the parameters still to be supplied by the caller.
func (f *Func) Params() []Param {
	return slices.Clone(f.params)
}

// Bound returns the arguments already bound by partial application.
func (f *Func) Bound() []any {
	return slices.Clone(f.bound)
}

// IsAsync reports whether calling f yields a *Future.
func (f *Func) IsAsync() bool {
	return f.async != nil
}

// Call invokes f with the remaining arguments.
func (f *Func) Call(args ...any) (any, error) {
	return f.CallContext(context.Background(), args...)
}

// CallContext invokes f. ctx is handed to asynchronous bodies only.
func (f *Func) CallContext(ctx context.Context, args ...any) (any, error) {
	if len(args) != len(f.params) {
		return nil, errors.Errorf("%s: expected %d arguments, got %d", f.Name(), len(f.params), len(args))
	}

	full := make([]any, 0, len(f.bound)+len(args))
	full = append(full, f.bound...)
	full = append(full, args...)

	if f.async != nil {
		return startFuture(ctx, f.Name(), func(ctx context.Context) (any, error) {
			return f.async(ctx, full...)
		}), nil
	}

	return f.body(full...)
}

// CallNamed invokes f with positional arguments followed by named ones.
// Every parameter after the positional prefix must be present in named.
func (f *Func) CallNamed(args []any, named map[string]any) (any, error) {
	if len(args) > len(f.params) {
		return nil, errors.Errorf("%s: expected at most %d positional arguments, got %d", f.Name(), len(f.params), len(args))
	}

	full := slices.Clone(args)
	used := 0
	for _, p := range f.params[len(args):] {
		v, ok := named[p.Name]
		if !ok || p.Name == "" {
			return nil, errors.Errorf("%s: missing argument %q", f.Name(), p.Name)
		}
		full = append(full, v)
		used++
	}

	if used != len(named) {
		return nil, errors.Errorf("%s: unexpected named arguments", f.Name())
	}

	return f.Call(full...)
}

// bind returns f with args bound to its leading parameters.
func (f *Func) bind(args ...any) *Func {
	bound := make([]any, 0, len(f.bound)+len(args))
	bound = append(bound, f.bound...)
	bound = append(bound, args...)

	return &Func{
		name:   f.name,
		params: f.params[len(args):],
		bound:  bound,
		body:   f.body,
		async:  f.async,
	}
}

// clone returns a Func with the same behavior and a new identity.
func (f *Func) clone() *Func {
	cp := *f
	return &cp
}

// Invoke calls f and converts its result to R.
//
// Example:
//
//	sum, err := pshot.Invoke[int](adder)
func Invoke[R any](f *Func, args ...any) (R, error) {
	v, err := f.Call(args...)
	if err != nil {
		var zero R
		return zero, err
	}
	return as[R](v)
}
