package pshot

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
)

// FuncOf describes an ordinary Go function. Parameter keys come from the
// declared Go types; a []T parameter asks for the list of T. Go does not keep
// parameter names, so they are passed in declaration order.
// fn must return T, (T, error) or nothing.
//
// Example:
//
//	type ConstantReturner func() int
//
//	returnOne := pshot.FuncOf("returnOne", func(get ConstantReturner) int {
//	    return get() + 1
//	}, "getConstant")
func FuncOf(name string, fn any, names ...string) *Func {
	fnValue, fnType := checkFunc("FuncOf", fn)

	return &Func{
		name:   name,
		params: describeParams(fnType, 0, names),
		body: func(args ...any) (any, error) {
			return callReflect(name, fnValue, fnType, nil, args)
		},
	}
}

// AsyncFuncOf describes a Go function whose first parameter is a
// context.Context. Calling the result runs fn on its own goroutine.
//
// Example:
//
//	fetch := pshot.AsyncFuncOf("fetch", func(ctx context.Context, c *Client) (string, error) {
//	    return c.Get(ctx)
//	}, "client")
func AsyncFuncOf(name string, fn any, names ...string) *Func {
	fnValue, fnType := checkFunc("AsyncFuncOf", fn)

	if fnType.NumIn() == 0 || fnType.In(0) != contextType {
		panic("AsyncFuncOf: first parameter must be context.Context")
	}

	return &Func{
		name:   name,
		params: describeParams(fnType, 1, names),
		async: func(ctx context.Context, args ...any) (any, error) {
			return callReflect(name, fnValue, fnType, ctx, args)
		},
	}
}

func checkFunc(caller string, fn any) (reflect.Value, reflect.Type) {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func || fnValue.IsNil() {
		panic(caller + ": fn must be a non-nil function")
	}

	fnType := fnValue.Type()
	if fnType.IsVariadic() {
		panic(caller + ": variadic functions are not supported")
	}

	switch fnType.NumOut() {
	case 0, 1:
	case 2:
		if fnType.Out(1) != errorType {
			panic(caller + ": second return must be error")
		}
	default:
		panic(caller + ": fn must return T, (T, error) or nothing")
	}

	return fnValue, fnType
}

func describeParams(fnType reflect.Type, offset int, names []string) []Param {
	params := make([]Param, 0, fnType.NumIn()-offset)
	for i := offset; i < fnType.NumIn(); i++ {
		p := Param{Key: paramKey(fnType.In(i))}
		if n := i - offset; n < len(names) {
			p.Name = names[n]
		}
		params = append(params, p)
	}
	return params
}

func callReflect(name string, fnValue reflect.Value, fnType reflect.Type, ctx context.Context, args []any) (any, error) {
	offset := 0
	in := make([]reflect.Value, fnType.NumIn())
	if ctx != nil {
		in[0] = reflect.ValueOf(&ctx).Elem()
		offset = 1
	}

	for i, arg := range args {
		v, err := convertValue(arg, fnType.In(i+offset))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: argument %d", name, i)
		}
		in[i+offset] = v
	}

	return unpackResults(fnValue.Call(in))
}

func unpackResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// String implements fmt.Stringer for debugging.
func (p Param) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.Key)
}
