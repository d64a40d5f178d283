package pshot

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
)

// as converts a built value to T.
func as[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}

	var zero T
	rv, err := convertValue(v, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	return *ptr.Interface().(*T), nil
}

// convertValue adapts a built value to the Go type target:
// *Func becomes a Go func, []any becomes []T.
func convertValue(v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(target), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		out := reflect.New(target).Elem()
		out.Set(rv)
		return out, nil
	}

	switch target.Kind() {
	case reflect.Func:
		if f, ok := v.(*Func); ok {
			return funcValue(f, target)
		}
	case reflect.Slice:
		if items, ok := v.([]any); ok {
			out := reflect.MakeSlice(target, len(items), len(items))
			for i, item := range items {
				ev, err := convertValue(item, target.Elem())
				if err != nil {
					return reflect.Value{}, errors.Wrapf(err, "item %d", i)
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		}
	}

	if rv.Kind() == target.Kind() && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}

	return reflect.Value{}, errors.Errorf("cannot use %s as %s", rv.Type(), target)
}

// funcValue wraps f as a Go function of type target. Errors the target
// cannot return are raised as panics.
func funcValue(f *Func, target reflect.Type) (reflect.Value, error) {
	if target.IsVariadic() || target.NumIn() != len(f.params) {
		return reflect.Value{}, errors.Errorf(
			"cannot use %s with %d parameters as %s", f.Name(), len(f.params), target,
		)
	}

	numOut := target.NumOut()
	returnsErr := numOut > 0 && target.Out(numOut-1) == errorType
	if numOut > 2 || (numOut == 2 && !returnsErr) {
		return reflect.Value{}, errors.Errorf("cannot use %s as %s", f.Name(), target)
	}

	fn := reflect.MakeFunc(target, func(in []reflect.Value) []reflect.Value {
		args := make([]any, len(in))
		for i := range in {
			args[i] = in[i].Interface()
		}

		v, err := f.Call(args...)
		if fut, ok := v.(*Future); ok && err == nil && !returnsFuture(target) {
			v, err = fut.Await(context.Background())
		}

		return packResults(target, returnsErr, v, err)
	})

	return fn, nil
}

func returnsFuture(target reflect.Type) bool {
	return target.NumOut() > 0 && target.Out(0) == reflect.TypeFor[*Future]()
}

func packResults(target reflect.Type, returnsErr bool, v any, err error) []reflect.Value {
	numOut := target.NumOut()
	out := make([]reflect.Value, 0, numOut)

	if returnsErr {
		errValue := reflect.Zero(errorType)
		if err != nil {
			errValue = reflect.ValueOf(&err).Elem()
		}
		if numOut == 2 {
			rv := reflect.Zero(target.Out(0))
			if err == nil {
				var cerr error
				if rv, cerr = convertValue(v, target.Out(0)); cerr != nil {
					panic(cerr)
				}
			}
			out = append(out, rv)
		}
		return append(out, errValue)
	}

	if err != nil {
		panic(err)
	}

	if numOut == 1 {
		rv, cerr := convertValue(v, target.Out(0))
		if cerr != nil {
			panic(cerr)
		}
		out = append(out, rv)
	}

	return out
}
