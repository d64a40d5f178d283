package pshot

import (
	"maps"
	"reflect"
	"slices"
)

// Kind is the lifetime of a registration.
type Kind uint8

const (
	// Singleton values are built once and returned as-is on every read.
	Singleton Kind = iota
	// Transient values are rebuilt on every read.
	Transient
	// SingletonFactory producers are invoked once at build time.
	SingletonFactory
	// TransientFactory producers are invoked on every read.
	TransientFactory
)

func (k Kind) String() string {
	switch k {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case SingletonFactory:
		return "singleton factory"
	case TransientFactory:
		return "transient factory"
	default:
		return "unknown"
	}
}

// transient reports whether conditions are checked at read time.
func (k Kind) transient() bool {
	return k == Transient || k == TransientFactory
}

func (k Kind) factory() bool {
	return k == SingletonFactory || k == TransientFactory
}

// shape is the producer variant, fixed at registration time.
type shape uint8

const (
	shapeValue shape = iota
	shapeFunc
	shapeRef
	shapeItems
	shapeInvalid
)

type options struct {
	key             Key
	factoryArgs     []any
	factoryKwargs   map[string]any
	injectReturns   bool
	injectItems     bool
	condition       *Func
	conditionArgs   []any
	conditionKwargs map[string]any
	suppressEmpty   bool
}

// Option configures a registration.
type Option func(*options)

// WithKey registers the producer under key instead of its own identity.
func WithKey(key Key) Option {
	return func(o *options) {
		o.key = key
	}
}

// InjectReturns auto-wires callables returned by the registered callable
// each time it is called.
func InjectReturns() Option {
	return func(o *options) {
		o.injectReturns = true
	}
}

// InjectItems builds every element of a slice producer on its own.
func InjectItems() Option {
	return func(o *options) {
		o.injectItems = true
	}
}

// When gates the registration on cond. Singleton kinds check it at build
// time, transient kinds at every read.
func When(cond *Func) Option {
	return func(o *options) {
		o.condition = cond
	}
}

// ConditionArgs passes positional arguments to the condition. *Ref arguments
// are resolved first.
func ConditionArgs(args ...any) Option {
	return func(o *options) {
		o.conditionArgs = args
	}
}

// ConditionKwargs passes named arguments to the condition.
func ConditionKwargs(kwargs map[string]any) Option {
	return func(o *options) {
		o.conditionKwargs = kwargs
	}
}

// FactoryArgs passes positional arguments to a factory. *Ref arguments are
// resolved first.
func FactoryArgs(args ...any) Option {
	return func(o *options) {
		o.factoryArgs = args
	}
}

// FactoryKwargs passes named arguments to a factory.
func FactoryKwargs(kwargs map[string]any) Option {
	return func(o *options) {
		o.factoryKwargs = kwargs
	}
}

// SuppressEmpty lets every registration under a key be filtered out without
// failing the build or the read.
func SuppressEmpty() Option {
	return func(o *options) {
		o.suppressEmpty = true
	}
}

// registration is the immutable description of one producer.
type registration struct {
	options
	kind     Kind
	key      Key
	producer any
	shape    shape
}

func newRegistration(kind Kind, producer any, opts []Option) (*registration, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	key := o.key
	if isNil(producer) {
		return nil, errUnsupported(key, "cannot register a nil %s", kind)
	}

	if key.IsZero() {
		var ok bool
		if key, ok = identityKey(producer); !ok {
			return nil, errUnsupported(key, "%T cannot be used as its own key, use WithKey", producer)
		}
	}

	switch {
	case key.IsList():
		return nil, errUnsupported(key, "list keys are derived and cannot be registered")
	case kind.factory() && o.injectItems:
		return nil, errUnsupported(key, "a %s cannot inject items", kind)
	case !kind.factory() && (o.factoryArgs != nil || o.factoryKwargs != nil):
		return nil, errUnsupported(key, "factory arguments given to a %s", kind)
	case o.condition == nil && (o.conditionArgs != nil || o.conditionKwargs != nil):
		return nil, errUnsupported(key, "condition arguments given without a condition")
	}

	o.factoryArgs = slices.Clone(o.factoryArgs)
	o.factoryKwargs = maps.Clone(o.factoryKwargs)
	o.conditionArgs = slices.Clone(o.conditionArgs)
	o.conditionKwargs = maps.Clone(o.conditionKwargs)

	return &registration{
		options:  o,
		kind:     kind,
		key:      key,
		producer: producer,
		shape:    classify(producer, o.injectItems),
	}, nil
}

func classify(producer any, injectItems bool) shape {
	switch producer.(type) {
	case *Func:
		return shapeFunc
	case *Ref:
		return shapeRef
	}

	if !injectItems {
		return shapeValue
	}

	switch reflect.TypeOf(producer).Kind() {
	case reflect.Slice, reflect.Array:
		return shapeItems
	default:
		return shapeInvalid
	}
}

// items returns the elements of an item sequence producer.
func (r *registration) items() []any {
	v := reflect.ValueOf(r.producer)
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
