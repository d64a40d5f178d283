package pshot

import (
	"log/slog"
	"reflect"
	"slices"

	"github.com/pkg/errors"

	"github.com/overdevelop/pshot/internal/logger"
)

// Container holds the registrations and, once built, the built values.
//
// A Container is not safe for concurrent use. Registration and Build must
// happen on one goroutine; callers sharing a built container must serialize
// Resolve themselves. An async callable registered with InjectReturns wires
// its result on the goroutine of its Future and may record built values
// there: the container must not be used while such a Future is pending.
type Container struct {
	registered map[Key]*group
	order      []Key
	built      map[Key]*entry
	sealed     bool
	isBuilt    bool
	log        *slog.Logger
}

// group is every registration sharing a key. An aggregate group is stored
// under the list form of the key.
type group struct {
	regs      []*registration
	aggregate bool
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithLogger makes the container log through l instead of the package logger.
func WithLogger(l *slog.Logger) ContainerOption {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a new empty container.
//
// Example:
//
//	c := pshot.New()
//	c.RegisterSingleton(&Config{...}, pshot.WithKey(pshot.TypeKey[*Config]()))
//	if err := c.Build(); err != nil { ... }
//	config := pshot.MustResolve[*Config](c, pshot.TypeKey[*Config]())
func New(opts ...ContainerOption) *Container {
	c := &Container{
		registered: make(map[Key]*group),
		built:      make(map[Key]*entry),
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterSingleton registers a value, a *Func or a *Ref built once.
// A *Func is auto-wired: its leading parameters that match registered keys
// are bound.
func (c *Container) RegisterSingleton(producer any, opts ...Option) error {
	return c.register(Singleton, producer, opts)
}

// RegisterTransient registers a value, a *Func or a *Ref rebuilt on every
// read. Values are deep-copied, callables are auto-wired afresh.
func (c *Container) RegisterTransient(producer any, opts ...Option) error {
	return c.register(Transient, producer, opts)
}

// RegisterSingletonFactory registers a factory invoked once at build time.
func (c *Container) RegisterSingletonFactory(factory *Func, opts ...Option) error {
	return c.register(SingletonFactory, factory, opts)
}

// RegisterTransientFactory registers a factory invoked on every read.
func (c *Container) RegisterTransientFactory(factory *Func, opts ...Option) error {
	return c.register(TransientFactory, factory, opts)
}

func (c *Container) register(kind Kind, producer any, opts []Option) error {
	if c.sealed {
		return newError(ErrAlreadyBuilt, Key{}, "container already built")
	}

	reg, err := newRegistration(kind, producer, opts)
	if err != nil {
		return err
	}

	key := reg.key
	listKey := ListOf(key)

	if g, ok := c.registered[listKey]; ok {
		g.regs = append(g.regs, reg)
		return nil
	}

	if g, ok := c.registered[key]; ok {
		c.registered[listKey] = &group{
			regs:      []*registration{g.regs[0], reg},
			aggregate: true,
		}
		delete(c.registered, key)
		c.order[slices.Index(c.order, key)] = listKey
		return nil
	}

	c.registered[key] = &group{regs: []*registration{reg}}
	c.order = append(c.order, key)
	return nil
}

// Build seals the container and builds every registered key.
// Calling Build again after it succeeded does nothing.
func (c *Container) Build() error {
	if c.isBuilt {
		return nil
	}
	c.sealed = true

	for _, key := range c.order {
		if _, err := c.buildDependency(key); err != nil {
			return err
		}
	}

	c.isBuilt = true
	c.log.Debug("container built",
		slog.Int("keys", len(c.order)),
		slog.Int("entries", len(c.built)),
	)
	return nil
}

// IsBuilt reports whether Build has completed.
func (c *Container) IsBuilt() bool {
	return c.isBuilt
}

// Registered reports whether key, or the list of its item key, was registered.
func (c *Container) Registered(key Key) bool {
	if _, ok := c.registered[key]; ok {
		return true
	}
	_, ok := c.registered[ListOf(key)]
	return ok
}

// Keys returns the registered keys in registration order. Keys that received
// several registrations appear in their list form.
func (c *Container) Keys() []Key {
	return slices.Clone(c.order)
}

// Resolve returns the value built under key. A list key returns []any.
func (c *Container) Resolve(key Key) (any, error) {
	if !c.isBuilt {
		return nil, newError(ErrNotBuilt, key, "container not built")
	}

	if !c.Registered(key) {
		return nil, errNotRegistered(key)
	}

	e, ok := c.built[key]
	if !ok {
		if _, many := c.built[ListOf(key)]; many {
			return nil, errMultipleObjects(key)
		}
		return nil, errObjectNotBuilt(key)
	}

	return c.read(e)
}

// Inject populates a struct's exported fields from built values.
// A field tagged `pshot:"name"` is matched by name first; every field is
// matched by its type. Nested structs that match nothing are injected
// recursively. Fields tagged `pshot:"-"` are skipped.
func (c *Container) Inject(target any) error {
	if !c.isBuilt {
		return newError(ErrNotBuilt, Key{}, "container not built")
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Pointer || targetValue.Elem().Kind() != reflect.Struct {
		return errors.Errorf("Inject: target must be a pointer to a struct, got %T", target)
	}

	targetValue = targetValue.Elem()
	targetType := targetValue.Type()

	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		fieldValue := targetValue.Field(i)

		tag := field.Tag.Get("pshot")
		if !fieldValue.CanSet() || tag == "-" {
			continue
		}

		p := Param{Name: tag, Key: paramKey(field.Type)}
		v, found, err := c.resolveParam(p)
		if err != nil {
			return err
		}

		if !found {
			if field.Type.Kind() == reflect.Struct && tag == "" {
				if err := c.Inject(fieldValue.Addr().Interface()); err != nil {
					return err
				}
				continue
			}
			return errors.Wrapf(errNotRegistered(p.Key), "Inject: could not resolve field %s (%s) in struct %s",
				field.Name, field.Type, targetType.Name())
		}

		rv, err := convertValue(v, field.Type)
		if err != nil {
			return errors.Wrapf(err, "Inject: field %s", field.Name)
		}
		fieldValue.Set(rv)
	}

	return nil
}
