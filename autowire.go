package pshot

import (
	"context"
	"log/slog"
)

// buildResult holds the entries published for a registration key: the
// single item and, for aggregate groups, the list.
type buildResult struct {
	item *entry
	list *entry
}

// buildDependency builds every registration stored under key once.
// There is no cycle detection: a cyclic graph recurses until the stack
// overflows.
func (c *Container) buildDependency(key Key) (buildResult, error) {
	g, ok := c.registered[key]
	if !ok {
		return buildResult{}, errNotRegistered(key)
	}

	if g.aggregate {
		res := buildResult{item: c.built[key.Item()], list: c.built[key]}
		if res.item != nil || res.list != nil {
			return res, nil
		}
	} else if e, ok := c.built[key]; ok {
		return buildResult{item: e}, nil
	}

	var items []contribution
	suppress := true
	for _, reg := range g.regs {
		suppress = suppress && reg.suppressEmpty

		if reg.condition != nil && !reg.kind.transient() {
			ok, err := c.evalCondition(reg)
			if err != nil {
				return buildResult{}, err
			}
			if !ok {
				c.log.Debug("registration skipped, condition not met",
					slog.String("key", key.String()),
					slog.String("kind", reg.kind.String()),
				)
				continue
			}
		}

		built, err := c.buildRegistration(reg)
		if err != nil {
			return buildResult{}, err
		}
		items = append(items, built...)
	}

	if len(items) == 0 {
		if !suppress {
			return buildResult{}, errNoObjectsBuilt(key)
		}
		c.log.Debug("nothing built, empty group suppressed", slog.String("key", key.String()))
		return buildResult{}, nil
	}

	c.log.Debug("built", slog.String("key", key.String()), slog.Int("items", len(items)))

	if !g.aggregate {
		reg := g.regs[0]
		e := &entry{
			key:   key,
			items: items,
			list:  reg.shape == shapeItems && !reg.kind.transient(),
		}
		c.built[key] = e
		return buildResult{item: e}, nil
	}

	var res buildResult
	if len(items) == 1 {
		res.item = &entry{key: key.Item(), items: items}
		c.built[key.Item()] = res.item
	}
	res.list = &entry{key: key, items: items, list: true}
	c.built[key] = res.list
	return res, nil
}

// buildRegistration constructs the contribution of one registration.
func (c *Container) buildRegistration(reg *registration) ([]contribution, error) {
	switch reg.kind {
	case Singleton:
		switch reg.shape {
		case shapeRef:
			v, err := c.resolveRef(reg.producer.(*Ref))
			if err != nil {
				return nil, err
			}
			return []contribution{eager(v)}, nil
		case shapeFunc:
			f, err := c.autowire(reg.producer.(*Func), reg.injectReturns)
			if err != nil {
				return nil, err
			}
			return []contribution{eager(f)}, nil
		case shapeItems:
			items := reg.items()
			out := make([]contribution, 0, len(items))
			for _, item := range items {
				v, err := c.buildItem(reg, item)
				if err != nil {
					return nil, err
				}
				out = append(out, eager(v))
			}
			return out, nil
		case shapeValue:
			return []contribution{eager(reg.producer)}, nil
		}

	case Transient:
		switch reg.shape {
		case shapeRef:
			ref := reg.producer.(*Ref)
			return []contribution{lazy(reg, func() (any, error) {
				return c.resolveRef(ref)
			})}, nil
		case shapeFunc:
			fn := reg.producer.(*Func)
			return []contribution{lazy(reg, func() (any, error) {
				return c.autowire(fn.clone(), reg.injectReturns)
			})}, nil
		case shapeItems:
			return []contribution{lazy(reg, func() (any, error) {
				items := reg.items()
				out := make([]any, 0, len(items))
				for _, item := range items {
					v, err := c.buildItem(reg, copyValue(item))
					if err != nil {
						return nil, err
					}
					out = append(out, v)
				}
				return out, nil
			})}, nil
		case shapeValue:
			return []contribution{lazy(reg, func() (any, error) {
				return copyValue(reg.producer), nil
			})}, nil
		}

	case SingletonFactory:
		v, err := c.runFactory(reg)
		if err != nil {
			return nil, err
		}
		return []contribution{eager(v)}, nil

	case TransientFactory:
		return []contribution{lazy(reg, func() (any, error) {
			return c.runFactory(reg)
		})}, nil
	}

	if reg.shape == shapeInvalid {
		return nil, errUnsupported(reg.key, "%s with injected items needs a slice, got %T", reg.kind, reg.producer)
	}
	return nil, errUnsupported(reg.key, "%s of %T", reg.kind, reg.producer)
}

// buildItem builds one element of an item sequence.
func (c *Container) buildItem(reg *registration, item any) (any, error) {
	switch v := item.(type) {
	case *Ref:
		return c.resolveRef(v)
	case *Func:
		return c.autowire(v, reg.injectReturns)
	default:
		return item, nil
	}
}

// runFactory invokes a factory registration and post-processes its result.
// A callable result is cloned before wiring; any other result is returned as
// produced, the factory being the source of fresh values.
func (c *Container) runFactory(reg *registration) (any, error) {
	v, err := c.invoke(reg.producer.(*Func), reg.factoryArgs, reg.factoryKwargs)
	if err != nil {
		return nil, err
	}

	if fut, ok := v.(*Future); ok {
		if v, err = fut.Await(context.Background()); err != nil {
			return nil, err
		}
	}

	switch r := v.(type) {
	case *Ref:
		return nil, newError(ErrIndirectionResult, reg.key,
			"cannot build an indirection as a factory result for key %s", reg.key)
	case *Func:
		return c.autowire(r.clone(), reg.injectReturns)
	}
	return v, nil
}

// invoke calls f with explicit arguments, resolving every *Ref among them.
// Without arguments f is auto-wired and called with no further input.
func (c *Container) invoke(f *Func, args []any, kwargs map[string]any) (any, error) {
	if args == nil && kwargs == nil {
		wired, err := c.autowire(f, false)
		if err != nil {
			return nil, err
		}
		return wired.Call()
	}

	positional := make([]any, len(args))
	for i, arg := range args {
		v, err := c.resolveArg(arg)
		if err != nil {
			return nil, err
		}
		positional[i] = v
	}

	named := make(map[string]any, len(kwargs))
	for name, arg := range kwargs {
		v, err := c.resolveArg(arg)
		if err != nil {
			return nil, err
		}
		named[name] = v
	}

	return f.CallNamed(positional, named)
}

func (c *Container) resolveArg(arg any) (any, error) {
	if ref, ok := arg.(*Ref); ok {
		return c.resolveRef(ref)
	}
	return arg, nil
}

// resolveRef builds the target of ref and returns its value, projected when
// ref has a selector.
func (c *Container) resolveRef(ref *Ref) (any, error) {
	key, ok := c.storeKey(ref.key)
	if !ok {
		return nil, errNotRegistered(ref.key)
	}

	res, err := c.buildDependency(key)
	if err != nil {
		return nil, err
	}

	var e *entry
	switch {
	case ref.key.IsList():
		e = res.list
	case res.item != nil:
		e = res.item
	case res.list != nil:
		if ref.selector == nil {
			return nil, errMultipleObjects(ref.key)
		}
		e = res.list
	}

	if e == nil {
		return nil, errObjectNotBuilt(ref.key)
	}
	if !ref.key.IsList() && ref.selector == nil && e.sequence() {
		return nil, errMultipleObjects(ref.key)
	}

	v, err := c.read(e)
	if err != nil {
		return nil, err
	}
	return ref.project(v)
}

func (c *Container) evalCondition(reg *registration) (bool, error) {
	v, err := c.invoke(reg.condition, reg.conditionArgs, reg.conditionKwargs)
	if err != nil {
		return false, err
	}

	if fut, ok := v.(*Future); ok {
		if v, err = fut.Await(context.Background()); err != nil {
			return false, err
		}
	}

	ok, isBool := v.(bool)
	if !isBool {
		return false, errUnsupported(reg.key, "condition %s returned %T, expected bool", reg.condition.Name(), v)
	}
	return ok, nil
}

// autowire binds the leading parameters of f that resolve to registered
// keys. Only a contiguous prefix can be bound: a resolvable parameter after
// an unresolved one is an error.
func (c *Container) autowire(f *Func, injectReturns bool) (*Func, error) {
	var (
		args    []any
		unbound Param
		skipped bool
	)

	for _, p := range f.params {
		key, ok := c.lookupParam(p)
		if !ok {
			unbound, skipped = p, true
			continue
		}

		if skipped {
			return nil, newError(ErrUnboundParameter, unbound.Key,
				"cannot build partial function %s without registered parameter %s", f.Name(), unbound)
		}

		v, built, err := c.readParam(key, p.Key.IsList())
		if err != nil {
			return nil, err
		}
		if !built {
			unbound, skipped = p, true
			continue
		}
		args = append(args, v)
	}

	wired := f
	if len(args) > 0 {
		wired = f.bind(args...)
	}

	if injectReturns {
		wired = c.withInjectedReturns(wired)
	}
	return wired, nil
}

// lookupParam finds the registration key p resolves to: its name first,
// then its declared key.
func (c *Container) lookupParam(p Param) (Key, bool) {
	if p.Name != "" {
		if key, ok := c.storeKey(Name(p.Name)); ok {
			return key, true
		}
	}

	switch {
	case p.Key.IsZero():
		return Key{}, false
	case p.Key.IsList():
		_, ok := c.registered[p.Key]
		return p.Key, ok
	default:
		return c.storeKey(p.Key)
	}
}

// storeKey maps key to the key its registrations are stored under.
func (c *Container) storeKey(key Key) (Key, bool) {
	if _, ok := c.registered[key]; ok {
		return key, true
	}
	if !key.IsList() {
		if _, ok := c.registered[ListOf(key)]; ok {
			return ListOf(key), true
		}
	}
	return Key{}, false
}

// readParam builds key and reads the value a parameter receives.
// built is false when nothing was built under key.
func (c *Container) readParam(key Key, asList bool) (v any, built bool, err error) {
	res, err := c.buildDependency(key)
	if err != nil {
		return nil, false, err
	}

	var e *entry
	switch {
	case !key.IsList():
		e = res.item
	case asList:
		e = res.list
	case res.item != nil:
		e = res.item
	case res.list != nil:
		return nil, false, errMultipleObjects(key.Item())
	}

	if e == nil {
		return nil, false, nil
	}

	if v, err = c.read(e); err != nil {
		return nil, false, err
	}

	if asList && !key.IsList() && !e.list {
		v = []any{v}
	}
	return v, true, nil
}

// resolveParam resolves a single parameter outside of partial application.
func (c *Container) resolveParam(p Param) (any, bool, error) {
	key, ok := c.lookupParam(p)
	if !ok {
		return nil, false, nil
	}
	return c.readParam(key, p.Key.IsList())
}

// withInjectedReturns wraps f so that a callable it returns is auto-wired
// before reaching the caller. Async callables stay async.
func (c *Container) withInjectedReturns(f *Func) *Func {
	if f.IsAsync() {
		return NewAsyncFunc(f.name, f.params, func(ctx context.Context, args ...any) (any, error) {
			v, err := f.CallContext(ctx, args...)
			if err != nil {
				return nil, err
			}
			if v, err = v.(*Future).Await(ctx); err != nil {
				return nil, err
			}
			return c.injectResult(v)
		})
	}

	return NewFunc(f.name, f.params, func(args ...any) (any, error) {
		v, err := f.Call(args...)
		if err != nil {
			return nil, err
		}
		return c.injectResult(v)
	})
}

func (c *Container) injectResult(v any) (any, error) {
	if fn, ok := v.(*Func); ok {
		return c.autowire(fn, true)
	}
	return v, nil
}
