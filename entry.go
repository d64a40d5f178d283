package pshot

import (
	"log/slog"

	"github.com/huandu/go-clone"
)

// contribution is one built item: an eager value, or a transient reader
// producing a fresh value on each read.
type contribution struct {
	value any
	lazy  *transient
}

type transient struct {
	reg     *registration
	produce func() (any, error)
}

// entry is the built counterpart of a registration group.
// A list entry reads as []any; a single entry reads as its only item.
type entry struct {
	key   Key
	items []contribution
	list  bool
}

func eager(v any) contribution {
	return contribution{value: v}
}

func lazy(reg *registration, produce func() (any, error)) contribution {
	return contribution{lazy: &transient{reg: reg, produce: produce}}
}

// read returns the value of e. Transient items check their condition and
// are produced again on every call.
func (c *Container) read(e *entry) (any, error) {
	if !e.list {
		item := e.items[0]
		if item.lazy == nil {
			return item.value, nil
		}

		ok, err := c.admit(item.lazy)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNoObjectsAtRead(e.key)
		}
		return item.lazy.produce()
	}

	out := make([]any, 0, len(e.items))
	suppress := true
	for _, item := range e.items {
		if item.lazy == nil {
			out = append(out, item.value)
			continue
		}

		ok, err := c.admit(item.lazy)
		if err != nil {
			return nil, err
		}
		if !ok {
			suppress = suppress && item.lazy.reg.suppressEmpty
			c.log.Debug("transient filtered at read",
				slog.String("key", e.key.String()),
				slog.String("kind", item.lazy.reg.kind.String()),
			)
			continue
		}

		v, err := item.lazy.produce()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if len(out) == 0 && !suppress {
		return nil, errNoObjectsAtRead(e.key)
	}

	return out, nil
}

// sequence reports whether e reads as several objects: a list, or a single
// transient registration of injected items.
func (e *entry) sequence() bool {
	if e.list {
		return true
	}
	item := e.items[0]
	return item.lazy != nil && item.lazy.reg.shape == shapeItems
}

func (c *Container) admit(t *transient) (bool, error) {
	if t.reg.condition == nil {
		return true, nil
	}
	return c.evalCondition(t.reg)
}

// copyValue returns an independent copy of a transient value, unexported
// fields included. Funcs nested in v keep their bodies.
func copyValue(v any) any {
	switch t := v.(type) {
	case *Func:
		return t.clone()
	case *Ref:
		return t
	default:
		return clone.Clone(v)
	}
}
