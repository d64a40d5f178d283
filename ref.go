package pshot

// Ref stands for the built value of another key, optionally projected.
// It may be registered as a producer or passed as a factory or condition
// argument. A factory must never return a Ref.
type Ref struct {
	key      Key
	selector func(v any) (any, error)
}

// From refers to the value built under key.
//
// Example:
//
//	c.RegisterSingletonFactory(greet, pshot.FactoryArgs(pshot.From(pshot.Name("user"))))
func From(key Key) *Ref {
	return &Ref{key: key}
}

// FromSelect refers to the value built under key, projected by selector.
// When several producers are registered under key, selector receives the
// whole list as a []any or []E.
//
// Example:
//
//	section := pshot.FromSelect(pshot.TypeKey[*Config](), func(c *Config) *Section {
//	    return c.Section
//	})
func FromSelect[T, R any](key Key, selector func(T) R) *Ref {
	return &Ref{
		key: key,
		selector: func(v any) (any, error) {
			t, err := as[T](v)
			if err != nil {
				return nil, err
			}
			return selector(t), nil
		},
	}
}

// Key returns the key the Ref points at.
func (r *Ref) Key() Key {
	return r.key
}

func (r *Ref) project(v any) (any, error) {
	if r.selector == nil {
		return v, nil
	}
	return r.selector(v)
}
