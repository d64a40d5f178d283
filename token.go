package pshot

import "reflect"

// Token is a typed handle over a Key.
type Token[T any] struct {
	key Key
}

// NewToken creates a new typed token for dependency injection.
// Optionally accepts a name; otherwise the token is keyed by the type T.
func NewToken[T any](name ...string) *Token[T] {
	if len(name) > 0 && name[0] != "" {
		return &Token[T]{key: Name(name[0])}
	}

	return &Token[T]{key: KeyOf(reflect.TypeFor[T]())}
}

// Key returns the key the token stands for.
func (t *Token[T]) Key() Key {
	return t.key
}

// List returns the key of every producer registered under the token.
func (t *Token[T]) List() Key {
	return ListOf(t.key)
}

func (t *Token[T]) String() string {
	return t.key.String()
}
