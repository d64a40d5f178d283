package pshot

import (
	"fmt"
	"reflect"
)

type keyKind uint8

const (
	keyNone keyKind = iota
	keyName
	keyType
	keyIdent
)

// Key identifies a registration. It is comparable and can be used as a map key.
//
// A Key is one of: an opaque name, a type tag, or the identity of the
// producer itself. ListOf derives the list form of any key.
type Key struct {
	kind  keyKind
	name  string
	typ   reflect.Type
	ident any
	list  bool
}

// Name returns a key for an opaque name.
func Name(name string) Key {
	return Key{kind: keyName, name: name}
}

// TypeKey returns a key for the type T.
//
// Example:
//
//	type NumberReturner func() int
//	c.RegisterSingleton(returnOne, pshot.WithKey(pshot.TypeKey[NumberReturner]()))
func TypeKey[T any]() Key {
	return KeyOf(reflect.TypeFor[T]())
}

// KeyOf returns a key for typ. A nil type yields the zero Key.
func KeyOf(typ reflect.Type) Key {
	if typ == nil {
		return Key{}
	}
	return Key{kind: keyType, typ: typ}
}

// ListOf returns the list form of k: all producers registered under k.
func ListOf(k Key) Key {
	k.list = true
	return k
}

// identityKey keys a producer by itself. The producer must be comparable.
func identityKey(producer any) (Key, bool) {
	typ := reflect.TypeOf(producer)
	if typ == nil || !typ.Comparable() {
		return Key{}, false
	}
	return Key{kind: keyIdent, ident: producer}, true
}

// paramKey derives the declared key of a parameter of type typ.
// Slices are read as "sequence of elem".
func paramKey(typ reflect.Type) Key {
	if typ.Kind() == reflect.Slice {
		return ListOf(KeyOf(typ.Elem()))
	}
	return KeyOf(typ)
}

// Item returns the base key of a list key, or k itself.
func (k Key) Item() Key {
	k.list = false
	return k
}

// IsList reports whether k is a list key.
func (k Key) IsList() bool {
	return k.list
}

// IsZero reports whether k identifies nothing.
func (k Key) IsZero() bool {
	return k.kind == keyNone
}

func (k Key) String() string {
	var s string
	switch k.kind {
	case keyName:
		s = fmt.Sprintf("%q", k.name)
	case keyType:
		s = k.typ.String()
	case keyIdent:
		switch v := k.ident.(type) {
		case *Func:
			s = "func " + v.Name()
		case *Ref:
			s = "ref to " + v.key.String()
		default:
			s = fmt.Sprintf("%T(%v)", v, v)
		}
	default:
		s = "<none>"
	}

	if k.list {
		return "list[" + s + "]"
	}
	return s
}
