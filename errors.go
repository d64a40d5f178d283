package pshot

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyBuilt is returned by registration calls made after Build.
	ErrAlreadyBuilt = errors.New("container already built")

	// ErrNotBuilt is returned by Resolve before Build has completed.
	ErrNotBuilt = errors.New("container not built")

	// ErrNotRegistered is returned when neither a key nor its list form is registered.
	ErrNotRegistered = errors.New("object not registered")

	// ErrObjectNotBuilt is returned when a key is registered but nothing was built for it.
	ErrObjectNotBuilt = errors.New("object not built")

	// ErrNoObjectsBuilt is returned when every registration under a key was filtered out.
	ErrNoObjectsBuilt = errors.New("no objects built")

	// ErrUnboundParameter is returned when a resolvable parameter follows an unresolved one.
	ErrUnboundParameter = errors.New("cannot build partial function")

	// ErrMultipleObjects is returned when a single value is required but a list is built.
	ErrMultipleObjects = errors.New("multiple objects available")

	// ErrIndirectionResult is returned when a factory produces a *Ref.
	ErrIndirectionResult = errors.New("cannot build an indirection as a factory result")

	// ErrUnsupported is returned for registration kind/producer combinations the builder cannot handle.
	ErrUnsupported = errors.New("unsupported registration configuration")
)

// Error is the single error type produced by the container.
// It unwraps to one of the Err* sentinels so callers can use errors.Is.
type Error struct {
	Kind error
	Key  Key
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, key Key, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Key:  key,
		msg:  fmt.Sprintf(format, args...),
	}
}

func errNotRegistered(key Key) error {
	return newError(ErrNotRegistered, key, "object with key %s not registered", key)
}

func errObjectNotBuilt(key Key) error {
	return newError(ErrObjectNotBuilt, key, "object with key %s not built", key)
}

func errNoObjectsBuilt(key Key) error {
	return newError(
		ErrNoObjectsBuilt, key,
		"no objects with key %s were built because built conditions have not been met for any of the registrations",
		key,
	)
}

func errNoObjectsAtRead(key Key) error {
	return newError(
		ErrNoObjectsBuilt, key,
		"no objects with key %s were built because built conditions have not been met for any of the registrations at the moment of resolution",
		key,
	)
}

func errMultipleObjects(key Key) error {
	return newError(
		ErrMultipleObjects, key,
		"cannot resolve dependency from the list registered under key %s because more than one object is available under this key",
		key,
	)
}

func errUnsupported(key Key, format string, args ...any) error {
	return newError(ErrUnsupported, key, "unsupported registration configuration for key %s: %s", key, fmt.Sprintf(format, args...))
}
