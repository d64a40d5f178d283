// Package pshot is a dependency injection container that wires callables by
// partial application.
//
// Producers (values, *Func callables or *Ref indirections) are registered
// under keys, the container is built once, and lookups are served from the
// built values. When a registered *Func declares parameters whose names or
// keys match other registrations, the container binds them and stores a
// *Func reduced to its remaining parameters:
//
//	c := pshot.New()
//	_ = c.RegisterSingleton(10, pshot.WithKey(pshot.Name("base")))
//	add := pshot.FuncOf("add", func(base, n int) int { return base + n }, "base", "n")
//	_ = c.RegisterSingleton(add, pshot.WithKey(pshot.Name("add")))
//	_ = c.Build()
//
//	addTo := pshot.MustResolve[func(int) int](c, pshot.Name("add"))
//	addTo(5) // 15
//
// Several registrations under one key are aggregated. ListOf(key) resolves
// every surviving producer in registration order; key itself resolves only
// when exactly one survived.
//
// Singleton kinds are built once and every read returns the same value.
// Transient kinds are rebuilt on each read and their conditions are checked
// on each read as well.
//
// Cyclic dependencies are not detected.
package pshot
