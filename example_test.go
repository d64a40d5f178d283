package pshot_test

import (
	"context"
	"fmt"

	"github.com/overdevelop/pshot"
)

func Example() {
	type Greeter func(name string) string

	c := pshot.New()
	_ = c.RegisterSingleton("Hello", pshot.WithKey(pshot.Name("greeting")))
	_ = c.RegisterSingleton(
		pshot.FuncOf("greet", func(greeting, name string) string {
			return greeting + ", " + name + "!"
		}, "greeting", "name"),
		pshot.WithKey(pshot.TypeKey[Greeter]()),
	)
	if err := c.Build(); err != nil {
		fmt.Println(err)
		return
	}

	greet := pshot.MustResolve[Greeter](c, pshot.TypeKey[Greeter]())
	fmt.Println(greet("world"))
	// Output: Hello, world!
}

func ExampleListOf() {
	c := pshot.New()
	_ = c.RegisterSingleton(11, pshot.WithKey(pshot.Name("n")))
	_ = c.RegisterSingleton(2, pshot.WithKey(pshot.Name("n")), pshot.When(pshot.FuncOf("off", func() bool { return false })))
	_ = c.RegisterSingleton(13, pshot.WithKey(pshot.Name("n")))
	if err := c.Build(); err != nil {
		fmt.Println(err)
		return
	}

	ns, _ := pshot.Resolve[[]int](c, pshot.ListOf(pshot.Name("n")))
	fmt.Println(ns)
	// Output: [11 13]
}

func ExampleFromSelect() {
	c := pshot.New()
	_ = c.RegisterSingleton(&Config{DB: DBConfig{DSN: "postgres://localhost"}}, pshot.WithKey(pshot.TypeKey[*Config]()))
	_ = c.RegisterSingleton(
		pshot.FromSelect(pshot.TypeKey[*Config](), func(cfg *Config) string { return cfg.DB.DSN }),
		pshot.WithKey(pshot.Name("dsn")),
	)
	if err := c.Build(); err != nil {
		fmt.Println(err)
		return
	}

	dsn, _ := pshot.Resolve[string](c, pshot.Name("dsn"))
	fmt.Println(dsn)
	// Output: postgres://localhost
}

func ExampleInjectReturns() {
	c := pshot.New()
	_ = c.RegisterSingleton(21, pshot.WithKey(pshot.Name("base")))
	_ = c.RegisterSingleton(
		pshot.AsyncFuncOf("makeDoubler", func(context.Context) *pshot.Func {
			return pshot.FuncOf("double", func(base int) int { return base * 2 }, "base")
		}),
		pshot.WithKey(pshot.Name("makeDoubler")),
		pshot.InjectReturns(),
	)
	if err := c.Build(); err != nil {
		fmt.Println(err)
		return
	}

	makeDoubler := pshot.MustResolve[*pshot.Func](c, pshot.Name("makeDoubler"))
	fut, _ := makeDoubler.Call()
	double, _ := pshot.Await[func() int](context.Background(), fut)
	fmt.Println(double())
	// Output: 42
}
