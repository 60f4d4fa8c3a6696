// Package modkit wires API modules: each module is built from shared Deps,
// mounted under its own prefix and may expose ports to sibling modules
package modkit

import (
	"net/http"

	"profitscout/internal/modkit/module"
	phttp "profitscout/internal/platform/net/http"
	str "profitscout/internal/platform/strings"
)

// Module is the surface the api mounts
type Module = module.Module

// Option adjusts how a module is built
type Option func(*Built)

// Built is the wiring a module receives from its options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// WithPrefix overrides the module's default prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends middleware run on every module route, in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects ports owned by another module; the importing module defines T
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// Build applies opts over the module defaults. It panics on an empty name or
// prefix since both are fixed at compile time
func Build(name, prefix string, opts ...Option) Built {
	b := Built{Name: name, Prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	b.Name = str.MustString(b.Name, "module name")
	b.Prefix = str.MustPrefix(b.Prefix)
	return b
}

// Routes returns a mounter for register under the built prefix and middleware.
// A nil register mounts nothing
func (b Built) Routes(register func(phttp.Router)) Routes {
	return Routes{name: b.Name, prefix: b.Prefix, mw: b.Mw, register: register}
}

// Routes is embedded by modules to satisfy MountRoutes and Name
type Routes struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	register func(phttp.Router)
}

// Name returns the module name
func (r Routes) Name() string { return r.name }

// Prefix returns the mount prefix
func (r Routes) Prefix() string { return r.prefix }

// MountRoutes mounts the module's endpoints on root
func (r Routes) MountRoutes(root phttp.Router) {
	if r.register == nil {
		return
	}
	root.Route(r.prefix, func(sub phttp.Router) {
		if len(r.mw) > 0 {
			sub.Use(r.mw...)
		}
		r.register(sub)
	})
}
