package rpc

import (
	"context"
	"fmt"
	"sort"

	"pos-service/internal/middleware"
	"pos-service/internal/service"
)

type handlerFunc func(ctx context.Context, in any) (any, error)

// Procedure связывает имя, тип входа, обработчик и правило доступа.
type Procedure struct {
	Name string
	Rule middleware.Rule

	newInput func() any
	call     handlerFunc
}

// Proc регистрирует обработчик с типизированным входом.
func Proc[In any, Out any](name string, rule middleware.Rule, fn func(context.Context, In) (Out, error)) Procedure {
	return Procedure{
		Name:     name,
		Rule:     rule,
		newInput: func() any { return new(In) },
		call: func(ctx context.Context, in any) (any, error) {
			return fn(ctx, *(in.(*In)))
		},
	}
}

// NoInput используется для процедур без входных данных.
func NoInput[Out any](name string, rule middleware.Rule, fn func(context.Context) (Out, error)) Procedure {
	return Proc(name, rule, func(ctx context.Context, _ service.Empty) (Out, error) {
		return fn(ctx)
	})
}

type Registry struct {
	procs map[string]Procedure
}

func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]Procedure)}
}

// Register паникует на повторном имени: реестр собирается один раз при старте.
func (r *Registry) Register(ps ...Procedure) {
	for _, p := range ps {
		if p.Name == "" || p.call == nil {
			panic("rpc: procedure without name or handler")
		}
		if _, dup := r.procs[p.Name]; dup {
			panic(fmt.Sprintf("rpc: duplicate procedure %q", p.Name))
		}
		if p.Rule.Kind == middleware.KindPermission && p.Rule.Permission == "" {
			panic(fmt.Sprintf("rpc: procedure %q has a permission rule without a permission", p.Name))
		}
		r.procs[p.Name] = p
	}
}

func (r *Registry) Lookup(name string) (Procedure, bool) {
	p, ok := r.procs[name]
	return p, ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.procs))
	for n := range r.procs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Validate проверяет, что каждое упомянутое право есть в каталоге.
func (r *Registry) Validate(known func(string) bool) error {
	for _, name := range r.Names() {
		p := r.procs[name]
		if p.Rule.Kind == middleware.KindPermission && !known(p.Rule.Permission) {
			return fmt.Errorf("procedure %q references unknown permission %q", name, p.Rule.Permission)
		}
	}
	return nil
}
