// Package statics implements the final sweep: collecting every generated function, static
// variable, and interned static constant into one ordered RuntimeStatic list and resolving
// the program's entry point. This single whole-program pass runs after every job-scheduled
// resolution has settled, rather than walking the AST directly.
package statics

import (
	"fmt"

	"corec/internal/ir"
	"corec/internal/scope"
	"corec/internal/types"
	"corec/internal/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind discriminates the three record shapes defines.
type Kind int

const (
	StaticFunction Kind = iota
	StaticVariable
	StaticConstant
)

// RuntimeStatic is one emittable program-level record: a function body, a mutable static
// variable with its initial image, or an interned/explicit static constant.
type RuntimeStatic struct {
	Kind Kind
	Name string

	Function *ir.Function // StaticFunction.

	Type      *types.Type // StaticVariable, StaticConstant.
	InitImage []byte       // StaticVariable, StaticConstant: nil for a zero-initialised variable.

	Extern    bool
	NoMangle  bool
	Libraries []string
}

// Program is the final output of a successful compilation: the ordered runtime-static list
// plus the resolved entry point's name.
type Program struct {
	Statics   []RuntimeStatic
	EntryName string
}

// ---------------------
// ----- functions -----
// ---------------------

// Collector accumulates RuntimeStatic records from package compile: each function (with its
// interned constants) as its body job finishes, then every static variable once the scheduler
// has run. That order carries through to the emitted program.
type Collector struct {
	statics []RuntimeStatic
	seen    map[string]bool
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]bool, 64)}
}

// AddFunction records a generated function body plus any constants interned while generating
// it, and returns false without recording anything if name has already been added (two call
// sites sharing one polymorphic instantiation must not double-emit its body).
func (c *Collector) AddFunction(name string, fn *ir.Function, extern bool, noMangle bool, libraries []string, interned []ir.InternedConstant) bool {
	if c.seen[name] {
		return false
	}
	c.seen[name] = true
	c.statics = append(c.statics, RuntimeStatic{Kind: StaticFunction, Name: name, Function: fn, Extern: extern, NoMangle: noMangle, Libraries: libraries})
	for _, ic := range interned {
		c.addConstant(ic.Name, ic.Type, ic.Image)
	}
	return true
}

// AddVariable records a resolved static variable and its (possibly nil) initial image.
func (c *Collector) AddVariable(name string, t *types.Type, image []byte, extern, noMangle bool, libraries []string) {
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.statics = append(c.statics, RuntimeStatic{Kind: StaticVariable, Name: name, Type: t, InitImage: image, Extern: extern, NoMangle: noMangle, Libraries: libraries})
}

func (c *Collector) addConstant(name string, t *types.Type, image []byte) {
	if c.seen[name] {
		return
	}
	c.seen[name] = true
	c.statics = append(c.statics, RuntimeStatic{Kind: StaticConstant, Name: name, Type: t, InitImage: image})
}

// Finish resolves the entry point against root and returns the completed
// Program, or an error if `main` is missing or has the wrong shape.
func (c *Collector) Finish(root *scope.Scope, diags *util.Diagnostics) (*Program, error) {
	entry, err := ResolveEntryPoint(root)
	if err != nil {
		return nil, err
	}
	return &Program{Statics: c.statics, EntryName: entry}, nil
}

// ResolveEntryPoint implements : search root's top-level declaration table (no
// `using`/external visibility) for `main`; it must be a resolved, zero-parameter function
// returning a signed 32-bit integer.
func ResolveEntryPoint(root *scope.Scope) (string, error) {
	d, ok := root.Local("main")
	if !ok {
		return "", fmt.Errorf("no entry point: top-level declaration \"main\" not found")
	}
	if !d.Resolved {
		return "", fmt.Errorf("entry point \"main\" never resolved")
	}
	if d.Type.Kind != types.Function {
		return "", fmt.Errorf("entry point \"main\" must be a function, got %s", d.Type.Kind)
	}
	if len(d.Type.Params) != 0 {
		return "", fmt.Errorf("entry point \"main\" must take zero parameters, got %d", len(d.Type.Params))
	}
	if d.Type.Return == nil || d.Type.Return.Kind != types.I32 {
		return "", fmt.Errorf("entry point \"main\" must return a signed 32-bit integer")
	}
	return d.Name, nil
}
