// Package backend defines the fixed output contract toward a code generator: a Consumer
// interface that receives the finished RuntimeStatic list plus a name-mapping callback. No
// instruction selection, register allocation, or object-file emission lives here — that is a
// real backend's job; this package only fixes the shape it would implement against.
package backend

import "corec/internal/statics"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Consumer is implemented by an out-of-scope code generator. Emit receives the complete,
// entry-point-resolved program; nameOf lets the backend ask, for any runtime-static's source
// name, the identifier it should actually emit under (e.g. after target-specific mangling) —
// a pure query with no side effect on compilation.
type Consumer interface {
	Emit(program *statics.Program, nameOf func(sourceName string) string) error
}

// ---------------------
// ----- functions -----
// ---------------------

// IdentityNameOf is the trivial NameOf a Consumer can use when no mangling is required: the
// per-declaration no_mangle tag already opts individual declarations out of mangling;
// IdentityNameOf models the same thing program-wide for a Consumer that performs none at all.
func IdentityNameOf(sourceName string) string {
	return sourceName
}
