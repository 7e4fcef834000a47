// lookup.go implements scope-chain name resolution: walk up to the root, then fall through
// to the driver-supplied GlobalInfo.
package scope

import "corec/internal/types"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// GlobalInfo is the process-wide, immutable-after-initialisation configuration: architecture
// sizes plus the built-in global-constant list (primitive type names, built-in function
// stubs, OS/architecture boolean flags).
type GlobalInfo struct {
	Arch      types.ArchSizes
	Constants map[string]types.Value
}

// Result is the outcome of a scope-chain lookup.
type Result struct {
	Local   *Decl        // Non-nil when name resolved to a scope declaration.
	Const   *types.Value // Non-nil when name resolved to a scope-local constant or a global.
	WaitOn  int          // Valid when Found is false and a pending static-if might shadow name.
	Waiting bool
	Found   bool
}

// ---------------------
// ----- functions -----
// ---------------------

// Lookup resolves name by walking s and its ancestors, then falling through to gi. It does
// not itself suspend; callers (package sema, via package job) interpret a Waiting result by
// retrying the lookup once WaitOn's job is Done.
func Lookup(s *Scope, gi *GlobalInfo, name string) Result {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.LocalConst(name); ok {
			vv := v
			return Result{Const: &vv, Found: true}
		}
		if d, ok := cur.Local(name); ok {
			return Result{Local: d, Found: true}
		}
		for _, p := range cur.PendingStaticIfs {
			if p.Names[name] {
				return Result{WaitOn: p.JobID, Waiting: true}
			}
		}
	}
	if v, ok := gi.Constants[name]; ok {
		vv := v
		return Result{Const: &vv, Found: true}
	}
	return Result{}
}
