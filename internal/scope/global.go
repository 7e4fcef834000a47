// global.go builds the default GlobalInfo a driver injects before compilation starts
// : primitive type names, built-in function stubs, and OS/architecture boolean
// flags.
package scope

import "corec/internal/types"

// ---------------------
// ----- functions -----
// ---------------------

// builtinNames is the set of built-in function stubs recognised by the constant evaluator
// : size_of and type_of are handled specially there; the remainder are
// ordinary BuiltinFunction constants a program can reference by name.
var builtinNames = []string{"size_of", "type_of"}

// NewGlobalInfo builds the default global-constant list for the given architecture: the
// primitive type names (u8..i64, bool, void, f32, f64, usize, uint, type), the built-in
// function stubs, and the OS/architecture flags named osLinux, osWindows, osMac, archX86_64,
// archAarch64, archRiscv64, set true for the single flag matching os/arch and false for the
// rest.
// os and archKind name the single flag to set true, e.g. "Linux" and "X86_64"; every other
// flag defaults to false.
func NewGlobalInfo(arch types.ArchSizes, os, archKind string) *GlobalInfo {
	gi := &GlobalInfo{Arch: arch, Constants: make(map[string]types.Value, 32)}

	typeConst := func(t *types.Type) types.Value {
		return types.Value{Type: &types.Type{Kind: types.TypeType}, TypeVal: t}
	}

	gi.Constants["i8"] = typeConst(types.NewInt(8, true))
	gi.Constants["i16"] = typeConst(types.NewInt(16, true))
	gi.Constants["i32"] = typeConst(types.NewInt(32, true))
	gi.Constants["i64"] = typeConst(types.NewInt(64, true))
	gi.Constants["u8"] = typeConst(types.NewInt(8, false))
	gi.Constants["u16"] = typeConst(types.NewInt(16, false))
	gi.Constants["u32"] = typeConst(types.NewInt(32, false))
	gi.Constants["u64"] = typeConst(types.NewInt(64, false))
	gi.Constants["f32"] = typeConst(types.NewFloat(32))
	gi.Constants["f64"] = typeConst(types.NewFloat(64))
	gi.Constants["bool"] = typeConst(&types.Type{Kind: types.Bool})
	gi.Constants["void"] = typeConst(&types.Type{Kind: types.Void})
	gi.Constants["type"] = typeConst(&types.Type{Kind: types.TypeType})
	gi.Constants["usize"] = typeConst(types.NewInt(arch.AddressSize, false))
	gi.Constants["uint"] = typeConst(types.NewInt(arch.DefaultIntegerSize, false))

	for _, n := range builtinNames {
		gi.Constants[n] = types.Value{
			Type:        &types.Type{Kind: types.BuiltinFunction},
			BuiltinName: n,
		}
	}

	boolConst := func(b bool) types.Value {
		return types.Value{Type: &types.Type{Kind: types.Bool}, Bool: b}
	}
	for _, n := range []string{"osLinux", "osWindows", "osMac"} {
		gi.Constants[n] = boolConst(false)
	}
	for _, n := range []string{"archX86_64", "archAarch64", "archRiscv64"} {
		gi.Constants[n] = boolConst(false)
	}
	if v, ok := gi.Constants["os"+capitalize(os)]; ok {
		_ = v
		gi.Constants["os"+capitalize(os)] = boolConst(true)
	}
	if v, ok := gi.Constants["arch"+capitalize(archKind)]; ok {
		_ = v
		gi.Constants["arch"+capitalize(archKind)] = boolConst(true)
	}
	return gi
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
