// corec is the driver binary: command-line parsing, wiring a chosen ast.File fixture
// (fixtures.go stands in for a parser that does not exist yet) into the job scheduler via
// package compile, and printing diagnostics, ending with a final "N error(s) generated."
// summary line. The driver CLI and the parser are external collaborators; this file is the
// thin wiring layer between whatever produces an ast.File and the rest of the pipeline.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"corec/internal/compile"
	"corec/internal/scope"
	"corec/internal/statics"
	"corec/internal/types"
	"corec/internal/util"
)

// run executes one compilation end to end, as directed by opt.
func run(opt util.Options) (*statics.Program, *util.Diagnostics, error) {
	fixture, ok := fixtures[opt.Src]
	if !ok {
		names := make([]string, 0, len(fixtures))
		for n := range fixtures {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, nil, fmt.Errorf("unknown fixture %q (available: %v)", opt.Src, names)
	}

	arch := archSizesOf(opt.TargetArch)
	diags := util.NewDiagnostics(16)
	global := scope.NewGlobalInfo(arch, osNameOf(opt.TargetOS), archNameOf(opt.TargetArch))
	root := scope.New(fixture.Path, nil, true)
	root.Stmts = fixture.Stmts

	start := time.Now()
	driver := compile.NewDriver(global, diags)
	program, err := driver.CompileRoot(root, fixture.Stmts)
	if opt.Verbose {
		log.Printf("scheduler ran in %s, %d diagnostic(s)", time.Since(start), diags.Len())
	}
	return program, diags, err
}

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}
	if opt.Src == "" {
		fmt.Println("usage: corec [-mode debug|release] [-arch x86_64|aarch64|riscv64] [-os linux|windows|mac] [-vb] <fixture-name>")
		os.Exit(1)
	}

	program, diags, err := run(opt)

	if diags != nil {
		for _, d := range diags.All() {
			fmt.Println(d.Error())
		}
		fmt.Printf("%d error(s) generated.\n", diags.Len())
	}
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("entry point: %s\n", program.EntryName)
	for _, s := range program.Statics {
		fmt.Printf("  %s %s\n", staticKindName(s.Kind), s.Name)
	}
}

func staticKindName(k statics.Kind) string {
	switch k {
	case statics.StaticFunction:
		return "function"
	case statics.StaticVariable:
		return "variable"
	case statics.StaticConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// archSizesOf translates the driver's -arch selection into the type sizes the global scope
// must be built with; every supported architecture here is LP64-like (64-bit pointers,
// 32-bit default integer).
func archSizesOf(arch int) types.ArchSizes {
	switch arch {
	case util.Aarch64, util.Riscv64:
		return types.ArchSizes{AddressSize: 64, DefaultIntegerSize: 32, DefaultFloatSize: 64, BooleanSize: 8}
	default:
		return types.ArchSizes{AddressSize: 64, DefaultIntegerSize: 32, DefaultFloatSize: 64, BooleanSize: 8}
	}
}

func osNameOf(os int) string {
	switch os {
	case util.Windows:
		return "Windows"
	case util.MAC:
		return "Mac"
	default:
		return "Linux"
	}
}

func archNameOf(arch int) string {
	switch arch {
	case util.Aarch64:
		return "Aarch64"
	case util.Riscv64:
		return "Riscv64"
	default:
		return "X86_64"
	}
}
