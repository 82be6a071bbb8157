// Package registry is the process-lifetime table of external functions
// (§4.7, §6) a program may call through ir.ValPath{Kind: ir.Imported}.
// Grounded on original_source/cerebral/src/stdlib.rs's std_imports/
// std_call, turned into an ordinary package-level map instead of an
// unsafe-initialized static mut — Go gives us package-init ordering and a
// real map type, so there is nothing left to guard with unsafe.
package registry

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mnhoque/clog/internal/config"
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/typesystem"
)

// Value is the minimal value shape an external function needs, mirrored
// by the evaluator's own runtime value so the registry never imports the
// evaluator: a Native function operates only on these four shapes, and the
// evaluator converts to/from its own Value at the call boundary.
type Value interface {
	registryValue()
}

type (
	Unit   struct{}
	Int    struct{ V int64 }
	Bool   struct{ V bool }
	String struct{ V string }
)

func (Unit) registryValue()   {}
func (Int) registryValue()    {}
func (Bool) registryValue()   {}
func (String) registryValue() {}

// Native is one external function: it may fail (e.g. a real I/O error),
// reported as a Go error rather than a language-level exception since
// externals sit entirely outside the type-checked IR (§ Non-goals).
type Native func(Value) (Value, error)

// Entry pairs an external's declared type (what Imports exposes to the
// analyzer) with its implementation.
type Entry struct {
	Type typesystem.Type
	Fn   Native
}

var table = map[string]Entry{
	config.PrintFuncName:    {Type: typesystem.TFunc{From: typesystem.TString{}, To: typesystem.TUnit{}}, Fn: nativePrint},
	config.I2StrFuncName:    {Type: typesystem.TFunc{From: typesystem.TInt{}, To: typesystem.TString{}}, Fn: nativeI2Str},
	config.ReadlineFuncName: {Type: typesystem.TFunc{From: typesystem.TUnit{}, To: typesystem.TString{}}, Fn: nativeReadline},
	config.LenFuncName:      {Type: typesystem.TFunc{From: typesystem.TString{}, To: typesystem.TInt{}}, Fn: nativeLen},
}

var stdin = bufio.NewReader(os.Stdin)

// Imports returns, for every registered external, the ValPath/Type pair
// the analyzer installs into the top-level name scope (§4.4.1) — the
// counterpart of std_imports, except it never mutates global state since
// `table` is already fully initialized at package load.
func Imports() map[string]struct {
	Path ir.ValPath
	Type typesystem.Type
} {
	out := make(map[string]struct {
		Path ir.ValPath
		Type typesystem.Type
	}, len(table))
	for name, entry := range table {
		out[name] = struct {
			Path ir.ValPath
			Type typesystem.Type
		}{Path: ir.NewImported(name), Type: entry.Type}
	}
	return out
}

// Call invokes the named external with arg, returning an error if the
// name is not registered (an evaluator-side invariant violation: the
// analyzer only ever emits Imported paths for names Imports() returned)
// or if the native implementation itself fails.
func Call(name string, arg Value) (Value, error) {
	entry, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("registry: no external named %q", name)
	}
	return entry.Fn(arg)
}

func nativePrint(v Value) (Value, error) {
	s, ok := v.(String)
	if !ok {
		return nil, fmt.Errorf("registry: print expects a string, got %T", v)
	}
	fmt.Print(s.V)
	return Unit{}, nil
}

func nativeI2Str(v Value) (Value, error) {
	i, ok := v.(Int)
	if !ok {
		return nil, fmt.Errorf("registry: i2str expects an int, got %T", v)
	}
	return String{V: fmt.Sprintf("%d", i.V)}, nil
}

func nativeReadline(v Value) (Value, error) {
	if _, ok := v.(Unit); !ok {
		return nil, fmt.Errorf("registry: readline expects unit, got %T", v)
	}
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("registry: readline: %w", err)
	}
	return String{V: line}, nil
}

// nativeLen returns the string's UTF-8 byte length, deliberately distinct
// from the Index/slice operators' code-point addressing (§6): a Go string
// is already a byte sequence, so len(s.V) is the byte count directly.
func nativeLen(v Value) (Value, error) {
	s, ok := v.(String)
	if !ok {
		return nil, fmt.Errorf("registry: len expects a string, got %T", v)
	}
	return Int{V: int64(len(s.V))}, nil
}
