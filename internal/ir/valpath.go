// Package ir defines the intermediate representation the checker
// (internal/analyzer) produces and the interpreter (internal/evaluator)
// consumes: value paths, the closure table, IR expressions, and the
// compiled Module (§3.4, §3.7–§3.9). This is the contract between the
// four core pieces spec.md §2 describes.
package ir

import (
	"fmt"
	"sort"
	"strings"
)

// PathKind discriminates the six ValPath shapes (§3.4).
type PathKind int

const (
	// Local is an offset walk inside the current function's argument frame.
	Local PathKind = iota
	// StaticVal is an offset walk inside the globals frame.
	StaticVal
	// CaptureLocal(slot, path) captures a Local(path) value of the
	// enclosing scope at the time this closure was built.
	CaptureLocal
	// CaptureCaptured(slot, parentSlot) copies capture entry parentSlot of
	// the enclosing closure.
	CaptureCaptured
	// Constructor is not a storage location; applying it builds a sum value.
	Constructor
	// Imported refers to an entry in the external registry.
	Imported
)

// ValPath locates a value inside the three-frame runtime (§3.4). Path is
// the nested-field-index sequence used by Local, StaticVal, and the
// CaptureLocal's path-in-the-enclosing-scope; Slot/ParentSlot address
// capture-table entries; Target/Variant address a constructor; Name
// addresses an external.
type ValPath struct {
	Kind       PathKind
	Path       []int
	Slot       int
	ParentSlot int
	Target     int
	Variant    int
	Name       string
}

// NewLocal, NewStaticVal build the two plain path-rooted ValPaths.
func NewLocal(path []int) ValPath    { return ValPath{Kind: Local, Path: path} }
func NewStaticVal(path []int) ValPath { return ValPath{Kind: StaticVal, Path: path} }

// NewCaptureLocal builds a CaptureLocal(slot, path) entry.
func NewCaptureLocal(slot int, path []int) ValPath {
	return ValPath{Kind: CaptureLocal, Slot: slot, Path: path}
}

// NewCaptureCaptured builds a CaptureCaptured(slot, parentSlot) entry.
func NewCaptureCaptured(slot, parentSlot int) ValPath {
	return ValPath{Kind: CaptureCaptured, Slot: slot, ParentSlot: parentSlot}
}

// NewConstructor builds a Constructor(typeID, variant) marker.
func NewConstructor(typeID, variant int) ValPath {
	return ValPath{Kind: Constructor, Target: typeID, Variant: variant}
}

// NewImported builds an Imported(name) marker.
func NewImported(name string) ValPath { return ValPath{Kind: Imported, Name: name} }

// WithField returns a copy of p (which must be Local or StaticVal or the
// path-carrying form of CaptureLocal) with field appended to its Path —
// the §3.4 "nested field indices" walk.
func (p ValPath) WithField(field int) ValPath {
	next := make([]int, len(p.Path)+1)
	copy(next, p.Path)
	next[len(p.Path)] = field
	p.Path = next
	return p
}

func (p ValPath) String() string {
	switch p.Kind {
	case Local:
		return fmt.Sprintf("Local%v", p.Path)
	case StaticVal:
		return fmt.Sprintf("Static%v", p.Path)
	case CaptureLocal:
		return fmt.Sprintf("CapLocal(%d,%v)", p.Slot, p.Path)
	case CaptureCaptured:
		return fmt.Sprintf("CapCaptured(%d,%d)", p.Slot, p.ParentSlot)
	case Constructor:
		return fmt.Sprintf("Ctor(%d,%d)", p.Target, p.Variant)
	case Imported:
		return fmt.Sprintf("Imported(%s)", p.Name)
	default:
		return "?"
	}
}

// Less imposes the total order §4.2 requires: the constraint map is sorted
// lexicographically by ValPath so that, for a sum value at path p, the tag
// test at p.0 always sorts before any payload test at p.c (c >= 1), since
// 0 < c. Every constraint path the checker ever builds is path-rooted
// (Local), so comparing Kind then Path lexicographically is exactly that
// ordering; the other fields are tiebreakers that are never actually
// exercised by dtree, since Constructor/Imported/CaptureCaptured paths
// never carry a constraint.
func (p ValPath) Less(other ValPath) bool {
	if p.Kind != other.Kind {
		return p.Kind < other.Kind
	}
	for i := 0; i < len(p.Path) && i < len(other.Path); i++ {
		if p.Path[i] != other.Path[i] {
			return p.Path[i] < other.Path[i]
		}
	}
	if len(p.Path) != len(other.Path) {
		return len(p.Path) < len(other.Path)
	}
	if p.Slot != other.Slot {
		return p.Slot < other.Slot
	}
	return p.ParentSlot < other.ParentSlot
}

// Equal reports whether p and other denote the same path.
func (p ValPath) Equal(other ValPath) bool {
	if p.Kind != other.Kind || p.Slot != other.Slot || p.ParentSlot != other.ParentSlot ||
		p.Target != other.Target || p.Variant != other.Variant || p.Name != other.Name {
		return false
	}
	if len(p.Path) != len(other.Path) {
		return false
	}
	for i := range p.Path {
		if p.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}

// ConstraintMap is an ordered (by ValPath.Less) list of path/constraint
// pairs, the map type used throughout §4.2 and §4.4.3.
type ConstraintMap struct {
	entries []constraintEntry
}

type constraintEntry struct {
	path  ValPath
	value ConstraintValue
}

// NewConstraintMap builds a ConstraintMap from an unordered slice of
// entries, sorting them per ValPath.Less (§4.2 "The map is sorted
// lexicographically by ValPath before use").
func NewConstraintMap(paths []ValPath, values []ConstraintValue) *ConstraintMap {
	if len(paths) != len(values) {
		panic("ir: mismatched ConstraintMap slices")
	}
	m := &ConstraintMap{entries: make([]constraintEntry, len(paths))}
	for i := range paths {
		m.entries[i] = constraintEntry{path: paths[i], value: values[i]}
	}
	sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].path.Less(m.entries[j].path) })
	return m
}

// Clone returns a deep copy safe to mutate independently.
func (m *ConstraintMap) Clone() *ConstraintMap {
	out := &ConstraintMap{entries: make([]constraintEntry, len(m.entries))}
	copy(out.entries, m.entries)
	return out
}

// Len reports the number of constrained paths.
func (m *ConstraintMap) Len() int { return len(m.entries) }

// Lookup returns the constraint on path, if any.
func (m *ConstraintMap) Lookup(path ValPath) (ConstraintValue, bool) {
	for _, e := range m.entries {
		if e.path.Equal(path) {
			return e.value, true
		}
	}
	return ConstraintValue{}, false
}

// Remove deletes the entry for path, if present, returning its value.
func (m *ConstraintMap) Remove(path ValPath) (ConstraintValue, bool) {
	for i, e := range m.entries {
		if e.path.Equal(path) {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e.value, true
		}
	}
	return ConstraintValue{}, false
}

// First returns the lowest-sorted entry, if any — the next test the
// decision-tree builder inserts when building a fresh spine (§4.2 step 1).
func (m *ConstraintMap) First() (ValPath, ConstraintValue, bool) {
	if len(m.entries) == 0 {
		return ValPath{}, ConstraintValue{}, false
	}
	return m.entries[0].path, m.entries[0].value, true
}

// Entries returns the entries in sorted order (for building a spine).
func (m *ConstraintMap) Entries() []struct {
	Path  ValPath
	Value ConstraintValue
} {
	out := make([]struct {
		Path  ValPath
		Value ConstraintValue
	}, len(m.entries))
	for i, e := range m.entries {
		out[i] = struct {
			Path  ValPath
			Value ConstraintValue
		}{e.path, e.value}
	}
	return out
}

func (m *ConstraintMap) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", e.path, e.value)
	}
	b.WriteString("}")
	return b.String()
}

// ConstraintValue is one of the three per-path pattern constraints §3.5
// defines.
type ConstraintValue struct {
	Kind constraintKind
	K, N int    // Finite(k, n)
	I    int64  // Int(i)
	S    string // Str(s)
}

type constraintKind int

const (
	ConstraintFinite constraintKind = iota
	ConstraintInt
	ConstraintStr
)

func Finite(k, n int) ConstraintValue  { return ConstraintValue{Kind: ConstraintFinite, K: k, N: n} }
func IntConstraint(i int64) ConstraintValue { return ConstraintValue{Kind: ConstraintInt, I: i} }
func StrConstraint(s string) ConstraintValue { return ConstraintValue{Kind: ConstraintStr, S: s} }

func (c ConstraintValue) Equal(o ConstraintValue) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ConstraintFinite:
		return c.K == o.K && c.N == o.N
	case ConstraintInt:
		return c.I == o.I
	case ConstraintStr:
		return c.S == o.S
	}
	return false
}

func (c ConstraintValue) String() string {
	switch c.Kind {
	case ConstraintFinite:
		return fmt.Sprintf("Finite(%d,%d)", c.K, c.N)
	case ConstraintInt:
		return fmt.Sprintf("Int(%d)", c.I)
	case ConstraintStr:
		return fmt.Sprintf("Str(%q)", c.S)
	default:
		return "?"
	}
}
