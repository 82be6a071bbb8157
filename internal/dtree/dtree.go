// Package dtree builds and checks the decision tree (§3.6, §4.2) that
// dispatches a pattern match to the right arm. It is grounded on
// original_source/src/dtree.rs's Tree::singular/Tree::modify_with, with
// the Finite branch-index and off-by-one issues the Rust source's own
// comments flag (spec.md §9) resolved per the authoritative convention:
// Finite(k, n) with k in 0..n, branch index equals k.
package dtree

import "github.com/mnhoque/clog/internal/ir"

// Kind discriminates the four DTree node shapes (§3.6).
type Kind int

const (
	Empty Kind = iota
	Exit
	Finite
	Infinite
)

// Tree is a decision tree node. Empty is an uncovered case; Exit dispatches
// to match arm ArmIndex; Finite tests Value and branches one of exactly
// N(=len(Branches)) ways; Infinite tests Value against the listed constants
// in Branches, falling through to Default otherwise.
type Tree struct {
	Kind     Kind
	ArmIndex int

	Value    ir.ValPath
	Branches []*Tree // Finite: exactly n branches, indexed 0..n-1

	InfiniteBranches map[ir.ConstraintValue]*Tree // Infinite
	Default          *Tree                        // Infinite
}

// IsDTree satisfies ir.DTreeNode, letting a *Tree sit in a Closure's DTree
// field without internal/ir importing internal/dtree (which would cycle,
// since internal/dtree imports internal/ir for ValPath/ConstraintValue).
func (t *Tree) IsDTree() {}

func exitNode(arm int) *Tree { return &Tree{Kind: Exit, ArmIndex: arm} }
func emptyNode() *Tree       { return &Tree{Kind: Empty} }

// clone deep-copies a tree so that inserting into one branch never aliases
// another (§4.2 step 1: "other" branches / defaults copy the old tree).
func clone(t *Tree) *Tree {
	if t == nil {
		return emptyNode()
	}
	switch t.Kind {
	case Empty, Exit:
		cp := *t
		return &cp
	case Finite:
		branches := make([]*Tree, len(t.Branches))
		for i, b := range t.Branches {
			branches[i] = clone(b)
		}
		return &Tree{Kind: Finite, Value: t.Value, Branches: branches}
	case Infinite:
		branches := make(map[ir.ConstraintValue]*Tree, len(t.InfiniteBranches))
		for k, v := range t.InfiniteBranches {
			branches[k] = clone(v)
		}
		return &Tree{Kind: Infinite, Value: t.Value, InfiniteBranches: branches, Default: clone(t.Default)}
	default:
		panic("dtree: unknown kind in clone")
	}
}

// Builder accumulates arms into a single Tree via repeated AddPattern
// calls. Each added arm has higher precedence than arms already present,
// so callers add arms in reverse source order to let earlier arms win.
type Builder struct {
	tree *Tree
}

// NewBuilder returns a builder whose tree starts Empty.
func NewBuilder() *Builder {
	return &Builder{tree: emptyNode()}
}

// AddPattern inserts arm `exit` with higher precedence than arms already
// in the tree, per the map consumed by `constraints` (already produced in
// sorted order by ir.NewConstraintMap).
func (b *Builder) AddPattern(constraints *ir.ConstraintMap, exit int) {
	b.tree = insert(b.tree, constraints.Clone(), exit)
}

// Tree returns the tree built so far.
func (b *Builder) Tree() *Tree { return b.tree }

// singular builds a fresh spine from the (remaining) sorted constraints,
// ending in tail (§4.2 step 1). Entries are consumed from the highest-
// sorted down to the lowest so that the lowest-sorted (e.g. a sum tag at
// path p.0) ends up as the outermost test — matching the outer loop of
// Tree::singular, which iterates the sorted map in reverse.
func singular(constraints *ir.ConstraintMap, tail *Tree) *Tree {
	entries := constraints.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		path, value := entries[i].Path, entries[i].Value
		switch value.Kind {
		case ir.ConstraintFinite:
			branches := make([]*Tree, value.N)
			for i := range branches {
				branches[i] = emptyNode()
			}
			branches[value.K] = tail
			tail = &Tree{Kind: Finite, Value: path, Branches: branches}
		default: // Int or Str
			tail = &Tree{
				Kind:             Infinite,
				Value:            path,
				InfiniteBranches: map[ir.ConstraintValue]*Tree{value: tail},
				Default:          emptyNode(),
			}
		}
	}
	return tail
}

// insert implements the five-case recursion of §4.2.
func insert(t *Tree, constraints *ir.ConstraintMap, exit int) *Tree {
	switch t.Kind {
	case Empty, Exit:
		// Case 1: replace with a fresh spine ending in Exit(exit); the
		// "other" branches/default of any inserted test copy the old t
		// (its lower-precedence behavior).
		return singularWithFallback(constraints, exitNode(exit), t)

	case Finite:
		if value, ok := constraints.Lookup(t.Value); ok {
			// Case 2: recurse into the branch the constraint selects.
			if value.Kind != ir.ConstraintFinite {
				panic("dtree: infinite constraint on a Finite-tested path")
			}
			constraints.Remove(t.Value)
			t.Branches[value.K] = insert(t.Branches[value.K], constraints, exit)
			return t
		}
		// Case 3: the new map doesn't constrain this path; recurse into
		// every branch with its own copy of the map.
		for i, b := range t.Branches {
			t.Branches[i] = insert(b, constraints.Clone(), exit)
		}
		return t

	case Infinite:
		if value, ok := constraints.Lookup(t.Value); ok {
			// Case 4: recurse into the matching branch if present, else
			// insert a new one built from the reduced map, falling
			// through to Empty (nothing existed here before).
			constraints.Remove(t.Value)
			if existing, ok := t.InfiniteBranches[value]; ok {
				t.InfiniteBranches[value] = insert(existing, constraints, exit)
			} else {
				t.InfiniteBranches[value] = singular(constraints, exitNode(exit))
			}
			return t
		}
		// Case 5: recurse into every listed branch and into default.
		for k, b := range t.InfiniteBranches {
			t.InfiniteBranches[k] = insert(b, constraints.Clone(), exit)
		}
		t.Default = insert(t.Default, constraints, exit)
		return t

	default:
		panic("dtree: unknown kind in insert")
	}
}

// singularWithFallback is singular, except the innermost tail's
// "otherwise" branches copy fallback instead of being freshly Empty —
// used only when replacing an Empty/Exit leaf (case 1), so that arms
// already represented by that leaf remain reachable through the new
// test's other branches.
func singularWithFallback(constraints *ir.ConstraintMap, tail, fallback *Tree) *Tree {
	entries := constraints.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		path, value := entries[i].Path, entries[i].Value
		switch value.Kind {
		case ir.ConstraintFinite:
			branches := make([]*Tree, value.N)
			for i := range branches {
				branches[i] = clone(fallback)
			}
			branches[value.K] = tail
			tail = &Tree{Kind: Finite, Value: path, Branches: branches}
		default:
			tail = &Tree{
				Kind:             Infinite,
				Value:            path,
				InfiniteBranches: map[ir.ConstraintValue]*Tree{value: tail},
				Default:          clone(fallback),
			}
		}
	}
	return tail
}

// CheckResult is the outcome of CheckSoundComplete.
type CheckResult struct {
	NonExhaustive bool
	Redundant     []int // arm indices unreachable in the finished tree
}

// OK reports whether the tree is both exhaustive and non-redundant.
func (r CheckResult) OK() bool { return !r.NonExhaustive && len(r.Redundant) == 0 }

// CheckSoundComplete walks t, collecting which of the m expected exit
// indices are reachable (§4.2 soundness/completeness check, §8 "Decision-
// tree exhaustiveness"). A reachable Empty means NonExhaustive; an exit
// index that is never reached means that arm is Redundant.
func CheckSoundComplete(t *Tree, m int) CheckResult {
	reachable := make(map[int]bool, m)
	var nonExhaustive bool
	var walk func(*Tree)
	walk = func(t *Tree) {
		switch t.Kind {
		case Empty:
			nonExhaustive = true
		case Exit:
			reachable[t.ArmIndex] = true
		case Finite:
			for _, b := range t.Branches {
				walk(b)
			}
		case Infinite:
			for _, b := range t.InfiniteBranches {
				walk(b)
			}
			walk(t.Default)
		}
	}
	walk(t)

	var redundant []int
	for i := 0; i < m; i++ {
		if !reachable[i] {
			redundant = append(redundant, i)
		}
	}
	return CheckResult{NonExhaustive: nonExhaustive, Redundant: redundant}
}
