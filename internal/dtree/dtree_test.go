package dtree

import (
	"testing"

	"github.com/mnhoque/clog/internal/ir"
)

func constraints(paths []ir.ValPath, values []ir.ConstraintValue) *ir.ConstraintMap {
	return ir.NewConstraintMap(paths, values)
}

// buildListMatch models `match xs { Nil () => 0, Cons (h, t) => 1 }`,
// where only the tag at Local{0} is tested; the Cons payload's fields
// carry no constraints.
func buildListMatch(t *testing.T) *Tree {
	t.Helper()
	b := NewBuilder()
	// arms added in reverse precedence order per the builder contract.
	b.AddPattern(constraints(
		[]ir.ValPath{ir.NewLocal([]int{0})},
		[]ir.ConstraintValue{ir.Finite(1, 2)},
	), 1) // Cons arm
	b.AddPattern(constraints(
		[]ir.ValPath{ir.NewLocal([]int{0})},
		[]ir.ConstraintValue{ir.Finite(0, 2)},
	), 0) // Nil arm
	return b.Tree()
}

func TestBuildAndDispatchExhaustive(t *testing.T) {
	tree := buildListMatch(t)
	res := CheckSoundComplete(tree, 2)
	if !res.OK() {
		t.Fatalf("expected sound+complete tree, got %+v", res)
	}
	if tree.Kind != Finite {
		t.Fatalf("expected root Finite test, got %v", tree.Kind)
	}
	if got, want := len(tree.Branches), 2; got != want {
		t.Fatalf("expected %d branches, got %d", want, got)
	}
	if tree.Branches[0].Kind != Exit || tree.Branches[0].ArmIndex != 0 {
		t.Errorf("branch 0 should exit to arm 0, got %+v", tree.Branches[0])
	}
	if tree.Branches[1].Kind != Exit || tree.Branches[1].ArmIndex != 1 {
		t.Errorf("branch 1 should exit to arm 1, got %+v", tree.Branches[1])
	}
}

func TestNonExhaustiveMissingArm(t *testing.T) {
	b := NewBuilder()
	b.AddPattern(constraints(
		[]ir.ValPath{ir.NewLocal([]int{0})},
		[]ir.ConstraintValue{ir.Finite(0, 2)},
	), 0) // only Nil covered
	res := CheckSoundComplete(b.Tree(), 1)
	if !res.NonExhaustive {
		t.Fatalf("expected non-exhaustive result, got %+v", res)
	}
}

func TestRedundantArmUnreachable(t *testing.T) {
	b := NewBuilder()
	// A wildcard arm added first (lowest precedence) covers everything,
	// then an arm for Nil is added, then a duplicate Nil arm with even
	// higher precedence, which takes every Nil case and leaves arm 1
	// unreachable.
	b.AddPattern(constraints(nil, nil), 0) // catch-all, arm 0
	b.AddPattern(constraints(
		[]ir.ValPath{ir.NewLocal([]int{0})},
		[]ir.ConstraintValue{ir.Finite(0, 2)},
	), 1) // Nil, arm 1 (higher precedence, reachable)
	b.AddPattern(constraints(
		[]ir.ValPath{ir.NewLocal([]int{0})},
		[]ir.ConstraintValue{ir.Finite(0, 2)},
	), 2) // duplicate Nil, arm 2 (highest precedence, shadows arm 1's slot)

	res := CheckSoundComplete(b.Tree(), 3)
	if res.NonExhaustive {
		t.Fatalf("expected exhaustive (catch-all present), got %+v", res)
	}
	foundRedundant := false
	for _, i := range res.Redundant {
		if i == 1 {
			foundRedundant = true
		}
	}
	if !foundRedundant {
		t.Fatalf("expected arm 1 to be shadowed/redundant, got redundant=%v", res.Redundant)
	}
}

func TestInfiniteConstraintDispatch(t *testing.T) {
	b := NewBuilder()
	b.AddPattern(constraints(nil, nil), 1) // wildcard, lower precedence
	b.AddPattern(constraints(
		[]ir.ValPath{ir.NewLocal([]int{0})},
		[]ir.ConstraintValue{ir.IntConstraint(42)},
	), 0) // literal 42, higher precedence

	tree := b.Tree()
	if tree.Kind != Infinite {
		t.Fatalf("expected root Infinite test, got %v", tree.Kind)
	}
	match, ok := tree.InfiniteBranches[ir.IntConstraint(42)]
	if !ok {
		t.Fatalf("expected a branch for literal 42")
	}
	if match.Kind != Exit || match.ArmIndex != 0 {
		t.Errorf("branch for 42 should exit to arm 0, got %+v", match)
	}
	if tree.Default == nil || tree.Default.Kind != Exit || tree.Default.ArmIndex != 1 {
		t.Errorf("default branch should exit to arm 1, got %+v", tree.Default)
	}

	res := CheckSoundComplete(tree, 2)
	if !res.OK() {
		t.Fatalf("expected sound+complete tree, got %+v", res)
	}
}
