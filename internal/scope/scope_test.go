package scope

import (
	"testing"

	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/typesystem"
)

func TestGetLocalInCurrentFrame(t *testing.T) {
	s := New()
	s.Local()["foo"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TBool{}}

	b, ok := s.Get("foo")
	if !ok {
		t.Fatalf("expected foo to resolve")
	}
	if b.Path.Kind != ir.Local {
		t.Errorf("expected a Local path, got %v", b.Path)
	}
}

func TestGetTransitiveCapture(t *testing.T) {
	// Mirrors original_source/src/namescope.rs's own unit test: two
	// levels of nested scope, each adding one new name, with `bar`
	// resolved transitively from the middle frame into the innermost.
	s := New()
	s.Local()["foxbar"] = Binding{Path: ir.NewConstructor(0, 0), Type: typesystem.TBool{}}
	s.Local()["cnnbar"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TBool{}}

	s.PushLayer()
	s.Local()["bar"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TBool{}}
	s.Local()["foobar"] = Binding{Path: ir.NewCaptureLocal(0, []int{0}), Type: typesystem.TBool{}}

	s.PushLayer()
	s.Local()["foo"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TBool{}}

	got, ok := s.Get("foo")
	if !ok || got.Path.Kind != ir.Local {
		t.Fatalf("expected foo to resolve as Local, got %v, %v", got, ok)
	}

	got, ok = s.Get("bar")
	if !ok {
		t.Fatalf("expected bar to resolve transitively")
	}
	if got.Path.Kind != ir.CaptureLocal {
		t.Fatalf("expected bar to resolve as a capture of its parent's Local, got %v", got.Path)
	}
	if got.Path.Slot != 0 {
		t.Errorf("expected bar's capture to land in slot 0, got %d", got.Path.Slot)
	}
}

func TestGetTransparentThroughStaticAndConstructor(t *testing.T) {
	s := New()
	s.Local()["Cons"] = Binding{Path: ir.NewConstructor(1, 1), Type: typesystem.TBool{}}
	s.Local()["global"] = Binding{Path: ir.NewStaticVal([]int{}), Type: typesystem.TInt{}}

	s.PushLayer()
	s.PushLayer()

	ctor, ok := s.Get("Cons")
	if !ok || ctor.Path.Kind != ir.Constructor {
		t.Fatalf("expected Cons to resolve transparently as Constructor, got %v, %v", ctor, ok)
	}
	g, ok := s.Get("global")
	if !ok || g.Path.Kind != ir.StaticVal {
		t.Fatalf("expected global to resolve transparently as StaticVal, got %v, %v", g, ok)
	}
}

func TestGetMissingName(t *testing.T) {
	s := New()
	if _, ok := s.Get("nope"); ok {
		t.Fatalf("expected lookup of an unbound name to fail")
	}
}

func TestPushPopDrainExtend(t *testing.T) {
	s := New()
	s.Local()["x"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TInt{}}

	s.PushLayer()
	s.Local()["y"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TInt{}}
	popped := s.PopLayer()
	if _, ok := popped["y"]; !ok {
		t.Fatalf("expected popped layer to contain y")
	}
	if s.Exists("y") {
		t.Fatalf("y should no longer be visible after PopLayer")
	}

	s.PushLayer()
	s.Local()["z"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TInt{}}
	s.DrainLocal()
	if s.Exists("z") {
		t.Fatalf("DrainLocal should have removed the Local binding z")
	}

	s.ExtendLocal(map[string]Binding{"w": {Path: ir.NewLocal([]int{1}), Type: typesystem.TInt{}}})
	if !s.Exists("w") {
		t.Fatalf("ExtendLocal should have added w")
	}
}

func TestPopLayerExposesCaptureLocalForClosureConstruction(t *testing.T) {
	// The popped frame's CaptureLocal/CaptureCaptured entries are exactly
	// what lowerFuncLit turns into a Closure's Captures list (see
	// original_source/src/type_check.rs's fn_transform, which does the
	// same filter-and-sort over namescope.pop_layer()'s map).
	s := New()
	s.Local()["cnnbar"] = Binding{Path: ir.NewLocal([]int{0}), Type: typesystem.TInt{}}

	s.PushLayer()
	if _, ok := s.Get("cnnbar"); !ok {
		t.Fatalf("expected cnnbar to resolve via capture")
	}

	popped := s.PopLayer()
	b, ok := popped["cnnbar"]
	if !ok || b.Path.Kind != ir.CaptureLocal {
		t.Fatalf("expected cnnbar to be left as a CaptureLocal entry, got %v, %v", b, ok)
	}
	if b.Path.Slot != 0 || b.Path.Path[0] != 0 {
		t.Errorf("expected CaptureLocal(0, [0]), got slot=%d path=%v", b.Path.Slot, b.Path.Path)
	}
}

func TestPopRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected PopLayer on the root frame to panic")
		}
	}()
	s := New()
	s.PopLayer()
}
