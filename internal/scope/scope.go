// Package scope implements the name-scope stack (§4.3) the analyzer
// pushes a layer onto for every lexical block (function branch, let
// binding, match arm) and pops when that block's names go out of scope.
// Grounded on original_source/src/namescope.rs's NameScope/ScopeList,
// translated from its unsafe linked-list-of-boxes into an ordinary Go
// slice of frames — nothing here needs raw pointers or unsafe borrows.
package scope

import (
	"github.com/mnhoque/clog/internal/ir"
	"github.com/mnhoque/clog/internal/typesystem"
)

// Binding is what a name resolves to: where to read it from, and its
// type.
type Binding struct {
	Path ir.ValPath
	Type typesystem.Type
}

type frame struct {
	local      map[string]Binding
	capturesSz int
}

// Stack is a chain of lexical scopes, innermost last. A fresh Stack has
// exactly one frame (the top level / globals frame).
type Stack struct {
	frames []*frame
}

// New returns a Stack with a single, empty frame.
func New() *Stack {
	return &Stack{frames: []*frame{newFrame()}}
}

func newFrame() *frame { return &frame{local: make(map[string]Binding)} }

// PushLayer opens a new innermost scope, e.g. on entering a function
// branch's pattern bindings.
func (s *Stack) PushLayer() {
	s.frames = append(s.frames, newFrame())
}

// PopLayer closes the innermost scope and returns its bindings, e.g. once
// a function branch's body has been lowered. Panics if called on the
// root frame, mirroring the Rust source's head.take().unwrap().
func (s *Stack) PopLayer() map[string]Binding {
	if len(s.frames) <= 1 {
		panic("scope: PopLayer called with no layer to pop")
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top.local
}

// DrainLocal removes every Local-kind binding from the innermost frame,
// leaving captures and statics in place — used between successive
// function branches of the same FuncLit, which share a capture table but
// not each other's argument bindings.
func (s *Stack) DrainLocal() {
	top := s.frames[len(s.frames)-1]
	for k, b := range top.local {
		if b.Path.Kind == ir.Local {
			delete(top.local, k)
		}
	}
}

// ExtendLocal merges bindings into the innermost frame.
func (s *Stack) ExtendLocal(bindings map[string]Binding) {
	top := s.frames[len(s.frames)-1]
	for k, b := range bindings {
		top.local[k] = b
	}
}

// Local returns the innermost frame's bindings directly, for callers
// (the analyzer's pattern lowering) that build up a branch's bindings
// incrementally rather than through ExtendLocal.
func (s *Stack) Local() map[string]Binding {
	return s.frames[len(s.frames)-1].local
}

// Exists reports whether key is bound anywhere in the scope chain,
// without performing any capture insertion.
func (s *Stack) Exists(key string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].local[key]; ok {
			return true
		}
	}
	return false
}

// Get resolves key, inserting CaptureLocal/CaptureCaptured entries along
// every intervening frame as needed so that a later lookup of the same
// key in any of those frames is O(1) (§4.3's transitive capture). A
// StaticVal or Constructor binding is transparent: it never triggers a
// capture chain, since both denote process-lifetime values reachable
// from any frame directly.
func (s *Stack) Get(key string) (Binding, bool) {
	top := s.frames[len(s.frames)-1]
	if b, ok := top.local[key]; ok {
		return b, true
	}

	var lengths []int
	foundAt := -1
	for i := len(s.frames) - 2; i >= 0; i-- {
		f := s.frames[i]
		b, ok := f.local[key]
		if !ok {
			lengths = append(lengths, f.capturesSz)
			continue
		}
		if b.Path.Kind == ir.StaticVal || b.Path.Kind == ir.Constructor {
			return b, true
		}
		foundAt = i
		break
	}
	if foundAt == -1 {
		return Binding{}, false
	}

	found := s.frames[foundAt].local[key]
	idx := len(s.frames) - 1
	for _, length := range lengths {
		insertCaptured(s.frames[idx], key, ir.NewCaptureCaptured(length, 0), found.Type)
		idx--
	}
	insertCaptured(s.frames[idx], key, found.Path, found.Type)

	return s.Get(key)
}

// insertCaptured records a capture of pathUp (a binding one frame out)
// into f's own local map, under a freshly allocated capture slot. The
// stored path serves double duty, exactly as in fn_transform/gen_captures:
// inside this frame's own body it is read by slot number alone (captures[i]
// at runtime); when this frame's FuncLit is finally lowered, the very same
// path, read against the ENCLOSING frame, is how the closure's value is
// constructed at the use site — so the finished Closure.Captures list is
// simply every CaptureLocal/CaptureCaptured entry left in this frame's
// local map once popped, sorted by slot (see lowerFuncLit).
func insertCaptured(f *frame, key string, pathUp ir.ValPath, typ typesystem.Type) {
	var pathDown ir.ValPath
	switch pathUp.Kind {
	case ir.Local:
		pathDown = ir.NewCaptureLocal(f.capturesSz, pathUp.Path)
	case ir.CaptureLocal:
		pathDown = ir.NewCaptureCaptured(f.capturesSz, pathUp.Slot)
	case ir.CaptureCaptured:
		pathDown = ir.NewCaptureCaptured(f.capturesSz, pathUp.Slot)
	default:
		panic("scope: capturing a static or constructor path is not expected")
	}
	f.local[key] = Binding{Path: pathDown, Type: typ}
	f.capturesSz++
}
