package registry

import "testing"

func TestImportsCoversRequiredMinimum(t *testing.T) {
	imports := Imports()
	for _, name := range []string{"print", "i2str", "readline", "len"} {
		if _, ok := imports[name]; !ok {
			t.Errorf("expected %q to be registered", name)
		}
	}
}

func TestCallI2Str(t *testing.T) {
	got, err := Call("i2str", Int{V: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := got.(String)
	if !ok || s.V != "42" {
		t.Fatalf("expected String(42), got %#v", got)
	}
}

func TestCallLenCountsBytesNotCodePoints(t *testing.T) {
	// "héllo" is 5 code points but 6 bytes: é encodes as two UTF-8 bytes.
	got, err := Call("len", String{V: "héllo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i, ok := got.(Int)
	if !ok || i.V != 6 {
		t.Fatalf("expected byte length 6, got %#v", got)
	}
}

func TestCallWrongArgumentShapeErrors(t *testing.T) {
	if _, err := Call("i2str", String{V: "nope"}); err == nil {
		t.Fatalf("expected an error for a type-mismatched native call")
	}
}

func TestCallUnknownNameErrors(t *testing.T) {
	if _, err := Call("does-not-exist", Unit{}); err == nil {
		t.Fatalf("expected an error calling an unregistered external")
	}
}
