package lexer

import (
	"testing"

	"github.com/mnhoque/clog/internal/token"
)

func tokenTypes(t *testing.T, input string) []token.Type {
	t.Helper()
	l := New(input)
	var out []token.Type
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestNextTokenOperatorsAndDelimiters(t *testing.T) {
	input := `rec f = { x => x + 1 }`
	want := []token.Type{
		token.REC, token.IDENT, token.ASSIGN, token.LBRACE,
		token.IDENT, token.ARROW, token.IDENT, token.PLUS, token.INT,
		token.RBRACE, token.EOF,
	}
	got := tokenTypes(t, input)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextTokenConstructorVsIdent(t *testing.T) {
	l := New("Some x")
	ctor := l.NextToken()
	if ctor.Type != token.CONSTRUCTOR || ctor.Literal != "Some" {
		t.Fatalf("expected CONSTRUCTOR Some, got %v", ctor)
	}
	ident := l.NextToken()
	if ident.Type != token.IDENT || ident.Literal != "x" {
		t.Fatalf("expected IDENT x, got %v", ident)
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"a\nb\"c"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %v", tok)
	}
	if tok.Literal != "a\nb\"c" {
		t.Errorf("expected escaped literal %q, got %q", "a\nb\"c", tok.Literal)
	}
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	input := "1 // a comment\n/* block\ncomment */ 2"
	got := tokenTypes(t, input)
	want := []token.Type{token.INT, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextTokenTracksLineAndColumn(t *testing.T) {
	l := New("x\n  y")
	first := l.NextToken()
	if first.Pos.Line != 1 {
		t.Errorf("expected first token on line 1, got %d", first.Pos.Line)
	}
	if first.Pos.Column != 1 {
		t.Errorf("expected first token at column 1, got %d", first.Pos.Column)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 {
		t.Errorf("expected second token on line 2, got %d", second.Pos.Line)
	}
	if second.Pos.Column != 3 {
		t.Errorf("expected second token at column 3, got %d", second.Pos.Column)
	}
}

func TestNextTokenDotDotAndIndexDelimiters(t *testing.T) {
	got := tokenTypes(t, "s[1..2]")
	want := []token.Type{
		token.IDENT, token.LBRACKET, token.INT, token.DOTDOT, token.INT,
		token.RBRACKET, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextTokenUnderscoreIsWildcard(t *testing.T) {
	tok := New("_").NextToken()
	if tok.Type != token.UNDERSCORE {
		t.Fatalf("expected UNDERSCORE, got %v", tok)
	}
}
