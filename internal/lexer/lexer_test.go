package lexer

import (
	"testing"

	"github.com/otterlang/otterc/internal/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New("test.ot", src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func assertTypes(t *testing.T, toks []token.Token, want ...token.Type) {
	t.Helper()
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d\ngot: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestIndentAndDedent(t *testing.T) {
	src := "def f():\n    x = 1\n    y = 2\nz = 3\n"
	toks := collect(t, src)
	assertTypes(t, toks,
		token.DEF, token.IDENT, token.LPAREN, token.RPAREN, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	)
}

func TestNestedIndent(t *testing.T) {
	src := "if a:\n    if b:\n        c\n    d\ne\n"
	toks := collect(t, src)
	assertTypes(t, toks,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IF, token.IDENT, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.NEWLINE,
		token.DEDENT,
		token.IDENT, token.NEWLINE,
		token.EOF,
	)
}

func TestBlankAndCommentLinesIgnoredForLayout(t *testing.T) {
	src := "x = 1\n\n# a comment\n\ny = 2\n"
	toks := collect(t, src)
	assertTypes(t, toks,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	)
}

func TestBracketsSuppressLayout(t *testing.T) {
	src := "x = (1 +\n     2)\ny = 3\n"
	toks := collect(t, src)
	assertTypes(t, toks,
		token.IDENT, token.ASSIGN, token.LPAREN, token.INT, token.PLUS, token.INT, token.RPAREN, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.EOF,
	)
}

func TestOperators(t *testing.T) {
	src := "a -> b => c == d != e <= f >= g .. h ** i\n"
	toks := collect(t, src)
	assertTypes(t, toks,
		token.IDENT, token.ARROW, token.IDENT, token.FAT_ARROW, token.IDENT, token.EQ, token.IDENT,
		token.NOT_EQ, token.IDENT, token.LESS_EQ, token.IDENT, token.GREATER_EQ, token.IDENT,
		token.DOTDOT, token.IDENT, token.POWER, token.IDENT, token.NEWLINE, token.EOF,
	)
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	src := "def match spawn await fn notakeyword\n"
	toks := collect(t, src)
	assertTypes(t, toks,
		token.DEF, token.MATCH, token.SPAWN, token.AWAIT, token.IDENT, token.IDENT,
		token.NEWLINE, token.EOF,
	)
}

func TestNumberLiterals(t *testing.T) {
	src := "1_000 3.14 2e10 1.5e-3\n"
	toks := collect(t, src)
	assertTypes(t, toks, token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.NEWLINE, token.EOF)
	if toks[0].Literal != "1000" {
		t.Errorf("underscore not stripped: %q", toks[0].Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(t, `"a\nb\tc\"d"` + "\n")
	assertTypes(t, toks, token.STRING, token.NEWLINE, token.EOF)
	want := "a\nb\tc\"d"
	if toks[0].Literal != want {
		t.Errorf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestFStringSimple(t *testing.T) {
	toks := collect(t, `f"hi {name}!"`+"\n")
	assertTypes(t, toks,
		token.F_BEGIN, token.F_EMBED_B, token.IDENT, token.F_EMBED_E, token.F_PART, token.F_END,
		token.NEWLINE, token.EOF,
	)
	if toks[0].Literal != "hi " {
		t.Errorf("F_BEGIN literal = %q", toks[0].Literal)
	}
	if toks[4].Literal != "!" {
		t.Errorf("trailing F_PART literal = %q", toks[4].Literal)
	}
}

func TestFStringNestedBrackets(t *testing.T) {
	toks := collect(t, `f"{ {1: 2}[1] }"`+"\n")
	assertTypes(t, toks,
		token.F_BEGIN, token.F_EMBED_B,
		token.LBRACE, token.INT, token.COLON, token.INT, token.RBRACE,
		token.LBRACK, token.INT, token.RBRACK,
		token.F_EMBED_E, token.F_PART, token.F_END, token.NEWLINE, token.EOF,
	)
}

func TestEscapedBracesInFString(t *testing.T) {
	toks := collect(t, `f"{{literal}}"` + "\n")
	assertTypes(t, toks, token.F_BEGIN, token.F_END, token.NEWLINE, token.EOF)
	if toks[0].Literal != "{literal}" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestTabSpaceMixError(t *testing.T) {
	l := New("test.ot", "def f():\n\t x\n")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected a tab/space mix error")
	}
}

func TestUnindentMismatch(t *testing.T) {
	l := New("test.ot", "if a:\n    x\n  y\n")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected an unindent-does-not-match error")
	}
}

func TestEOFClosesOpenIndents(t *testing.T) {
	src := "def f():\n    x\n"
	toks := collect(t, src)
	last := toks[len(toks)-2]
	if last.Type != token.DEDENT {
		t.Fatalf("expected a synthesized DEDENT before EOF, got %s", last.Type)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("test.ot", "a b c\n")
	first := l.Peek(0)
	second := l.Peek(1)
	if first.Literal != "a" || second.Literal != "b" {
		t.Fatalf("unexpected peek results: %v %v", first, second)
	}
	if got := l.NextToken(); got.Literal != "a" {
		t.Fatalf("NextToken after Peek returned %v, want a", got)
	}
}

func TestUnicodeIdentifierColumns(t *testing.T) {
	src := "café = 1\n"
	l := New("test.ot", src)
	tok := l.NextToken()
	if tok.Literal != "café" {
		t.Fatalf("got %q", tok.Literal)
	}
	assign := l.NextToken()
	if assign.Type != token.ASSIGN {
		t.Fatalf("expected ASSIGN, got %s", assign.Type)
	}
}
