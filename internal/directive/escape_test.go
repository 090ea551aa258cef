package directive

import "testing"

func TestUnescape(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`a\\b`, `a\b`},
		{`a\"b`, `a"b`},
		{`a\'b`, `a'b`},
		{`a\/b`, `a/b`},
		{`a\nb`, "a\nb"},
		{`a\tb`, "a\tb"},
		{`a\rb`, "a\rb"},
		{`a\bb`, "a\bb"},
		{`a\fb`, "a\fb"},
		{`a\vb`, "a\vb"},
		{`a\qb`, `a\qb`}, // unknown escape passes through untouched
		{`trailing\`, `trailing\`},
	}
	for _, c := range cases {
		if got := unescape(c.in); got != c.want {
			t.Errorf("unescape(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTripleQuotedStringIsVerbatim(t *testing.T) {
	ds, err := ParseCoder(`CHANGE CONTENT="""line one\nnot-an-escape
line two"""`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := "line one\\nnot-an-escape\nline two"
	if ds[0].Content != want {
		t.Errorf("triple-quoted content not verbatim: got %q want %q", ds[0].Content, want)
	}
}
