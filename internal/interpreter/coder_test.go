package interpreter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
)

// TestCoderChange_OverwritesOwnFile covers S2: CHANGE replaces the coder's
// own file wholesale.
func TestCoderChange_OverwritesOwnFile(t *testing.T) {
	root := t.TempDir()
	ownFile := filepath.Join(root, "main.go")
	if err := os.WriteFile(ownFile, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := agent.NewCoderAgent(ownFile, nil, ownFile, nil)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteCoder(context.Background(), env, c, directive.Directive{
		Kind:    directive.KindChange,
		Content: "package main\n\nfunc main() {}\n",
	})

	got := c.DrainQueue()
	if !strings.Contains(got, "CHANGE succeeded") {
		t.Fatalf("expected CHANGE succeeded, got %q", got)
	}
	data, err := os.ReadFile(ownFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package main\n\nfunc main() {}\n" {
		t.Fatalf("unexpected file content: %q", data)
	}
}

// TestCoderReplace_AmbiguousLeavesFileUntouched covers S3 and invariant 3:
// a "from" string occurring more than once refuses the whole REPLACE, and
// the file is left byte-for-byte unchanged.
func TestCoderReplace_AmbiguousLeavesFileUntouched(t *testing.T) {
	root := t.TempDir()
	ownFile := filepath.Join(root, "main.go")
	original := "foo\nfoo\nbar\n"
	if err := os.WriteFile(ownFile, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}
	c := agent.NewCoderAgent(ownFile, nil, ownFile, nil)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteCoder(context.Background(), env, c, directive.Directive{
		Kind: directive.KindReplace,
		Replacements: []directive.ReplaceItem{
			{From: "foo", To: "baz"},
		},
	})

	got := c.DrainQueue()
	if !strings.Contains(got, "Ambiguous") {
		t.Fatalf("expected ambiguity error, got %q", got)
	}
	data, err := os.ReadFile(ownFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Fatalf("expected file untouched, got %q", data)
	}
}

// TestCoderReplace_Succeeds applies a single unambiguous replacement.
func TestCoderReplace_Succeeds(t *testing.T) {
	root := t.TempDir()
	ownFile := filepath.Join(root, "main.go")
	if err := os.WriteFile(ownFile, []byte("foo\nbar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := agent.NewCoderAgent(ownFile, nil, ownFile, nil)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteCoder(context.Background(), env, c, directive.Directive{
		Kind: directive.KindReplace,
		Replacements: []directive.ReplaceItem{
			{From: "foo", To: "baz"},
		},
	})

	got := c.DrainQueue()
	if !strings.Contains(got, "REPLACE succeeded") {
		t.Fatalf("expected REPLACE succeeded, got %q", got)
	}
	data, _ := os.ReadFile(ownFile)
	if string(data) != "baz\nbar\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}

// TestCoderFinish_PropagatesResult covers S5: FINISH deactivates the coder
// and hands a ResultMessage to the parent via the Dispatcher.
func TestCoderFinish_PropagatesResult(t *testing.T) {
	root := t.TempDir()
	parentRoot := root
	parent := agent.NewManagerAgent(parentRoot, nil, readmePathFor(parentRoot), nil, false)
	ownFile := filepath.Join(root, "main.go")
	if err := os.WriteFile(ownFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := agent.NewCoderAgent(ownFile, parent, ownFile, nil)
	if err := c.Activate(&agent.TaskMessage{TaskString: "write main"}); err != nil {
		t.Fatal(err)
	}
	env, disp := newTestEnv(t, root, allowAllPolicy{})

	ExecuteCoder(context.Background(), env, c, directive.Directive{
		Kind:   directive.KindFinish,
		Prompt: "main.go is done",
	})

	if c.IsActive() {
		t.Fatal("expected coder deactivated")
	}
	if len(disp.results) != 1 {
		t.Fatalf("expected one result dispatched, got %d", len(disp.results))
	}
	if disp.results[0].Result != "main.go is done" {
		t.Fatalf("unexpected result: %q", disp.results[0].Result)
	}
	if disp.results[0].Recipient != parent.Path() {
		t.Fatalf("expected recipient %s, got %s", parent.Path(), disp.results[0].Recipient)
	}
}
