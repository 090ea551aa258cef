package interpreter

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
)

// TestTesterChange_WritesScratchPad verifies CHANGE writes the tester's own
// scratch pad file, creating it if absent.
func TestTesterChange_WritesScratchPad(t *testing.T) {
	root := t.TempDir()
	parent := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	tester := agent.NewTesterAgent(parent, root, nil)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteTester(context.Background(), env, tester, directive.Directive{
		Kind:    directive.KindChange,
		Content: "print('hi')\n",
	})

	got := tester.DrainQueue()
	if !strings.Contains(got, "CHANGE succeeded") {
		t.Fatalf("expected CHANGE succeeded, got %q", got)
	}
	data, err := os.ReadFile(tester.ScratchPadPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "print('hi')\n" {
		t.Fatalf("unexpected scratch pad content: %q", data)
	}
}

// TestTesterFinish_RemovesScratchPadAndPropagates verifies FINISH tears down
// the scratch pad file and reports a ResultMessage to the spawning parent.
func TestTesterFinish_RemovesScratchPadAndPropagates(t *testing.T) {
	root := t.TempDir()
	parent := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	tester := agent.NewTesterAgent(parent, root, nil)
	if err := tester.Activate(&agent.TaskMessage{TaskString: "run the tests"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tester.ScratchPadPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	env, disp := newTestEnv(t, root, allowAllPolicy{})

	ExecuteTester(context.Background(), env, tester, directive.Directive{
		Kind:   directive.KindFinish,
		Prompt: "tests pass",
	})

	if _, err := os.Stat(tester.ScratchPadPath); !os.IsNotExist(err) {
		t.Fatalf("expected scratch pad removed, stat err = %v", err)
	}
	if len(disp.results) != 1 || disp.results[0].Result != "tests pass" {
		t.Fatalf("expected result propagated, got %+v", disp.results)
	}
	if disp.results[0].Recipient != parent.Path() {
		t.Fatalf("expected recipient %s, got %q", parent.Path(), disp.results[0].Recipient)
	}
}
