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

func newTestEnv(t *testing.T, root string, commands CommandPolicy) (*Env, *fakeDispatcher) {
	t.Helper()
	disp := &fakeDispatcher{}
	return &Env{ProjectRoot: root, Commands: commands, Dispatcher: disp}, disp
}

// TestManagerRead_Succeeds covers S1: READ of an in-scope file snapshots it
// into memory and enqueues a success prompt.
func TestManagerRead_Succeeds(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind:       directive.KindRead,
		TargetKind: directive.TargetFile,
		Path:       "notes.txt",
	})

	got := m.DrainQueue()
	if !strings.Contains(got, "READ succeeded") {
		t.Fatalf("expected READ succeeded, got %q", got)
	}
	if m.ReadMemory()["notes.txt"] != "hello" {
		t.Fatalf("expected snapshot of notes.txt, got %v", m.ReadMemory())
	}
}

// TestManagerDelegate_OutOfScope covers S6: delegating to a target the
// manager does not own is refused with the exact scope-error wording, and no
// task is dispatched.
func TestManagerDelegate_OutOfScope(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	env, disp := newTestEnv(t, root, allowAllPolicy{})

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind: directive.KindDelegate,
		Delegations: []directive.DelegateItem{
			{Target: "missing.go", TargetKind: directive.TargetFile, Prompt: "fix it"},
		},
	})

	got := m.DrainQueue()
	want := "DELEGATE failed: The following targets are not within this manager's scope – missing.go"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(disp.dispatched) != 0 {
		t.Fatalf("expected no dispatch, got %d", len(disp.dispatched))
	}
}

// TestManagerRun_CommandRejected covers invariant 7: a command outside the
// allow-list is refused before any subprocess is spawned.
func TestManagerRun_CommandRejected(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	env, _ := newTestEnv(t, root, denyAllPolicy{})

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind:    directive.KindRun,
		Command: "rm -rf /",
	})

	got := m.DrainQueue()
	want := "RUN failed: Invalid command: rm -rf /"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestManagerCreate_RegistersChild verifies CREATE of a file registers a
// CoderAgent as an owned child.
func TestManagerCreate_RegistersChild(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind:       directive.KindCreate,
		TargetKind: directive.TargetFile,
		Path:       "new_file.go",
	})

	got := m.DrainQueue()
	if !strings.Contains(got, "CREATE succeeded") {
		t.Fatalf("expected CREATE succeeded, got %q", got)
	}
	childPath := filepath.Join(root, "new_file.go")
	if _, ok := m.Child(childPath); !ok {
		t.Fatalf("expected child registered at %s", childPath)
	}
	if _, err := os.Stat(childPath); err != nil {
		t.Fatalf("expected file created on disk: %v", err)
	}
}

// TestManagerFinish_RefusedWithActiveChildren verifies FINISH reports the
// exact active-children/ephemerals count and does not deactivate.
func TestManagerFinish_RefusedWithActiveChildren(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, false)
	if err := m.Activate(&agent.TaskMessage{TaskString: "do work"}); err != nil {
		t.Fatal(err)
	}
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind:       directive.KindCreate,
		TargetKind: directive.TargetFile,
		Path:       "child.go",
	})
	m.DrainQueue()

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind:       directive.KindDelegate,
		Delegations: []directive.DelegateItem{{Target: "child.go", TargetKind: directive.TargetFile, Prompt: "go"}},
	})

	ExecuteManager(context.Background(), env, m, directive.Directive{
		Kind:   directive.KindFinish,
		Prompt: "all done",
	})

	got := m.DrainQueue()
	want := "FINISH failed: Cannot finish with 1 active children and 0 active ephemeral agents"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !m.IsActive() {
		t.Fatal("expected manager to remain active")
	}
}
