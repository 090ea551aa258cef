package interpreter

import (
	"context"
	"strings"
	"testing"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
)

// TestMasterSecurity_SetsMode verifies SECURITY updates the root agent's
// command-checking mode.
func TestMasterSecurity_SetsMode(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, true)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteMaster(context.Background(), env, m, directive.Directive{
		Kind:         directive.KindSecurity,
		SecurityMode: "paranoid",
	})

	got := m.DrainQueue()
	if !strings.Contains(got, "SECURITY succeeded") {
		t.Fatalf("expected SECURITY succeeded, got %q", got)
	}
	if m.SecurityMode() != "paranoid" {
		t.Fatalf("expected paranoid mode, got %q", m.SecurityMode())
	}
}

// TestMasterSecurity_RejectsUnknownMode verifies an unrecognized mode leaves
// the security mode unchanged.
func TestMasterSecurity_RejectsUnknownMode(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, true)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteMaster(context.Background(), env, m, directive.Directive{
		Kind:         directive.KindSecurity,
		SecurityMode: "research",
	})

	got := m.DrainQueue()
	if !strings.Contains(got, "SECURITY failed") {
		t.Fatalf("expected SECURITY failed, got %q", got)
	}
	if m.SecurityMode() != "default" {
		t.Fatalf("expected mode unchanged, got %q", m.SecurityMode())
	}
}

// TestMasterDelegate_DelegatesToManagerExecution verifies non-SECURITY
// directives fall through to the shared manager implementation.
func TestMasterDelegate_DelegatesToManagerExecution(t *testing.T) {
	root := t.TempDir()
	m := agent.NewManagerAgent(root, nil, readmePathFor(root), nil, true)
	env, _ := newTestEnv(t, root, allowAllPolicy{})

	ExecuteMaster(context.Background(), env, m, directive.Directive{
		Kind:       directive.KindCreate,
		TargetKind: directive.TargetFile,
		Path:       "notes.go",
	})

	got := m.DrainQueue()
	if !strings.Contains(got, "CREATE succeeded") {
		t.Fatalf("expected CREATE succeeded, got %q", got)
	}
}
