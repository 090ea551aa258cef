package orchestrator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/commandpolicy"
	"github.com/vinayprograms/hma-agent/internal/ephemeral"
	"github.com/vinayprograms/hma-agent/internal/interpreter"
	"github.com/vinayprograms/hma-agent/internal/llm"
)

func newTestRuntime(t *testing.T, provider llm.Provider) (*Runtime, *agent.ManagerAgent) {
	t.Helper()
	root := t.TempDir()

	env := &interpreter.Env{
		ProjectRoot: root,
		Commands:    commandpolicy.Load(filepath.Join(root, "policy.toml"), []string{"ls"}, "test-session"),
	}
	rt := New(env, provider, ephemeral.NewRegistry(), Preambles{
		System:  "you are an orchestrator test fixture",
		Manager: "you are a manager",
		Master:  "you are the master",
	}, 0.0, 1024)
	env.Dispatcher = rt
	env.Events = rt

	master := agent.NewManagerAgent(root, nil, filepath.Join(root, "README.md"), provider, true)
	return rt, master
}

func TestRun_RootFinishesImmediately(t *testing.T) {
	provider := llm.NewMockProvider(`FINISH PROMPT="all done"`)
	rt, master := newTestRuntime(t, provider)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := rt.Run(ctx, master, "build the widget")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != "all done" {
		t.Fatalf("unexpected result: %q", result)
	}
}

func TestRun_ParseErrorIsRecoveredByReprompt(t *testing.T) {
	provider := llm.NewMockProvider(
		"not a valid directive at all",
		`FINISH PROMPT="recovered"`,
	)
	rt, master := newTestRuntime(t, provider)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := rt.Run(ctx, master, "build the widget")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result != "recovered" {
		t.Fatalf("unexpected result: %q", result)
	}
	if len(provider.(*llm.MockProvider).Calls()) != 2 {
		t.Fatalf("expected a reprompt after the parse failure, got %d calls", len(provider.(*llm.MockProvider).Calls()))
	}
}
