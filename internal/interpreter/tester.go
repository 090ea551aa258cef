package interpreter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
)

// ExecuteTester runs one Tester-language directive against t. Testers are
// ephemeral: FINISH tears down the scratch pad and disarms the watchdog in
// addition to the usual lifecycle bookkeeping.
func ExecuteTester(ctx context.Context, env *Env, t *agent.TesterAgent, d directive.Directive) {
	defer func() {
		if r := recover(); r != nil {
			t.Enqueue(fmt.Sprintf("Exception during execution: %v", r))
		}
	}()

	switch d.Kind {
	case directive.KindRead:
		testerRead(env, t, d)
	case directive.KindRun:
		t.Enqueue(executeRun(ctx, env, t.Path(), filepath.Dir(t.ScratchPadPath), d.Command, TimeoutEphemeral))
	case directive.KindChange:
		testerChange(t, d)
	case directive.KindReplace:
		testerReplace(t, d)
	case directive.KindFinish:
		testerFinish(env, t, d)
	default:
		t.Enqueue(fmt.Sprintf("Exception during execution: unknown directive kind %q", d.Kind))
	}

	env.record(t.Path(), string(d.Kind), "executed")
}

func testerRead(env *Env, t *agent.TesterAgent, d directive.Directive) {
	full, err := resolveInRoot("READ", env.ProjectRoot, d.Path)
	if err != nil {
		t.Enqueue(err.Error())
		return
	}
	data, err := os.ReadFile(full)
	if err != nil {
		t.Enqueue(fmt.Sprintf("READ failed: File not found: %s", d.Path))
		return
	}
	t.ReadMemorySnapshot(d.Path, string(data))
	t.Enqueue(fmt.Sprintf("READ succeeded: %s was added to memory", d.Path))
}

func testerChange(t *agent.TesterAgent, d directive.Directive) {
	if err := atomicWrite(t.ScratchPadPath, []byte(d.Content)); err != nil {
		t.Enqueue(fmt.Sprintf("CHANGE failed: %s", err.Error()))
		return
	}
	t.Enqueue(fmt.Sprintf("CHANGE succeeded: %s was replaced with new content", filepath.Base(t.ScratchPadPath)))
}

func testerReplace(t *agent.TesterAgent, d directive.Directive) {
	data, err := os.ReadFile(t.ScratchPadPath)
	if err != nil {
		t.Enqueue(fmt.Sprintf("REPLACE failed: File not found: %s", filepath.Base(t.ScratchPadPath)))
		return
	}
	out, err := applyReplacements(string(data), d.Replacements, false)
	if err != nil {
		t.Enqueue(err.Error())
		return
	}
	if err := atomicWrite(t.ScratchPadPath, []byte(out)); err != nil {
		t.Enqueue(fmt.Sprintf("REPLACE failed: %s", err.Error()))
		return
	}
	t.Enqueue(fmt.Sprintf("REPLACE succeeded: %s was updated", filepath.Base(t.ScratchPadPath)))
}

func testerFinish(env *Env, t *agent.TesterAgent, d directive.Directive) {
	t.DisarmWatchdog()
	_ = os.Remove(t.ScratchPadPath)

	if err := t.Deactivate(); err != nil {
		t.Enqueue(fmt.Sprintf("FINISH failed: %s", err.Error()))
		return
	}
	finishPropagate(env, t, d.Prompt)
}
