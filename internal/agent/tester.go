package agent

import (
	"context"

	"github.com/google/uuid"
	"github.com/vinayprograms/hma-agent/internal/llm"
)

// TesterAgent is an ephemeral agent spawned for a single analysis task. It
// owns a scratch pad file, reports exactly once via ResultMessage, and is
// torn down on FINISH. It cannot outlive its parent's current task.
type TesterAgent struct {
	*Core

	ParentPath     string
	ScratchPadPath string

	cancelWatchdog context.CancelFunc
}

// NewTesterAgent constructs a tester with a uuid-suffixed scratch pad name
// so concurrently spawned testers under the same manager never collide.
// parent is a weak, non-owning back-reference: the tester cannot outlive
// its parent's current task.
func NewTesterAgent(parent Agent, scratchDir string, provider llm.Provider) *TesterAgent {
	name := "scratch_" + uuid.NewString()
	scratchPad := scratchDir + "/" + name + ".py"
	return &TesterAgent{
		Core:           NewCore(scratchPad, parent, KindTester, scratchPad, provider),
		ParentPath:     parent.Path(),
		ScratchPadPath: scratchPad,
	}
}

// ArmWatchdog stores the cancel function for this tester's 120s lifetime
// watchdog, armed at spawn, so FINISH (or orchestrator shutdown) can stop it
// cleanly.
func (t *TesterAgent) ArmWatchdog(cancel context.CancelFunc) {
	t.cancelWatchdog = cancel
}

// DisarmWatchdog cancels any outstanding watchdog for this tester.
func (t *TesterAgent) DisarmWatchdog() {
	if t.cancelWatchdog != nil {
		t.cancelWatchdog()
		t.cancelWatchdog = nil
	}
}
