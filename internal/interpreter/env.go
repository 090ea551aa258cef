package interpreter

import (
	"github.com/vinayprograms/hma-agent/internal/agent"
)

// Dispatcher is the narrow seam back into the orchestrator that DELEGATE
// and SPAWN need. Interpreters never call an LLM or schedule an api_call
// themselves — Dispatcher is how a directive hands a TaskMessage to "the
// right prompter" without the interpreter package importing orchestrator
// (which imports interpreter), per the design note on dynamic dispatch.
type Dispatcher interface {
	// DispatchTask activates recipient with task and schedules its
	// prompter (manager_prompter or coder_prompter, chosen by
	// recipient.Kind()).
	DispatchTask(recipient agent.Agent, task *agent.TaskMessage)

	// SpawnTester creates a new TesterAgent under parent, activates it
	// with task, and schedules tester_spawner. It returns the new
	// tester's path, used as the ephemeral id.
	SpawnTester(parent agent.Agent, ephemeralType string, task *agent.TaskMessage) (string, error)

	// DispatchResult routes a ResultMessage to its parent's prompter. If
	// parent is nil (the root agent finished), the orchestrator stores
	// result.Result as the run's final_result instead.
	DispatchResult(parent agent.Agent, result *agent.ResultMessage)
}

// Recorder persists one record per executed directive for the replay
// ledger (internal/checkpoint). Optional: a nil Recorder is a no-op.
type Recorder interface {
	RecordDirective(agentPath string, kind string, outcome string)
}

// EventSink forwards RUN invocations to the session log (internal/session).
// Optional: a nil EventSink is a no-op.
type EventSink interface {
	LogCommand(agentPath, command string, success bool, durationMs int64, errMsg string)
}

// Env is the process-wide immutable configuration every interpreter call
// reads: the ProjectRoot anchor, the command allow-list, and the seams
// back into the orchestrator and the session/checkpoint ledgers.
type Env struct {
	ProjectRoot string
	Commands    CommandPolicy
	Dispatcher  Dispatcher
	Recorder    Recorder
	Events      EventSink
}

func (e *Env) record(agentPath string, kind string, outcome string) {
	if e.Recorder != nil {
		e.Recorder.RecordDirective(agentPath, kind, outcome)
	}
}

func (e *Env) logCommand(agentPath, command string, success bool, durationMs int64, errMsg string) {
	if e.Events != nil {
		e.Events.LogCommand(agentPath, command, success, durationMs, errMsg)
	}
}
