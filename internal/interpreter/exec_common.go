package interpreter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vinayprograms/hma-agent/internal/agent"
)

// executeRun is the shared RUN implementation for every dialect: allow-list
// check, subprocess spawn with a watchdog, output formatting. It returns
// the follow-up prompt text to enqueue on the acting agent.
func executeRun(ctx context.Context, env *Env, agentPath, cwd, command string, timeout time.Duration) string {
	if !env.Commands.Allowed(ctx, agentPath, command) {
		env.logCommand(agentPath, command, false, 0, "command not allowed")
		return (&CommandRejected{Command: command}).Error()
	}

	start := time.Now()
	r, err := runCommand(ctx, cwd, command, timeout)
	durationMs := time.Since(start).Milliseconds()
	if err != nil {
		env.logCommand(agentPath, command, false, durationMs, err.Error())
		return fmt.Sprintf("RUN failed: %s", err.Error())
	}
	if r.TimedOut {
		env.logCommand(agentPath, command, false, durationMs, "timed out")
		return timeoutMessage(int(timeout / time.Second))
	}
	env.logCommand(agentPath, command, r.ExitCode == 0, durationMs, "")
	return formatRunOutcome(r)
}

// finishPropagate emits a ResultMessage for self's completion. If self has
// a parent, the result routes to the parent's prompter via the
// Dispatcher; otherwise (root agent) the orchestrator records the
// run's final_result.
func finishPropagate(env *Env, self agent.Agent, prompt string) {
	result := &agent.ResultMessage{
		MessageID: uuid.NewString(),
		Result:    prompt,
		Sender:    self.Path(),
	}
	parent := self.Parent()
	if parent != nil {
		result.Recipient = parent.Path()
	}
	env.Dispatcher.DispatchResult(parent, result)
}

// readmePathFor returns the "<folder>_README.md" path for a manager
// agent's own directory, per the external-interfaces contract.
func readmePathFor(dir string) string {
	return filepath.Join(dir, filepath.Base(dir)+"_README.md")
}
