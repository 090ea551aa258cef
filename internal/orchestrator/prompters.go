package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vinayprograms/hma-agent/internal/agent"
)

// managerPrompter and masterPrompter share an implementation: Master is a
// ManagerAgent with IsMaster() true, and the Master language is the
// Manager language plus SECURITY, handled by ExecuteMaster at the
// interpreter layer.
func (rt *Runtime) managerPrompter(ctx context.Context, m *agent.ManagerAgent, prompt string, message agent.Message) {
	if !rt.activateOrBubble(m, message) {
		return
	}
	prompt = rt.handleChildResult(m, prompt, message)
	m.Enqueue(prompt)
	rt.scheduleAPICall(ctx, m)
}

func (rt *Runtime) coderPrompter(ctx context.Context, c *agent.CoderAgent, prompt string, message agent.Message) {
	if !rt.activateOrBubble(c, message) {
		return
	}
	prompt = rt.handleChildResult(c, prompt, message)
	c.Enqueue(prompt)
	rt.scheduleAPICall(ctx, c)
}

// testerSpawner has the same shape as the other prompters: a freshly
// spawned tester has no children, so step 2 (child-result handling) never
// applies to it on its first activation.
func (rt *Runtime) testerSpawner(ctx context.Context, t *agent.TesterAgent, prompt string, message agent.Message) {
	if !rt.activateOrBubble(t, message) {
		return
	}
	t.Enqueue(prompt)
	rt.scheduleAPICall(ctx, t)
}

// activateOrBubble activates ag when message is a TaskMessage. On
// activation failure it routes upward: with a parent, it enqueues an
// ActivationError prompt on the parent and schedules the parent's
// api_call; with no parent (ag is the root), there is nowhere to route
// to, so per the ActivationError policy it logs the failure and stops the
// run instead of leaving it hung waiting on a result that will never
// arrive. Either way it reports false so the caller does not proceed.
func (rt *Runtime) activateOrBubble(ag agent.Agent, message agent.Message) bool {
	task, ok := message.(*agent.TaskMessage)
	if !ok {
		return true
	}
	if err := ag.Activate(task); err != nil {
		parent := ag.Parent()
		if parent != nil {
			parent.Enqueue(fmt.Sprintf("Activation failed for agent %s: %s", ag.Path(), err.Error()))
			rt.scheduleAPICall(context.Background(), parent)
			return false
		}
		rt.logger.Error("activation failed with no parent to notify; stopping run", map[string]interface{}{"path": ag.Path(), "error": err.Error()})
		rt.stop("", err)
		return false
	}
	return true
}

// handleChildResult implements step 2 of the prompter contract: on a
// ResultMessage, remove the sender from active_children/active_ephemerals
// and prefix the prompt with "[<child-name>] ".
func (rt *Runtime) handleChildResult(ag agent.Agent, prompt string, message agent.Message) string {
	result, ok := message.(*agent.ResultMessage)
	if !ok {
		return prompt
	}

	childName := filepath.Base(result.Sender)

	switch v := ag.(type) {
	case *agent.ManagerAgent:
		if !v.ReceiveChildResult(result.Sender) {
			v.EphemeralDone(result.Sender)
		}
	case *agent.CoderAgent:
		v.EphemeralDone(result.Sender)
	}

	return fmt.Sprintf("[%s] %s", childName, prompt)
}
