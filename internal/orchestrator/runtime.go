// Package orchestrator wires agents, the LLM provider, and the four
// dialect interpreters into the single-flight api_call protocol. It is the
// concrete implementation of interpreter.Dispatcher.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/ephemeral"
	"github.com/vinayprograms/hma-agent/internal/interpreter"
	"github.com/vinayprograms/hma-agent/internal/llm"
	"github.com/vinayprograms/hma-agent/internal/session"
)

// Preambles holds the static text every api_call's system message is built
// from: a shared preamble plus one role-specific preamble per agent kind.
type Preambles struct {
	System  string
	Manager string
	Coder   string
	Tester  string
	Master  string
}

// Runtime is the process-wide orchestrator: it implements
// interpreter.Dispatcher, runs the api_call loop for every agent, and holds
// the final result once the root agent finishes.
type Runtime struct {
	Env         *interpreter.Env
	Provider    llm.Provider
	Ephemerals  *ephemeral.Registry
	Preambles   Preambles
	Temperature float64
	MaxTokens   int
	ScratchRoot string

	// Session is optional: a nil Session makes every log call a no-op, so
	// the orchestrator runs fine without a front-end consuming its log.
	Session *session.Logger

	logger *logging.Logger

	closeOnce   sync.Once
	done        chan struct{}
	finalResult string
	finalErr    error

	mu              sync.Mutex
	testerPreambles map[string]string // tester path -> ephemeral template's role preamble
}

// New constructs a Runtime. env.Dispatcher must be set to the returned
// Runtime by the caller (New does not self-assign, since Env is shared and
// may be constructed before the Runtime exists).
func New(env *interpreter.Env, provider llm.Provider, registry *ephemeral.Registry, preambles Preambles, temperature float64, maxTokens int) *Runtime {
	return &Runtime{
		Env:         env,
		Provider:    provider,
		Ephemerals:  registry,
		Preambles:   preambles,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ScratchRoot:     filepath.Join(env.ProjectRoot, ".hma", "scratch"),
		logger:          logging.New().WithComponent("orchestrator"),
		done:            make(chan struct{}),
		testerPreambles: make(map[string]string),
	}
}

// Run activates root with an initial task built from prompt and blocks
// until the root agent's FINISH (or a terminal activation failure)
// produces a final result.
func (rt *Runtime) Run(ctx context.Context, root *agent.ManagerAgent, prompt string) (string, error) {
	rt.logEvent(session.Event{Type: session.EventSessionStart, Agent: root.Path(), Content: prompt})

	task := &agent.TaskMessage{
		MessageID:  uuid.NewString(),
		TaskID:     uuid.NewString(),
		TaskString: prompt,
		Recipient:  root.Path(),
	}
	rt.dispatchTaskCtx(ctx, root, task)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-rt.done:
		return rt.finalResult, rt.finalErr
	}
}

// logEvent forwards to rt.Session if one is configured.
func (rt *Runtime) logEvent(evt session.Event) {
	if rt.Session != nil {
		rt.Session.Log(evt)
	}
}

// LogCommand implements interpreter.EventSink.
func (rt *Runtime) LogCommand(agentPath, command string, success bool, durationMs int64, errMsg string) {
	s := success
	rt.logEvent(session.Event{
		Type:       session.EventCommandEnd,
		Agent:      agentPath,
		Kind:       command,
		Success:    &s,
		DurationMs: durationMs,
		Content:    errMsg,
	})
}

// DispatchTask implements interpreter.Dispatcher, plus the ctx-carrying
// variant Run needs for the root agent.
func (rt *Runtime) DispatchTask(recipient agent.Agent, task *agent.TaskMessage) {
	rt.dispatchTaskCtx(context.Background(), recipient, task)
}

func (rt *Runtime) dispatchTaskCtx(ctx context.Context, recipient agent.Agent, task *agent.TaskMessage) {
	rt.logEvent(session.Event{
		Type:    session.EventTaskDispatched,
		Agent:   recipient.Path(),
		Peer:    task.Sender,
		Content: task.TaskString,
	})
	rt.route(ctx, recipient, task.TaskString, task)
}

// SpawnTester implements interpreter.Dispatcher.
func (rt *Runtime) SpawnTester(parent agent.Agent, ephemeralType string, task *agent.TaskMessage) (string, error) {
	tpl, ok := rt.Ephemerals.Lookup(ephemeralType)
	if !ok {
		return "", fmt.Errorf("unknown ephemeral type %q", ephemeralType)
	}

	scratchDir := filepath.Join(rt.ScratchRoot, filepath.Base(parent.Path()))
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}

	tester := agent.NewTesterAgent(parent, scratchDir, rt.Provider)
	rt.mu.Lock()
	rt.testerPreambles[tester.Path()] = tpl.RolePreamble
	rt.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), interpreter.TimeoutEphemeral)
	tester.ArmWatchdog(cancel)

	rt.logEvent(session.Event{
		Type:    session.EventTaskDispatched,
		Agent:   tester.Path(),
		Peer:    parent.Path(),
		Kind:    ephemeralType,
		Content: task.TaskString,
	})

	go rt.watchTimeout(ctx, tester)
	go rt.route(ctx, tester, task.TaskString, task)

	return tester.Path(), nil
}

func (rt *Runtime) watchTimeout(ctx context.Context, t *agent.TesterAgent) {
	<-ctx.Done()
	if ctx.Err() != context.DeadlineExceeded {
		return
	}
	if !t.IsActive() {
		return
	}
	t.DisarmWatchdog()
	_ = os.Remove(t.ScratchPadPath)
	if err := t.Deactivate(); err != nil {
		rt.logger.Warn("tester deactivate after timeout failed", map[string]interface{}{"path": t.Path(), "error": err.Error()})
		return
	}
	parent := t.Parent()
	if parent == nil {
		return
	}
	result := &agent.ResultMessage{
		MessageID: uuid.NewString(),
		Result:    "Ephemeral agent timed out after 120s and was terminated",
		Sender:    t.Path(),
		Recipient: parent.Path(),
	}
	rt.DispatchResult(parent, result)
}

// stop ends the run with result/err, as if the root agent had finished.
// Safe to call more than once or concurrently with a normal finish; only
// the first call has any effect.
func (rt *Runtime) stop(result string, err error) {
	rt.closeOnce.Do(func() {
		rt.finalResult = result
		rt.finalErr = err
		close(rt.done)
	})
}

// DispatchResult implements interpreter.Dispatcher.
func (rt *Runtime) DispatchResult(parent agent.Agent, result *agent.ResultMessage) {
	if parent == nil {
		rt.logEvent(session.Event{Type: session.EventSessionEnd, Peer: result.Sender, Content: result.Result})
		rt.stop(result.Result, nil)
		return
	}
	rt.logEvent(session.Event{
		Type:    session.EventResultDispatched,
		Agent:   parent.Path(),
		Peer:    result.Sender,
		Content: result.Result,
	})
	rt.route(context.Background(), parent, result.Result, result)
}

// route dispatches to the prompter matching ag's concrete kind.
func (rt *Runtime) route(ctx context.Context, ag agent.Agent, prompt string, message agent.Message) {
	switch v := ag.(type) {
	case *agent.ManagerAgent:
		rt.managerPrompter(ctx, v, prompt, message)
	case *agent.CoderAgent:
		rt.coderPrompter(ctx, v, prompt, message)
	case *agent.TesterAgent:
		rt.testerSpawner(ctx, v, prompt, message)
	default:
		rt.logger.Error("route: unknown agent kind", map[string]interface{}{"path": ag.Path()})
	}
}
