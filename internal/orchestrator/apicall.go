package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
	"github.com/vinayprograms/hma-agent/internal/interpreter"
	"github.com/vinayprograms/hma-agent/internal/llm"
	"github.com/vinayprograms/hma-agent/internal/session"
)

// scheduleAPICall is the single-flight guard: it starts runAPICall in its
// own goroutine only if no call is already in flight for ag and its queue
// is non-empty. Many agents may have a call in flight simultaneously; a
// single agent never does.
func (rt *Runtime) scheduleAPICall(ctx context.Context, ag agent.Agent) {
	if !ag.TryBeginAPICall() {
		return
	}
	go rt.runAPICall(ctx, ag)
}

// runAPICall is the api_call protocol: drain the queue, build the LLM
// input, call the provider, parse the response into directives, execute
// each in order, then reschedule if more work arrived while this call was
// in flight.
func (rt *Runtime) runAPICall(ctx context.Context, ag agent.Agent) {
	consolidated := ag.DrainQueue()
	if consolidated == "" {
		ag.EndAPICall()
		return
	}

	spanCtx, span := rt.startAPICallSpan(ctx, ag.Path(), string(ag.Kind()))

	messages := rt.buildMessages(ag, consolidated)
	response, err := ag.Provider().GenerateResponse(spanCtx, messages, rt.Temperature, rt.MaxTokens)
	if err != nil {
		endAPICallSpan(span, 0, err)
		rt.logEvent(session.Event{Type: session.EventAgentError, Agent: ag.Path(), Content: fmt.Sprintf("LLM call failed: %s", err.Error())})
		ag.Enqueue(fmt.Sprintf("LLM call failed: %s", err.Error()))
		ag.EndAPICall()
		rt.scheduleAPICall(ctx, ag)
		return
	}

	directives, perr := rt.parse(ag.Kind(), response)
	if perr != nil {
		endAPICallSpan(span, 0, perr)
		rt.logEvent(session.Event{Type: session.EventAgentError, Agent: ag.Path(), Content: fmt.Sprintf("PARSING FAILED: %s", perr.Error())})
		ag.Enqueue(fmt.Sprintf("PARSING FAILED: %s", perr.Error()))
		ag.EndAPICall()
		rt.scheduleAPICall(ctx, ag)
		return
	}

	for _, d := range directives {
		dCtx, dSpan := rt.startDirectiveSpan(spanCtx, string(d.Kind))
		rt.execute(dCtx, ag, d)
		dSpan.End()
		rt.logEvent(session.Event{Type: session.EventDirectiveExec, Agent: ag.Path(), Kind: string(d.Kind)})
	}
	endAPICallSpan(span, len(directives), nil)

	ag.EndAPICall()

	if tester, ok := ag.(*agent.TesterAgent); ok && !tester.IsActive() {
		rt.mu.Lock()
		delete(rt.testerPreambles, tester.Path())
		rt.mu.Unlock()
	}

	if ag.IsActive() {
		rt.scheduleAPICall(ctx, ag)
	}
}

func (rt *Runtime) parse(kind agent.Kind, response string) ([]directive.Directive, error) {
	switch kind {
	case agent.KindManager:
		return directive.ParseManager(response)
	case agent.KindMaster:
		return directive.ParseMaster(response)
	case agent.KindCoder:
		return directive.ParseCoder(response)
	case agent.KindTester:
		return directive.ParseTester(response)
	default:
		return nil, fmt.Errorf("unknown agent kind %q", kind)
	}
}

func (rt *Runtime) execute(ctx context.Context, ag agent.Agent, d directive.Directive) {
	switch v := ag.(type) {
	case *agent.ManagerAgent:
		if v.IsMaster() {
			interpreter.ExecuteMaster(ctx, rt.Env, v, d)
		} else {
			interpreter.ExecuteManager(ctx, rt.Env, v, d)
		}
	case *agent.CoderAgent:
		interpreter.ExecuteCoder(ctx, rt.Env, v, d)
	case *agent.TesterAgent:
		interpreter.ExecuteTester(ctx, rt.Env, v, d)
	}
}

// memorySearchThreshold is how many read_memory snapshots an agent must
// have accumulated before buildMessages switches from dumping all of them
// to querying the memory index for the snapshots most relevant to the
// current prompt.
const memorySearchThreshold = 6

// buildMessages assembles the LLM input: static system preamble + role
// preamble + read_memory, then the consolidated prompt. Small memory sets
// are dumped in full; larger ones are narrowed to the most relevant
// snapshots via the agent's Bleve-backed memory index, so read_memory
// doesn't crowd out the prompt itself as an agent reads more of the tree.
func (rt *Runtime) buildMessages(ag agent.Agent, consolidated string) []llm.Message {
	var sb strings.Builder
	sb.WriteString(rt.Preambles.System)
	sb.WriteString("\n\n")
	sb.WriteString(rt.rolePreamble(ag))

	if ag.MemoryCount() > memorySearchThreshold {
		if hits := ag.SearchMemory(consolidated, 5); len(hits) > 0 {
			sb.WriteString("\n\n--- Memory (top matches) ---\n")
			for _, hit := range hits {
				fmt.Fprintf(&sb, "### %s\n%s\n", hit.Path, hit.Excerpt)
			}
		}
	} else if mem := ag.ReadMemory(); len(mem) > 0 {
		sb.WriteString("\n\n--- Memory ---\n")
		for path, content := range mem {
			fmt.Fprintf(&sb, "### %s\n%s\n", path, content)
		}
	}

	return []llm.Message{
		{Role: "system", Content: sb.String()},
		{Role: "user", Content: consolidated},
	}
}

func (rt *Runtime) rolePreamble(ag agent.Agent) string {
	switch v := ag.(type) {
	case *agent.ManagerAgent:
		if v.IsMaster() {
			return rt.Preambles.Master
		}
		return rt.Preambles.Manager
	case *agent.CoderAgent:
		return rt.Preambles.Coder
	case *agent.TesterAgent:
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if p, ok := rt.testerPreambles[v.Path()]; ok && p != "" {
			return p
		}
		return rt.Preambles.Tester
	default:
		return ""
	}
}
