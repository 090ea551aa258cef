package interpreter

import (
	"context"
	"sync"

	"github.com/vinayprograms/hma-agent/internal/agent"
)

// fakeDispatcher records every hand-off the interpreter makes back into
// "the orchestrator", without actually scheduling a prompter.
type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []*agent.TaskMessage
	spawned    []string
	results    []*agent.ResultMessage
	nextID     int
}

func (f *fakeDispatcher) DispatchTask(recipient agent.Agent, task *agent.TaskMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, task)
}

func (f *fakeDispatcher) SpawnTester(parent agent.Agent, ephemeralType string, task *agent.TaskMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := "tester-" + itoa(f.nextID)
	f.spawned = append(f.spawned, id)
	return id, nil
}

func (f *fakeDispatcher) DispatchResult(parent agent.Agent, result *agent.ResultMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// allowAll accepts every command; denyAll accepts none.
type allowAllPolicy struct{}

func (allowAllPolicy) Allowed(ctx context.Context, agentPath, command string) bool { return true }
func (allowAllPolicy) SetParanoid(bool)                                           {}

type denyAllPolicy struct{}

func (denyAllPolicy) Allowed(ctx context.Context, agentPath, command string) bool { return false }
func (denyAllPolicy) SetParanoid(bool)                                           {}
