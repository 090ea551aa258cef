package interpreter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/directive"
)

// ExecuteManager runs one Manager-language directive against m. It never
// panics out to the caller: any unexpected failure is caught and turned
// into an "Exception during execution" follow-up prompt, exactly like
// every other directive outcome.
func ExecuteManager(ctx context.Context, env *Env, m *agent.ManagerAgent, d directive.Directive) {
	defer func() {
		if r := recover(); r != nil {
			m.Enqueue(fmt.Sprintf("Exception during execution: %v", r))
		}
	}()

	switch d.Kind {
	case directive.KindRead:
		managerRead(env, m, d)
	case directive.KindRun:
		managerRun(ctx, env, m, d)
	case directive.KindDelegate:
		managerDelegate(env, m, d)
	case directive.KindSpawn:
		managerSpawn(env, m, d)
	case directive.KindCreate:
		managerCreate(env, m, d)
	case directive.KindDelete:
		managerDelete(env, m, d)
	case directive.KindUpdateReadme:
		managerUpdateReadme(env, m, d)
	case directive.KindWait:
		managerWait(m)
	case directive.KindFinish:
		managerFinish(env, m, d)
	default:
		m.Enqueue(fmt.Sprintf("Exception during execution: unknown directive kind %q", d.Kind))
	}

	env.record(m.Path(), string(d.Kind), "executed")
}

func managerRead(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	if d.TargetKind == directive.TargetFolder {
		folderPath := filepath.Join(m.Path(), d.Path)
		data, err := os.ReadFile(readmePathFor(folderPath))
		if err != nil {
			m.Enqueue(fmt.Sprintf("READ failed: File not found: %s", d.Path))
			return
		}
		m.ReadMemorySnapshot(d.Path, string(data))
		m.Enqueue(fmt.Sprintf("READ succeeded: %s was added to memory", d.Path))
		return
	}

	full, err := resolveInRoot("READ", env.ProjectRoot, filepath.Join(m.Path(), d.Path))
	if err != nil {
		m.Enqueue(err.Error())
		return
	}
	data, err := os.ReadFile(full)
	if err != nil {
		m.Enqueue(fmt.Sprintf("READ failed: File not found: %s", d.Path))
		return
	}
	m.ReadMemorySnapshot(d.Path, string(data))
	m.Enqueue(fmt.Sprintf("READ succeeded: %s was added to memory", d.Path))
}

func managerRun(ctx context.Context, env *Env, m *agent.ManagerAgent, d directive.Directive) {
	msg := executeRun(ctx, env, m.Path(), m.Path(), d.Command, TimeoutPersistent)
	m.Enqueue(msg)
}

func managerDelegate(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	children := m.Children()
	var missing []string
	resolved := make([]struct {
		child agent.Agent
		item  directive.DelegateItem
	}, 0, len(d.Delegations))

	for _, item := range d.Delegations {
		childPath := filepath.Join(m.Path(), item.Target)
		child, ok := children[childPath]
		if !ok {
			missing = append(missing, item.Target)
			continue
		}
		resolved = append(resolved, struct {
			child agent.Agent
			item  directive.DelegateItem
		}{child, item})
	}

	if len(missing) > 0 {
		m.Enqueue(fmt.Sprintf("DELEGATE failed: The following targets are not within this manager's scope – %s", joinSorted(missing)))
		return
	}

	for _, r := range resolved {
		task := &agent.TaskMessage{
			MessageID:  uuid.NewString(),
			TaskID:     uuid.NewString(),
			TaskString: r.item.Prompt,
			Sender:     m.Path(),
			Recipient:  r.child.Path(),
		}
		m.DelegateTask(r.child.Path(), task)
		env.Dispatcher.DispatchTask(r.child, task)
	}
}

func managerSpawn(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	for _, item := range d.Spawns {
		task := &agent.TaskMessage{
			MessageID:  uuid.NewString(),
			TaskID:     uuid.NewString(),
			TaskString: item.Prompt,
			Sender:     m.Path(),
		}
		id, err := env.Dispatcher.SpawnTester(m, item.EphemeralType, task)
		if err != nil {
			m.Enqueue(fmt.Sprintf("SPAWN failed: %s", err.Error()))
			continue
		}
		m.SpawnEphemeral(id)
	}
}

func managerCreate(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	full, err := resolveScoped("CREATE", env.ProjectRoot, m.Path(), d.Path)
	if err != nil {
		m.Enqueue(err.Error())
		return
	}
	if _, err := os.Stat(full); err == nil {
		m.Enqueue(fmt.Sprintf("CREATE failed: %s already exists", d.Path))
		return
	}

	var child agent.Agent
	if d.TargetKind == directive.TargetFolder {
		if err := os.MkdirAll(full, 0o755); err != nil {
			m.Enqueue(fmt.Sprintf("CREATE failed: %s", err.Error()))
			return
		}
		child = agent.NewManagerAgent(full, m, readmePathFor(full), m.LLM, false)
	} else {
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			m.Enqueue(fmt.Sprintf("CREATE failed: %s", err.Error()))
			return
		}
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			m.Enqueue(fmt.Sprintf("CREATE failed: %s", err.Error()))
			return
		}
		child = agent.NewCoderAgent(full, m, full, m.LLM)
	}

	m.AddChild(full, child)
	m.Enqueue(fmt.Sprintf("CREATE succeeded: %s was created", d.Path))
}

func managerDelete(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	full, err := resolveScoped("DELETE", env.ProjectRoot, m.Path(), d.Path)
	if err != nil {
		m.Enqueue(err.Error())
		return
	}
	child, ok := m.Child(full)
	if !ok {
		m.Enqueue(fmt.Sprintf("DELETE failed: File not found: %s", d.Path))
		return
	}
	if child.IsActive() {
		m.Enqueue(fmt.Sprintf("DELETE failed: %s is currently active", d.Path))
		return
	}
	if err := os.RemoveAll(full); err != nil {
		m.Enqueue(fmt.Sprintf("DELETE failed: %s", err.Error()))
		return
	}
	m.RemoveChild(full)
	m.Enqueue(fmt.Sprintf("DELETE succeeded: %s was deleted", d.Path))
}

func managerUpdateReadme(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	if err := atomicWrite(m.PersonalFile(), []byte(d.Content)); err != nil {
		m.Enqueue(fmt.Sprintf("UPDATE_README failed: %s", err.Error()))
		return
	}
	m.Enqueue("UPDATE_README succeeded: README was updated")
}

func managerWait(m *agent.ManagerAgent) {
	if m.HasActiveChildrenOrEphemerals() {
		return
	}
	m.Enqueue("WAIT failed: No active children or ephemeral agents to wait for")
}

func managerFinish(env *Env, m *agent.ManagerAgent, d directive.Directive) {
	if children, ephemerals := m.ActiveCounts(); children+ephemerals > 0 {
		m.Enqueue(fmt.Sprintf("FINISH failed: Cannot finish with %d active children and %d active ephemeral agents", children, ephemerals))
		return
	}
	if err := m.Deactivate(); err != nil {
		m.Enqueue(fmt.Sprintf("FINISH failed: %s", err.Error()))
		return
	}
	finishPropagate(env, m, d.Prompt)
}

func joinSorted(items []string) string {
	out := make([]string, len(items))
	copy(out, items)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	result := ""
	for i, s := range out {
		if i > 0 {
			result += ", "
		}
		result += s
	}
	return result
}
