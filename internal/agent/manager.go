package agent

import (
	"sync"

	"github.com/vinayprograms/hma-agent/internal/llm"
)

// ManagerAgent owns a directory subtree. It exclusively owns its children
// (ManagerAgent or CoderAgent); destroying a manager destroys them.
type ManagerAgent struct {
	*Core

	mu       sync.RWMutex
	children map[string]Agent // keyed by child path, owned
	isMaster bool             // true only for the root agent (Master language)

	securityMode string // "default" or "paranoid"; master-only, default "default"
}

// NewManagerAgent constructs a manager rooted at path, with personalFile
// pointing at its "<folder>_README.md".
func NewManagerAgent(path string, parent Agent, personalFile string, provider llm.Provider, isMaster bool) *ManagerAgent {
	kind := KindManager
	if isMaster {
		kind = KindMaster
	}
	return &ManagerAgent{
		Core:         NewCore(path, parent, kind, personalFile, provider),
		children:     make(map[string]Agent),
		isMaster:     isMaster,
		securityMode: "default",
	}
}

// IsMaster reports whether this manager is the root agent, which alone may
// emit the Master-language SECURITY directive.
func (m *ManagerAgent) IsMaster() bool { return m.isMaster }

func (m *ManagerAgent) SecurityMode() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.securityMode
}

func (m *ManagerAgent) SetSecurityMode(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.securityMode = mode
}

// AddChild registers a newly created child under this manager's ownership.
func (m *ManagerAgent) AddChild(childPath string, child Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[childPath] = child
}

// RemoveChild drops ownership of a child, e.g. after DELETE.
func (m *ManagerAgent) RemoveChild(childPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.children, childPath)
}

// Child looks up an owned child by path.
func (m *ManagerAgent) Child(childPath string) (Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.children[childPath]
	return c, ok
}

// Children returns a snapshot of the owned-child map.
func (m *ManagerAgent) Children() map[string]Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Agent, len(m.children))
	for k, v := range m.children {
		out[k] = v
	}
	return out
}
