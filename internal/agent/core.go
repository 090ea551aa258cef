package agent

import (
	"fmt"
	"sync"

	"github.com/vinayprograms/hma-agent/internal/llm"
	"github.com/vinayprograms/hma-agent/internal/memory"
)

// ActivationError is raised when a TaskMessage arrives for an agent that
// cannot accept it (already active). Per the error taxonomy, this is the
// one error kind that propagates to the parent instead of being recovered
// locally.
type ActivationError struct {
	Path   string
	Reason string
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activation failed for agent %s: %s", e.Path, e.Reason)
}

// LifecycleError is raised by FINISH while children or ephemerals are
// still active, or by Deactivate under the same condition.
type LifecycleError struct {
	Path                string
	ActiveChildren      int
	ActiveEphemerals    int
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("cannot finish with %d active children and %d active ephemeral agents",
		e.ActiveChildren, e.ActiveEphemerals)
}

// Agent is the shared capability interface every concrete variant
// implements. Kind() selects the directive dialect at parse time; routing,
// execution and preamble selection switch on the concrete agent type.
type Agent interface {
	Path() string
	Kind() Kind
	Parent() Agent // weak, non-owning back-reference; nil for the root
	IsActive() bool
	Enqueue(prompt string) bool
	DrainQueue() string
	TryBeginAPICall() bool
	EndAPICall()
	Activate(task *TaskMessage) error
	Deactivate() error
	ReadMemorySnapshot(path string, content string)
	ReadMemory() map[string]string
	MemoryCount() int
	SearchMemory(query string, limit int) []memory.SearchResult
	PersonalFile() string
	Provider() llm.Provider
}

// Core holds the state and behavior common to every agent kind: path,
// weak parent link, prompt queue with dedup-on-insert, the single-flight
// stall guard, and the read-memory snapshot map.
type Core struct {
	mu sync.Mutex

	path   string
	parent Agent
	kind   Kind

	active     bool
	activeTask *TaskMessage

	queue    []string
	queueSet map[string]bool
	stall    bool

	readMemory   map[string]string
	memoryIndex  *memory.Index // lazily built on the first ReadMemorySnapshot; nil until then
	personalFile string

	LLM llm.Provider

	activeChildren   map[string]*TaskMessage // child path -> pending task
	activeEphemerals map[string]bool         // ephemeral id -> present
}

// NewCore constructs the shared state for a concrete agent variant.
func NewCore(path string, parent Agent, kind Kind, personalFile string, provider llm.Provider) *Core {
	return &Core{
		path:             path,
		parent:           parent,
		kind:             kind,
		queueSet:         make(map[string]bool),
		readMemory:       make(map[string]string),
		personalFile:     personalFile,
		LLM:              provider,
		activeChildren:   make(map[string]*TaskMessage),
		activeEphemerals: make(map[string]bool),
	}
}

func (c *Core) Path() string          { return c.path }
func (c *Core) Kind() Kind            { return c.kind }
func (c *Core) Parent() Agent         { return c.parent }
func (c *Core) PersonalFile() string  { return c.personalFile }
func (c *Core) Provider() llm.Provider { return c.LLM }

func (c *Core) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Enqueue appends prompt to the queue, deduplicating: a prompt already
// present is not re-added and its original position is preserved.
// Returns true if the prompt was newly added.
func (c *Core) Enqueue(prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queueSet[prompt] {
		return false
	}
	c.queueSet[prompt] = true
	c.queue = append(c.queue, prompt)
	return true
}

// DrainQueue consolidates the whole queue into one newline-joined prompt,
// preserving FIFO order, and empties the queue.
func (c *Core) DrainQueue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return ""
	}
	out := joinLines(c.queue)
	c.queue = nil
	c.queueSet = make(map[string]bool)
	return out
}

func (c *Core) queueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// TryBeginAPICall is the single-flight guard: it succeeds (returns true,
// sets stall) only if no call is already in flight and the queue is
// non-empty. The caller must call EndAPICall when the call completes.
func (c *Core) TryBeginAPICall() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stall || len(c.queue) == 0 {
		return false
	}
	c.stall = true
	return true
}

func (c *Core) EndAPICall() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stall = false
}

// Activate transitions Idle -> Active. It refuses (ActivationError) if
// already active; activation failures are the orchestrator's job to route
// to the parent, not this method's.
func (c *Core) Activate(task *TaskMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return &ActivationError{Path: c.path, Reason: "agent is already active"}
	}
	c.active = true
	c.activeTask = task
	return nil
}

// Deactivate transitions Active -> Idle. Refused while any children or
// ephemeral agents are still active.
func (c *Core) Deactivate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.activeChildren) > 0 || len(c.activeEphemerals) > 0 {
		return &LifecycleError{
			Path:             c.path,
			ActiveChildren:   len(c.activeChildren),
			ActiveEphemerals: len(c.activeEphemerals),
		}
	}
	c.active = false
	c.activeTask = nil
	return nil
}

// HasActiveChildrenOrEphemerals reports whether WAIT should block or
// FINISH should be refused.
func (c *Core) HasActiveChildrenOrEphemerals() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.activeChildren) > 0 || len(c.activeEphemerals) > 0
}

// ActiveCounts returns the number of outstanding children and ephemeral
// agents, for FINISH's "Cannot finish with N active ..." message.
func (c *Core) ActiveCounts() (children, ephemerals int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.activeChildren), len(c.activeEphemerals)
}

// ReadMemorySnapshot replaces the in-memory snapshot for path. A later
// READ of the same file replaces the whole snapshot; stale snapshots are
// acceptable by design. The snapshot is also fed into this agent's memory
// index, so buildMessages can retrieve relevant snapshots by query instead
// of dumping every one into the prompt.
func (c *Core) ReadMemorySnapshot(path string, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readMemory[path] = content

	if c.memoryIndex == nil {
		if idx, err := memory.NewIndex(); err == nil {
			c.memoryIndex = idx
		}
	}
	if c.memoryIndex != nil {
		_ = c.memoryIndex.Put(path, content)
	}
}

func (c *Core) ReadMemory() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.readMemory))
	for k, v := range c.readMemory {
		out[k] = v
	}
	return out
}

// MemoryCount reports how many snapshots are in read_memory, so callers can
// decide between dumping the whole map and querying SearchMemory.
func (c *Core) MemoryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.readMemory)
}

// SearchMemory ranks read_memory snapshots against query, most relevant
// first. It returns nil if nothing has been read yet.
func (c *Core) SearchMemory(query string, limit int) []memory.SearchResult {
	c.mu.Lock()
	idx := c.memoryIndex
	c.mu.Unlock()
	if idx == nil {
		return nil
	}
	results, err := idx.Search(query, limit)
	if err != nil {
		return nil
	}
	return results
}

// DelegateTask records that childPath has an outstanding task, per
// agent.delegate_task.
func (c *Core) DelegateTask(childPath string, task *TaskMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeChildren[childPath] = task
}

// ReceiveChildResult removes childPath from active_children and returns
// true if it was present (i.e. the result was expected).
func (c *Core) ReceiveChildResult(childPath string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.activeChildren[childPath]; !ok {
		return false
	}
	delete(c.activeChildren, childPath)
	return true
}

// SpawnEphemeral records a newly spawned ephemeral agent by id.
func (c *Core) SpawnEphemeral(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeEphemerals[id] = true
}

// EphemeralDone removes an ephemeral agent that has finished and reported.
func (c *Core) EphemeralDone(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.activeEphemerals, id)
}

func joinLines(lines []string) string {
	total := 0
	for _, l := range lines {
		total += len(l) + 1
	}
	buf := make([]byte, 0, total)
	for i, l := range lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, l...)
	}
	return string(buf)
}
