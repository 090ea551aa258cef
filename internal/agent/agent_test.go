package agent

import (
	"testing"

	"github.com/vinayprograms/hma-agent/internal/llm"
)

func newTestManager() *ManagerAgent {
	return NewManagerAgent("/project", nil, "/project/README.md", llm.NewMockProvider(), false)
}

// Invariant 5: deduplicated enqueue.
func TestEnqueue_Deduplicates(t *testing.T) {
	m := newTestManager()
	if !m.Enqueue("hello") {
		t.Fatalf("first enqueue of a new prompt should succeed")
	}
	if m.Enqueue("hello") {
		t.Fatalf("enqueueing an already-queued prompt should be a no-op")
	}
	m.Enqueue("world")

	drained := m.DrainQueue()
	if drained != "hello\nworld" {
		t.Errorf("drain order/content wrong: %q", drained)
	}
}

// Invariant 1: single-flight.
func TestTryBeginAPICall_SingleFlight(t *testing.T) {
	m := newTestManager()
	m.Enqueue("go")

	if !m.TryBeginAPICall() {
		t.Fatalf("expected first TryBeginAPICall to succeed with a non-empty queue")
	}
	m.Enqueue("more") // enqueuing while stalled must still succeed
	if m.TryBeginAPICall() {
		t.Fatalf("a second concurrent TryBeginAPICall must fail while one is in flight")
	}
	m.EndAPICall()
	if !m.TryBeginAPICall() {
		t.Fatalf("TryBeginAPICall should succeed again once the in-flight call ends and queue is non-empty")
	}
}

func TestTryBeginAPICall_EmptyQueueRefuses(t *testing.T) {
	m := newTestManager()
	if m.TryBeginAPICall() {
		t.Fatalf("TryBeginAPICall must refuse when the queue is empty")
	}
}

// Invariant 6: lifecycle.
func TestDeactivate_RefusedWithActiveChildren(t *testing.T) {
	m := newTestManager()
	task := &TaskMessage{TaskID: "t1", Recipient: m.Path()}
	if err := m.Activate(task); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	m.DelegateTask("/project/src", &TaskMessage{TaskID: "c1"})

	if err := m.Deactivate(); err == nil {
		t.Fatalf("expected LifecycleError while a child is active")
	}

	m.ReceiveChildResult("/project/src")
	if err := m.Deactivate(); err != nil {
		t.Fatalf("deactivate should succeed once no children remain: %v", err)
	}
}

func TestActivate_RefusesDoubleActivation(t *testing.T) {
	m := newTestManager()
	if err := m.Activate(&TaskMessage{TaskID: "t1"}); err != nil {
		t.Fatalf("first activate failed: %v", err)
	}
	err := m.Activate(&TaskMessage{TaskID: "t2"})
	if err == nil {
		t.Fatalf("expected ActivationError on double activation")
	}
	if _, ok := err.(*ActivationError); !ok {
		t.Errorf("expected *ActivationError, got %T", err)
	}
}

// Invariant 4: idempotent READ (modulo last-write snapshot).
func TestReadMemorySnapshot_ReplacesOnRepeatedRead(t *testing.T) {
	m := newTestManager()
	m.ReadMemorySnapshot("notes.txt", "hello\n")
	if got := m.ReadMemory()["notes.txt"]; got != "hello\n" {
		t.Fatalf("snapshot wrong: %q", got)
	}
	m.ReadMemorySnapshot("notes.txt", "hello\nworld\n")
	if got := m.ReadMemory()["notes.txt"]; got != "hello\nworld\n" {
		t.Errorf("snapshot should be fully replaced, got %q", got)
	}
}

func TestManagerAgent_ChildOwnership(t *testing.T) {
	m := newTestManager()
	child := NewCoderAgent("/project/main.py", m, "/project/main.py", llm.NewMockProvider())
	m.AddChild(child.Path(), child)

	got, ok := m.Child("/project/main.py")
	if !ok || got != Agent(child) {
		t.Fatalf("child lookup failed")
	}
	if child.Parent() != Agent(m) {
		t.Errorf("child's weak parent reference should point back at the manager")
	}

	m.RemoveChild(child.Path())
	if _, ok := m.Child("/project/main.py"); ok {
		t.Errorf("child should be gone after RemoveChild")
	}
}
