package session

import (
	"path/filepath"
	"testing"
)

func TestOpenLogClose_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".hma", "session.jsonl")

	logger, err := Open(path, "/workspace/demo", "sess-1", "build the widget")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	success := true
	logger.Log(Event{Type: EventTaskDispatched, Agent: "/workspace/demo", Content: "build the widget"})
	logger.Log(Event{Type: EventDirectiveExec, Agent: "/workspace/demo", Kind: "READ", Success: &success})
	logger.Log(Event{Type: EventResultDispatched, Agent: "/workspace/demo", Peer: "/workspace/demo/coder", Content: "done"})

	if err := logger.Close("widget built", nil); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	header, events, footer, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if header.SessionID != "sess-1" || header.ProjectRoot != "/workspace/demo" {
		t.Fatalf("unexpected header: %+v", header)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].SeqID != 1 || events[2].SeqID != 3 {
		t.Fatalf("expected sequential seq IDs, got %+v", events)
	}
	if events[1].Kind != "READ" || events[1].Success == nil || !*events[1].Success {
		t.Fatalf("unexpected directive event: %+v", events[1])
	}
	if footer == nil || footer.Result != "widget built" || footer.Error != "" {
		t.Fatalf("unexpected footer: %+v", footer)
	}
}

func TestClose_RecordsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")

	logger, err := Open(path, "/workspace/demo", "sess-2", "do the thing")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := logger.Close("", errTimeout{}); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, _, footer, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if footer == nil || footer.Error != "timed out" {
		t.Fatalf("expected footer error, got %+v", footer)
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "timed out" }
