// Package session provides the append-only JSONL event log written once
// per orchestrator run: every TaskMessage/ResultMessage hand-off, directive
// execution, RUN invocation, and surfaced error, for the out-of-scope
// front-end and cmd/replay to consume.
package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vinayprograms/agentkit/logging"
)

// Event types. Kept narrow and domain-specific: no goal/phase/supervision
// events, since this orchestrator has no four-phase execution model.
const (
	EventSessionStart     = "session_start"     // Run() activated the root agent
	EventSessionEnd       = "session_end"       // root agent finished (a run error goes to the footer only)
	EventTaskDispatched   = "task_dispatched"   // a TaskMessage reached its recipient
	EventResultDispatched = "result_dispatched" // a ResultMessage reached its parent
	EventDirectiveExec    = "directive_exec"    // one directive was executed
	EventCommandEnd       = "command_end"       // a RUN directive's subprocess finished
	EventAgentError       = "agent_error"       // LLM call or directive parse failure surfaced to an agent
)

// Event is one line of the session log.
type Event struct {
	SeqID     uint64    `json:"seq"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Agent string `json:"agent,omitempty"` // path of the agent this event is about
	Peer  string `json:"peer,omitempty"`  // path of the other agent involved (sender, recipient, spawned child)
	Kind  string `json:"kind,omitempty"`  // directive kind, or command string for command_* events

	Content string `json:"content,omitempty"` // prompt text, result text, error message

	Success    *bool `json:"success,omitempty"`
	DurationMs int64 `json:"duration_ms,omitempty"`
}

// jsonlRecord discriminates header/event/footer lines in the log file.
type jsonlRecord struct {
	RecordType string `json:"_type"` // header, event, footer

	// header
	SessionID   string    `json:"session_id,omitempty"`
	ProjectRoot string    `json:"project_root,omitempty"`
	Prompt      string    `json:"prompt,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`

	// event
	*Event `json:",omitempty"`

	// footer
	Result   string    `json:"result,omitempty"`
	Error    string    `json:"error,omitempty"`
	ClosedAt time.Time `json:"closed_at,omitempty"`
}

const (
	recordTypeHeader = "header"
	recordTypeEvent  = "event"
	recordTypeFooter = "footer"
)

// Logger appends Events to a JSONL file as they happen — one line per
// call, no in-memory buffering of the whole run's history.
type Logger struct {
	mu     sync.Mutex
	f      *os.File
	seq    uint64
	logger *logging.Logger
}

// Open creates (truncating any previous run's log) the session log at path
// and writes its header line.
func Open(path string, projectRoot string, sessionID string, prompt string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create session log: %w", err)
	}

	l := &Logger{f: f, logger: logging.New().WithComponent("session")}
	header := jsonlRecord{
		RecordType:  recordTypeHeader,
		SessionID:   sessionID,
		ProjectRoot: projectRoot,
		Prompt:      prompt,
		CreatedAt:   time.Now(),
	}
	if err := l.writeLine(header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Log appends one event. SeqID and Timestamp are filled in if zero. A
// write failure is logged and swallowed: the session log is a forensic
// convenience, not load-bearing for orchestration.
func (l *Logger) Log(evt Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	evt.SeqID = atomic.AddUint64(&l.seq, 1)

	if err := l.writeLine(jsonlRecord{RecordType: recordTypeEvent, Event: &evt}); err != nil {
		l.logger.Warn("failed to append session event", map[string]interface{}{"type": evt.Type, "error": err.Error()})
	}
}

// Close writes the footer record and closes the log file.
func (l *Logger) Close(result string, runErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	footer := jsonlRecord{
		RecordType: recordTypeFooter,
		Result:     result,
		ClosedAt:   time.Now(),
	}
	if runErr != nil {
		footer.Error = runErr.Error()
	}
	if err := l.writeLine(footer); err != nil {
		l.logger.Warn("failed to append session footer", map[string]interface{}{"error": err.Error()})
	}
	return l.f.Close()
}

func (l *Logger) writeLine(record jsonlRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}
	if _, err := l.f.Write(append(data, '\n')); err != nil {
		return err
	}
	return l.f.Sync()
}

// Header is the parsed header line of a session log, returned by ReadAll.
type Header struct {
	SessionID   string
	ProjectRoot string
	Prompt      string
	CreatedAt   time.Time
}

// Footer is the parsed footer line of a session log, if the run closed
// cleanly.
type Footer struct {
	Result   string
	Error    string
	ClosedAt time.Time
}

// ReadAll loads every record from a session log at path, for cmd/replay.
func ReadAll(path string) (Header, []Event, *Footer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, nil, err
	}
	defer f.Close()

	var header Header
	var events []Event
	var footer *Footer

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record jsonlRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return Header{}, nil, nil, fmt.Errorf("failed to parse session log line: %w", err)
		}
		switch record.RecordType {
		case recordTypeHeader:
			header = Header{
				SessionID:   record.SessionID,
				ProjectRoot: record.ProjectRoot,
				Prompt:      record.Prompt,
				CreatedAt:   record.CreatedAt,
			}
		case recordTypeEvent:
			if record.Event != nil {
				events = append(events, *record.Event)
			}
		case recordTypeFooter:
			footer = &Footer{
				Result:   record.Result,
				Error:    record.Error,
				ClosedAt: record.ClosedAt,
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Header{}, nil, nil, err
	}

	return header, events, footer, nil
}
