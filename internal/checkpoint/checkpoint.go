// Package checkpoint provides the directive ledger: an append-only, durable
// trail of every directive an agent executes. It implements
// interpreter.Recorder.
package checkpoint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vinayprograms/agentkit/logging"
)

// DirectiveRecord is one executed directive: who ran it, what kind it was,
// and how it resolved. This is the durable record the out-of-scope
// front-end and cmd/replay reconstruct an agent tree's history from.
type DirectiveRecord struct {
	AgentPath string    `json:"agent_path"`
	Kind      string    `json:"kind"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is an append-only JSONL ledger of DirectiveRecords. It implements
// interpreter.Recorder: RecordDirective never returns an error, since a
// ledger write failure must not abort the directive it is recording.
type Store struct {
	mu     sync.Mutex
	f      *os.File
	logger *logging.Logger
}

// NewStore opens (creating if necessary) the directive ledger at
// <dir>/directives.jsonl in append mode.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "directives.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open directive ledger: %w", err)
	}
	return &Store{f: f, logger: logging.New().WithComponent("checkpoint")}, nil
}

// RecordDirective appends one DirectiveRecord. Implements
// interpreter.Recorder.
func (s *Store) RecordDirective(agentPath string, kind string, outcome string) {
	rec := DirectiveRecord{
		AgentPath: agentPath,
		Kind:      kind,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("failed to marshal directive record", map[string]interface{}{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Write(append(data, '\n')); err != nil {
		s.logger.Warn("failed to append directive record", map[string]interface{}{"error": err.Error()})
	}
}

// Close closes the underlying ledger file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// ReadAll loads every DirectiveRecord from the ledger at <dir>/directives.jsonl,
// in the order they were recorded. Used by cmd/replay.
func ReadAll(dir string) ([]DirectiveRecord, error) {
	f, err := os.Open(filepath.Join(dir, "directives.jsonl"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []DirectiveRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec DirectiveRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse directive record: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ForAgent filters records to only those belonging to agentPath.
func ForAgent(records []DirectiveRecord, agentPath string) []DirectiveRecord {
	var out []DirectiveRecord
	for _, r := range records {
		if r.AgentPath == agentPath {
			out = append(out, r)
		}
	}
	return out
}
