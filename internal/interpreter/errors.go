// Package interpreter translates parsed directive.Directive values into
// concrete effects: filesystem mutations, shell execution, child/ephemeral
// spawning, or a follow-up prompt enqueued on the acting agent. Per the
// error handling design, every failure here is recovered locally by
// enqueueing a descriptive prompt; execution never propagates a panic.
package interpreter

import "fmt"

// ScopeError: a CREATE/DELETE/READ/DELEGATE path resolves outside the
// agent's own scope (or outside ProjectRoot).
type ScopeError struct {
	Op     string
	Target string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%s failed: Destination %s is out of scope", e.Op, e.Target)
}

// NotFoundError: a READ/REPLACE/INSERT target does not exist.
type NotFoundError struct {
	Op     string
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s failed: File not found: %s", e.Op, e.Target)
}

// AmbiguityError: a REPLACE/INSERT "from" string occurs more than once.
type AmbiguityError struct {
	Counts map[string]int
}

func (e *AmbiguityError) Error() string {
	msg := "Ambiguous replacement targets:"
	for from, n := range e.Counts {
		msg += fmt.Sprintf(" %q (%d occurrences)", from, n)
	}
	return msg
}

// CommandRejected: RUN's command was refused by the command policy.
type CommandRejected struct {
	Command string
}

func (e *CommandRejected) Error() string {
	return fmt.Sprintf("RUN failed: Invalid command: %s", e.Command)
}

// CommandFailed: the subprocess exited non-zero.
type CommandFailed struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func (e *CommandFailed) Error() string {
	return "RUN failed"
}

// CommandTimeout: the watchdog fired before the process exited.
type CommandTimeout struct {
	Seconds int
}

func (e *CommandTimeout) Error() string {
	return fmt.Sprintf("RUN failed: Timed-out after %d s", e.Seconds)
}
