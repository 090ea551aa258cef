package agent

import "github.com/vinayprograms/hma-agent/internal/llm"

// CoderAgent owns exactly one file. Only CHANGE/REPLACE/INSERT may mutate
// OwnFile; every other READ is a read-only snapshot into memory.
type CoderAgent struct {
	*Core

	OwnFile string
}

// NewCoderAgent constructs a coder bound to ownFile, with personalFile
// equal to ownFile itself (a coder has no separate README).
func NewCoderAgent(path string, parent Agent, ownFile string, provider llm.Provider) *CoderAgent {
	return &CoderAgent{
		Core:    NewCore(path, parent, KindCoder, ownFile, provider),
		OwnFile: ownFile,
	}
}
