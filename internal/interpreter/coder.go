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

// ExecuteCoder runs one Coder-language directive against c.
func ExecuteCoder(ctx context.Context, env *Env, c *agent.CoderAgent, d directive.Directive) {
	defer func() {
		if r := recover(); r != nil {
			c.Enqueue(fmt.Sprintf("Exception during execution: %v", r))
		}
	}()

	switch d.Kind {
	case directive.KindRead:
		coderRead(env, c, d)
	case directive.KindRun:
		c.Enqueue(executeRun(ctx, env, c.Path(), filepath.Dir(c.OwnFile), d.Command, TimeoutPersistent))
	case directive.KindChange:
		coderChange(c, d)
	case directive.KindReplace:
		coderReplace(c, d, false)
	case directive.KindInsert:
		coderReplace(c, d, true)
	case directive.KindSpawn:
		coderSpawn(env, c, d)
	case directive.KindWait:
		coderWait(c)
	case directive.KindFinish:
		coderFinish(env, c, d)
	default:
		c.Enqueue(fmt.Sprintf("Exception during execution: unknown directive kind %q", d.Kind))
	}

	env.record(c.Path(), string(d.Kind), "executed")
}

func coderRead(env *Env, c *agent.CoderAgent, d directive.Directive) {
	full, err := resolveInRoot("READ", env.ProjectRoot, d.Path)
	if err != nil {
		c.Enqueue(err.Error())
		return
	}
	data, err := os.ReadFile(full)
	if err != nil {
		c.Enqueue(fmt.Sprintf("READ failed: File not found: %s", d.Path))
		return
	}
	c.ReadMemorySnapshot(d.Path, string(data))
	c.Enqueue(fmt.Sprintf("READ succeeded: %s was added to memory for future reads", d.Path))
}

func coderChange(c *agent.CoderAgent, d directive.Directive) {
	if c.OwnFile == "" {
		c.Enqueue("CHANGE failed: agent has no own_file")
		return
	}
	if err := atomicWrite(c.OwnFile, []byte(d.Content)); err != nil {
		c.Enqueue(fmt.Sprintf("CHANGE failed: %s", err.Error()))
		return
	}
	c.Enqueue(fmt.Sprintf("CHANGE succeeded: %s was replaced with new content", filepath.Base(c.OwnFile)))
}

func coderReplace(c *agent.CoderAgent, d directive.Directive, insert bool) {
	verb := "REPLACE"
	if insert {
		verb = "INSERT"
	}
	if c.OwnFile == "" {
		c.Enqueue(fmt.Sprintf("%s failed: agent has no own_file", verb))
		return
	}
	data, err := os.ReadFile(c.OwnFile)
	if err != nil {
		c.Enqueue(fmt.Sprintf("%s failed: File not found: %s", verb, filepath.Base(c.OwnFile)))
		return
	}
	out, err := applyReplacements(string(data), d.Replacements, insert)
	if err != nil {
		c.Enqueue(err.Error())
		return
	}
	if err := atomicWrite(c.OwnFile, []byte(out)); err != nil {
		c.Enqueue(fmt.Sprintf("%s failed: %s", verb, err.Error()))
		return
	}
	c.Enqueue(fmt.Sprintf("%s succeeded: %s was updated", verb, filepath.Base(c.OwnFile)))
}

func coderSpawn(env *Env, c *agent.CoderAgent, d directive.Directive) {
	for _, item := range d.Spawns {
		task := &agent.TaskMessage{
			MessageID:  uuid.NewString(),
			TaskID:     uuid.NewString(),
			TaskString: item.Prompt,
			Sender:     c.Path(),
		}
		id, err := env.Dispatcher.SpawnTester(c, item.EphemeralType, task)
		if err != nil {
			c.Enqueue(fmt.Sprintf("SPAWN failed: %s", err.Error()))
			continue
		}
		c.SpawnEphemeral(id)
	}
}

func coderWait(c *agent.CoderAgent) {
	if c.HasActiveChildrenOrEphemerals() {
		return
	}
	c.Enqueue("WAIT failed: No active children or ephemeral agents to wait for")
}

func coderFinish(env *Env, c *agent.CoderAgent, d directive.Directive) {
	if _, ephemerals := c.ActiveCounts(); ephemerals > 0 {
		c.Enqueue(fmt.Sprintf("FINISH failed: Cannot finish with 0 active children and %d active ephemeral agents", ephemerals))
		return
	}
	if err := c.Deactivate(); err != nil {
		c.Enqueue(fmt.Sprintf("FINISH failed: %s", err.Error()))
		return
	}
	finishPropagate(env, c, d.Prompt)
}
