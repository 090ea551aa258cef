package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// CLI is the root kong command set for hma-agent.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Run the orchestrator against a project."`
	Init    InitCmd    `cmd:"" help:"Interactively write agent.toml and policy.toml."`
	Version VersionCmd `cmd:"" help:"Print the build version."`
}

// RunCmd activates the root Master agent with a prompt and blocks until it
// finishes.
type RunCmd struct {
	Config   string `short:"c" default:"agent.toml" help:"Path to agent.toml."`
	Policy   string `short:"p" default:"policy.toml" help:"Path to policy.toml."`
	Workspace string `short:"w" help:"Override the project root from agent.toml."`
	Console  bool   `help:"Read directives from stdin instead of calling an LLM provider."`
	Prompt   string `arg:"" help:"The task to hand the root agent."`
}

// InitCmd launches the interactive setup wizard.
type InitCmd struct {
	ConfigDir string `arg:"" optional:"" default:"." help:"Directory to write agent.toml and policy.toml into."`
	Run       bool   `help:"Immediately run the orchestrator with the prompt collected by the wizard."`
}

// VersionCmd prints build metadata.
type VersionCmd struct{}

func (c *VersionCmd) Run(deps *Deps) error {
	fmt.Fprintf(deps.Stdout, "hma-agent %s (commit %s, built %s)\n", version, commit, buildTime)
	return nil
}

func kongVars() kong.Vars {
	return kong.Vars{"version": version}
}
