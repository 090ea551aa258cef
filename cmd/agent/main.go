// Command hma-agent drives the hierarchical multi-agent orchestrator: a
// root Master agent is activated with a prompt, and recursively delegates,
// creates, and spawns child agents over the project's filesystem until it
// emits FINISH.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/vinayprograms/hma-agent/internal/agent"
	"github.com/vinayprograms/hma-agent/internal/checkpoint"
	"github.com/vinayprograms/hma-agent/internal/commandpolicy"
	"github.com/vinayprograms/hma-agent/internal/config"
	"github.com/vinayprograms/hma-agent/internal/ephemeral"
	"github.com/vinayprograms/hma-agent/internal/interpreter"
	"github.com/vinayprograms/hma-agent/internal/llm"
	"github.com/vinayprograms/hma-agent/internal/llmclient"
	"github.com/vinayprograms/hma-agent/internal/orchestrator"
	"github.com/vinayprograms/hma-agent/internal/session"
	"github.com/vinayprograms/hma-agent/internal/setup"
)

// Build-time variables, set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Deps carries the CLI's side-channels, so Run methods don't reach for
// globals and tests can substitute fakes.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kongVars(), kong.Description("hma-agent runs a hierarchical multi-agent LLM orchestrator over a project directory."))

	deps := &Deps{Stdout: os.Stdout, Stderr: os.Stderr}
	if err := ctx.Run(deps); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Run builds the full orchestrator (config, provider, policy, ledgers,
// ephemeral templates) and blocks until the root agent finishes.
func (c *RunCmd) Run(deps *Deps) error {
	_ = godotenv.Load(filepath.Join(filepath.Dir(c.Config), ".env"))

	cfg, err := config.LoadFile(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Workspace != "" {
		cfg.Project.Root = c.Workspace
	}
	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}

	var provider llm.Provider
	if c.Console || cfg.LLM.Console || cfg.LLM.Provider == "console" {
		provider = llm.NewConsoleProvider(os.Stdin, deps.Stdout)
	} else {
		provider, err = llmclient.New(llmclient.Config{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.GetAPIKey(),
		})
		if err != nil {
			return fmt.Errorf("failed to build LLM provider: %w", err)
		}
	}

	sessionID := uuid.NewString()
	policy := commandpolicy.Load(c.Policy, cfg.Commands.Allowed, sessionID)

	registry := ephemeral.NewRegistry()
	templatesDir := filepath.Join(root, ".hma", "ephemerals")
	if _, statErr := os.Stat(templatesDir); statErr == nil {
		if err := registry.Discover(templatesDir); err != nil {
			return fmt.Errorf("failed to discover ephemeral templates: %w", err)
		}
	}

	ledger, err := checkpoint.NewStore(filepath.Join(root, ".hma"))
	if err != nil {
		return fmt.Errorf("failed to open directive ledger: %w", err)
	}
	defer ledger.Close()

	sessionLog, err := session.Open(filepath.Join(root, ".hma", "session.jsonl"), root, sessionID, c.Prompt)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}

	env := &interpreter.Env{
		ProjectRoot: root,
		Commands:    policy,
		Recorder:    ledger,
	}

	rt := orchestrator.New(env, provider, registry, preambles(), cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	rt.Session = sessionLog
	env.Dispatcher = rt
	env.Events = rt

	masterAgent := agent.NewManagerAgent(root, nil, readmePathFor(root), provider, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	result, runErr := rt.Run(ctx, masterAgent, c.Prompt)
	closeErr := sessionLog.Close(result, runErr)
	if runErr != nil {
		return fmt.Errorf("orchestrator run failed: %w", runErr)
	}
	if closeErr != nil {
		fmt.Fprintf(deps.Stderr, "warning: failed to close session log cleanly: %v\n", closeErr)
	}

	fmt.Fprintln(deps.Stdout, result)
	return nil
}

func readmePathFor(dir string) string {
	return filepath.Join(dir, filepath.Base(dir)+"_README.md")
}

// Run launches the interactive wizard and, if --run was passed, immediately
// starts the orchestrator with the prompt it collected.
func (c *InitCmd) Run(deps *Deps) error {
	result, err := setup.Run(c.ConfigDir)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	fmt.Fprintf(deps.Stdout, "wrote %s\n", result.ConfigPath)
	fmt.Fprintf(deps.Stdout, "wrote %s\n", result.PolicyPath)

	if !c.Run || result.Prompt == "" {
		return nil
	}

	return (&RunCmd{
		Config: result.ConfigPath,
		Policy: result.PolicyPath,
		Prompt: result.Prompt,
	}).Run(deps)
}

// preambles holds the static directive-language instructions every agent
// kind's system message is built from.
func preambles() orchestrator.Preambles {
	return orchestrator.Preambles{
		System: `You are one node in a tree of agents collaborating to build and maintain a software project. Every response you give must consist only of one or more directives in your role's language, each on its own line (or spanning lines inside a triple-quoted string). Do not add commentary outside of directive arguments. Unknown or malformed directives are rejected and reported back to you as a new prompt — read the failure and try again.

String arguments are double-quoted; use """triple double quotes""" for multi-line file content. A directive that fails reports why in the next prompt you receive; it does not stop the other directives in the same response from running.`,

		Manager: `You are a Manager agent. You own one directory subtree and the other agents (Coder or Manager) created beneath it. Your directive language:

  READ folder|file "<path>"                         load a file or a child's own README into your memory for this and future turns
  RUN "<command>"                                    run an allow-listed shell command in your directory; the captured output is reported back to you
  CREATE folder|file "<path>"                        create a child directory (gets its own Manager) or file (gets its own Coder)
  DELETE folder|file "<path>"                         remove a child and everything beneath it; refused while the child is active
  DELEGATE folder|file "<path>" PROMPT="<text>"[, ...]  hand a task to one or more direct children; you are notified when each finishes
  SPAWN EPHEMERAL_TYPE="<type>" PROMPT="<text>"        spawn a short-lived helper agent (e.g. a tester) that reports back once and is torn down
  UPDATE_README CONTENT="""<markdown>"""               rewrite your own "<folder>_README.md", the summary other agents READ to learn your scope
  WAIT                                                  do nothing this turn; wait for an outstanding DELEGATE or SPAWN to report back
  FINISH PROMPT="<text>"                               report completion to your parent (or end the run, if you are the root) with a summary

Decompose the task across the narrowest set of children that can do it; don't DELEGATE work you could finish yourself with RUN or by reading a file.`,

		Coder: `You are a Coder agent. You own exactly one file. Your directive language:

  READ "<path>"                                       load another file into your memory (relative to the project root)
  RUN "<command>"                                     run an allow-listed shell command; the captured output is reported back to you
  CHANGE CONTENT="""<text>"""                          replace your file's entire content
  REPLACE FROM="<old>" TO="<new>"[, FROM="<old>" TO="<new>" ...]  apply one or more exact substring replacements to your file
  INSERT FROM="<anchor>" TO="<text>"                    insert text immediately after an anchor substring that occurs exactly once in your file
  SPAWN EPHEMERAL_TYPE="<type>" PROMPT="<text>"        spawn a short-lived helper agent that works in its own scratch pad file
  WAIT                                                  do nothing this turn; wait for a SPAWN to report back
  FINISH PROMPT="<text>"                               report completion to your parent with a summary of what changed

Keep edits minimal and scoped to the task you were given.`,

		Tester: `You are an ephemeral helper agent. You work in a private scratch pad file, which starts empty, and report back to your parent exactly once. Your directive language:

  READ "<path>"                                       load a file into your memory
  RUN "<command>"                                     run an allow-listed shell command in the scratch pad's directory
  CHANGE CONTENT="""<text>"""                          replace the scratch pad's entire content
  REPLACE FROM="<old>" TO="<new>"[, FROM="<old>" TO="<new>" ...]  apply exact substring replacements to the scratch pad
  FINISH PROMPT="<text>"                               report your findings to your parent; you are torn down immediately after

You have a limited time budget before you are terminated and your parent is told you timed out. Report findings as soon as you have them — don't keep investigating past what was asked.`,

		Master: `You are the Master agent: the root of the tree, with everything a Manager has plus one more directive:

  SECURITY MODE="default"|"paranoid"                   "paranoid" requires RUN commands to match an allowed prefix exactly instead of by prefix; "default" restores prefix matching

Use SECURITY MODE="paranoid" before delegating work to agents operating on untrusted input. FINISH from you ends the run and returns your prompt as the final result.`,
	}
}
