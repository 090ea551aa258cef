// Package setup provides the interactive "agent init" wizard: a bubbletea
// flow that collects the project root, LLM backend, command allow-list,
// and first prompt, then writes agent.toml and policy.toml.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vinayprograms/hma-agent/internal/config"
)

// Step is one screen of the wizard.
type Step int

const (
	StepWelcome Step = iota
	StepProjectRoot
	StepProvider
	StepModel
	StepAPIKeyEnv
	StepAllowedCommands
	StepPrompt
	StepConfirm
	StepWriting
	StepComplete
)

// Result is what a completed wizard run produced: the config it wrote, and
// the first prompt to hand the root Master agent.
type Result struct {
	ConfigPath string
	PolicyPath string
	Config     *config.Config
	Prompt     string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var providers = []string{"anthropic", "openai", "console"}

var defaultModels = map[string]string{
	"anthropic": "claude-sonnet-4-5",
	"openai":    "gpt-4o",
}

type model struct {
	step      Step
	textInput textinput.Model
	cursor    int
	err       error

	projectRoot     string
	provider        string
	modelName       string
	apiKeyEnv       string
	allowedCommands string
	prompt          string

	configDir string
	result    *Result
}

// New returns the initial wizard model, rooted at configDir (where
// agent.toml and policy.toml will be written).
func New(configDir string) model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return model{
		step:            StepWelcome,
		textInput:       ti,
		configDir:       configDir,
		projectRoot:     ".",
		allowedCommands: strings.Join(config.New().Commands.Allowed, ", "),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "up":
			if m.isChoiceStep() && m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.isChoiceStep() && m.cursor < m.maxCursor() {
				m.cursor++
			}
		case "enter":
			return m.advance()
		}
	case filesWrittenMsg:
		m.step = StepComplete
		m.result = msg.result
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	}

	if m.isTextStep() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) isChoiceStep() bool {
	return m.step == StepProvider
}

func (m model) isTextStep() bool {
	switch m.step {
	case StepProjectRoot, StepModel, StepAPIKeyEnv, StepAllowedCommands, StepPrompt:
		return true
	}
	return false
}

func (m model) maxCursor() int {
	if m.step == StepProvider {
		return len(providers) - 1
	}
	return 0
}

func (m model) advance() (tea.Model, tea.Cmd) {
	switch m.step {
	case StepWelcome:
		m.step = StepProjectRoot
		m.textInput.SetValue(m.projectRoot)
		m.textInput.Placeholder = "."
	case StepProjectRoot:
		if v := strings.TrimSpace(m.textInput.Value()); v != "" {
			m.projectRoot = v
		}
		m.step = StepProvider
		m.cursor = 0
	case StepProvider:
		m.provider = providers[m.cursor]
		m.step = StepModel
		m.textInput.SetValue(defaultModels[m.provider])
		m.textInput.Placeholder = "model name"
	case StepModel:
		m.modelName = strings.TrimSpace(m.textInput.Value())
		m.step = StepAPIKeyEnv
		m.textInput.SetValue(config.DefaultAPIKeyEnv(m.provider))
		m.textInput.Placeholder = "environment variable"
	case StepAPIKeyEnv:
		m.apiKeyEnv = strings.TrimSpace(m.textInput.Value())
		m.step = StepAllowedCommands
		m.textInput.SetValue(m.allowedCommands)
		m.textInput.Placeholder = "comma-separated command prefixes"
	case StepAllowedCommands:
		if v := strings.TrimSpace(m.textInput.Value()); v != "" {
			m.allowedCommands = v
		}
		m.step = StepPrompt
		m.textInput.SetValue("")
		m.textInput.Placeholder = "what should the agent build?"
	case StepPrompt:
		m.prompt = strings.TrimSpace(m.textInput.Value())
		m.step = StepConfirm
	case StepConfirm:
		m.step = StepWriting
		return m, m.writeFiles()
	case StepComplete:
		return m, tea.Quit
	}
	return m, nil
}

type filesWrittenMsg struct{ result *Result }
type errMsg struct{ err error }

func (m model) writeFiles() tea.Cmd {
	return func() tea.Msg {
		result, err := m.render()
		if err != nil {
			return errMsg{err}
		}
		return filesWrittenMsg{result}
	}
}

func (m model) render() (*Result, error) {
	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	var allowed []string
	for _, c := range strings.Split(m.allowedCommands, ",") {
		if c = strings.TrimSpace(c); c != "" {
			allowed = append(allowed, c)
		}
	}

	cfg := config.New()
	cfg.Project.Root = m.projectRoot
	cfg.LLM.Provider = m.provider
	cfg.LLM.Model = m.modelName
	cfg.LLM.APIKeyEnv = m.apiKeyEnv
	cfg.Commands.Allowed = allowed

	configPath := filepath.Join(m.configDir, "agent.toml")
	if err := writeTOML(configPath, cfg); err != nil {
		return nil, err
	}

	policyPath := filepath.Join(m.configDir, "policy.toml")
	if err := os.WriteFile(policyPath, []byte(generatePolicyTOML(m.projectRoot)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write policy.toml: %w", err)
	}

	return &Result{ConfigPath: configPath, PolicyPath: policyPath, Config: cfg, Prompt: m.prompt}, nil
}

func writeTOML(path string, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write agent.toml: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// generatePolicyTOML renders the agentkit workspace/denylist policy that
// backs commandpolicy's allow-list check.
func generatePolicyTOML(workspace string) string {
	var sb strings.Builder
	sb.WriteString("# Generated by: agent init\n\n")
	sb.WriteString("default_deny = false\n")
	fmt.Fprintf(&sb, "workspace = %q\n\n", workspace)

	sb.WriteString("[tools.read]\n")
	sb.WriteString("enabled = true\n")
	sb.WriteString("allow = [\"$WORKSPACE/**\"]\n")
	sb.WriteString("deny = [\"**/.env\", \"**/*.key\", \"**/credentials.toml\"]\n\n")

	sb.WriteString("[tools.write]\n")
	sb.WriteString("enabled = true\n")
	sb.WriteString("allow = [\"$WORKSPACE/**\"]\n")
	sb.WriteString("deny = [\"agent.toml\", \"policy.toml\"]\n\n")

	sb.WriteString("[tools.bash]\n")
	sb.WriteString("enabled = true\n")
	sb.WriteString("allowed_dirs = [\"$WORKSPACE\", \"/tmp\"]\n")

	return sb.String()
}

func (m model) View() string {
	switch m.step {
	case StepWelcome:
		return titleStyle.Render("hma-agent init") + "\n\n" +
			"Sets up agent.toml and policy.toml for a new project.\n\n" +
			hintStyle.Render("enter: continue · ctrl+c: quit")
	case StepProjectRoot:
		return m.textView("Project root", "the directory the root Master agent owns")
	case StepProvider:
		var sb strings.Builder
		sb.WriteString(titleStyle.Render("LLM provider") + "\n\n")
		for i, p := range providers {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
			}
			sb.WriteString(cursor + p + "\n")
		}
		sb.WriteString("\n" + hintStyle.Render("↑/↓: choose · enter: continue"))
		return sb.String()
	case StepModel:
		return m.textView("Model name", "e.g. claude-sonnet-4-5")
	case StepAPIKeyEnv:
		return m.textView("API key environment variable", "read at runtime, never stored")
	case StepAllowedCommands:
		return m.textView("Allowed RUN command prefixes", "comma-separated, e.g. \"go test, pytest\"")
	case StepPrompt:
		return m.textView("Initial prompt", "what should the root agent build?")
	case StepConfirm:
		return titleStyle.Render("Confirm") + "\n\n" +
			fmt.Sprintf("project root:  %s\n", m.projectRoot) +
			fmt.Sprintf("provider:      %s\n", m.provider) +
			fmt.Sprintf("model:         %s\n", m.modelName) +
			fmt.Sprintf("api key env:   %s\n", m.apiKeyEnv) +
			fmt.Sprintf("commands:      %s\n", m.allowedCommands) +
			fmt.Sprintf("prompt:        %s\n\n", m.prompt) +
			hintStyle.Render("enter: write files · ctrl+c: cancel")
	case StepWriting:
		return "writing agent.toml and policy.toml…"
	case StepComplete:
		if m.err != nil {
			return errStyle.Render(fmt.Sprintf("failed: %v", m.err))
		}
		return titleStyle.Render("Done") + "\n\n" +
			fmt.Sprintf("wrote %s\n", m.result.ConfigPath) +
			fmt.Sprintf("wrote %s\n\n", m.result.PolicyPath) +
			hintStyle.Render("enter: exit")
	}
	return ""
}

func (m model) textView(label, hint string) string {
	return titleStyle.Render(label) + "\n" + hintStyle.Render(hint) + "\n\n" +
		promptStyle.Render(m.textInput.View()) + "\n\n" +
		hintStyle.Render("enter: continue")
}

// Run launches the wizard rooted at configDir and returns the Result once
// the user completes it, or an error if they cancel or a write fails.
func Run(configDir string) (*Result, error) {
	prog := tea.NewProgram(New(configDir))
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}
	m := final.(model)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, fmt.Errorf("setup was cancelled before agent.toml was written")
	}
	return m.result, nil
}
