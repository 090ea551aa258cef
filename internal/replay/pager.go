package replay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/reflow/wordwrap"
)

var (
	pagerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	pagerHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// pager is a scrolling terminal viewer for a rendered timeline.
type pager struct {
	title   string
	content string
}

func newPager(title, content string) *pager {
	return &pager{title: title, content: content}
}

func (p *pager) run() error {
	prog := tea.NewProgram(&pagerModel{title: p.title, content: p.content}, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := prog.Run()
	return err
}

// runLive tails sessionPath via fsnotify, re-rendering on every write.
func (p *pager) runLive(sessionPath string, renderFunc func() (string, error)) error {
	content, err := renderFunc()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch session log: %w", err)
	}
	if err := watcher.Add(sessionPath); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", sessionPath, err)
	}
	defer watcher.Close()

	prog := tea.NewProgram(&pagerModel{
		title:      p.title,
		content:    content,
		live:       true,
		renderFunc: renderFunc,
		watcher:    watcher,
	}, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, err = prog.Run()
	return err
}

type fileChangedMsg struct{}

type pagerModel struct {
	viewport   viewport.Model
	title      string
	content    string
	ready      bool
	live       bool
	renderFunc func() (string, error)
	watcher    *fsnotify.Watcher
}

func (m *pagerModel) Init() tea.Cmd {
	if m.live && m.watcher != nil {
		return m.watchFile()
	}
	return nil
}

func (m *pagerModel) watchFile() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					time.Sleep(100 * time.Millisecond)
					return fileChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m *pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case fileChangedMsg:
		if m.renderFunc != nil {
			if newContent, err := m.renderFunc(); err == nil {
				atBottom := m.viewport.AtBottom()
				m.content = newContent
				m.viewport.SetContent(wrapContent(m.content, m.viewport.Width))
				if atBottom {
					m.viewport.GotoBottom()
				}
			}
		}
		cmds = append(cmds, m.watchFile())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g":
			m.viewport.GotoTop()
		case "G", "f":
			m.viewport.GotoBottom()
		}

	case tea.WindowSizeMsg:
		headerHeight, footerHeight := 1, 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.viewport.SetContent(wrapContent(m.content, msg.Width))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
			m.viewport.SetContent(wrapContent(m.content, msg.Width))
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *pagerModel) View() string {
	if !m.ready {
		return "\n  loading…"
	}

	title := pagerTitleStyle.Render(m.title)
	rule := strings.Repeat("─", maxInt(0, m.viewport.Width-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, dimStyle.Render(rule))

	percent := 100
	if total := m.viewport.TotalLineCount() - m.viewport.Height; total > 0 {
		percent = int(float64(m.viewport.YOffset) / float64(total) * 100)
	}
	help := " q: quit │ g/G: top/bottom "
	if m.live {
		help = " ● live │ " + help[1:]
	}
	footer := pagerHelpStyle.Render(help) + dimStyle.Render(fmt.Sprintf(" %d%% ", percent))

	return header + "\n" + m.viewport.View() + "\n" + footer
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// wrapContent word-wraps each line wider than width. Continuation lines
// start at column 0; the "seq │ time │ body" alignment of format.go is not
// kept for them.
func wrapContent(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	var out []string
	for _, line := range lines {
		if lipgloss.Width(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, strings.Split(wordwrap.String(line, width), "\n")...)
	}
	return strings.Join(out, "\n")
}
