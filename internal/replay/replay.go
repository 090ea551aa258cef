package replay

import (
	"fmt"
	"io"
)

// Replayer renders one session's timeline to an output, either as plain
// text or via the interactive pager.
type Replayer struct {
	output io.Writer
}

// New builds a Replayer writing to output.
func New(output io.Writer) *Replayer {
	return &Replayer{output: output}
}

// RenderFile loads sessionPath and writes its formatted timeline.
func (r *Replayer) RenderFile(sessionPath string) error {
	content, err := Load(sessionPath)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(r.output, content)
	return err
}

// RunInteractive loads sessionPath and shows it in the scrolling pager.
func (r *Replayer) RunInteractive(sessionPath string) error {
	content, err := Load(sessionPath)
	if err != nil {
		return err
	}
	p := newPager(fmt.Sprintf("replay: %s", sessionPath), content)
	return p.run()
}

// RunLive loads sessionPath in the pager and reloads it whenever the file
// changes, for watching an orchestrator run still in progress.
func (r *Replayer) RunLive(sessionPath string) error {
	p := newPager(fmt.Sprintf("replay: %s (live)", sessionPath), "")
	return p.runLive(sessionPath, func() (string, error) { return Load(sessionPath) })
}
