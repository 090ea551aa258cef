package replay

import (
	"path/filepath"

	"github.com/vinayprograms/hma-agent/internal/checkpoint"
	"github.com/vinayprograms/hma-agent/internal/session"
)

// Load reads the session log at sessionPath and, if present, the directive
// ledger alongside it (<dir>/directives.jsonl), and renders them together.
func Load(sessionPath string) (string, error) {
	header, events, footer, err := session.ReadAll(sessionPath)
	if err != nil {
		return "", err
	}

	directives, err := checkpoint.ReadAll(filepath.Dir(sessionPath))
	if err != nil {
		return "", err
	}

	return Render(header, events, directives, footer), nil
}
