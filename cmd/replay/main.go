// Command hma-replay renders a session log and directive ledger produced by
// cmd/agent as a readable timeline, for forensic review of a run.
package main

import (
	"fmt"
	"os"

	"github.com/vinayprograms/hma-agent/internal/replay"
)

func main() {
	args := os.Args[1:]

	live := false
	noPager := false
	var path string

	for _, a := range args {
		switch a {
		case "-f", "--follow", "--live":
			live = true
		case "--no-pager":
			noPager = true
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		default:
			path = a
		}
	}

	if path == "" {
		printUsage()
		os.Exit(1)
	}

	r := replay.New(os.Stdout)

	var err error
	switch {
	case live:
		err = r.RunLive(path)
	case noPager || !isTerminal(os.Stdout):
		err = r.RenderFile(path)
	default:
		err = r.RunInteractive(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hma-replay - render an orchestrator session log as a timeline

Usage:
  hma-replay [options] <session.jsonl>

Options:
  -f, --follow    live mode - watch the log for new events
  --no-pager      print the full timeline instead of opening the pager
  -h, --help      show this help

Navigation (pager):
  ↑/↓, PgUp/PgDn   scroll
  g/G              top/bottom
  q, esc           quit`)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
