package llm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ConsoleProvider lets a human stand in for the model: the full prompt is
// printed and the directive text is read back from stdin, terminated by a
// line containing only "END". Used for manual debugging of the directive
// languages without an API key configured.
type ConsoleProvider struct {
	In  io.Reader
	Out io.Writer
}

// NewConsoleProvider wires a console client to the given streams.
func NewConsoleProvider(in io.Reader, out io.Writer) *ConsoleProvider {
	return &ConsoleProvider{In: in, Out: out}
}

func (c *ConsoleProvider) GenerateResponse(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	fmt.Fprintln(c.Out, "----- prompt -----")
	for _, m := range messages {
		fmt.Fprintf(c.Out, "[%s]\n%s\n", m.Role, m.Content)
	}
	fmt.Fprintln(c.Out, "----- enter directive(s), end with a line containing only END -----")

	scanner := bufio.NewScanner(c.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		line := scanner.Text()
		if line == "END" {
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
