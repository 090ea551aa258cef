package replay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vinayprograms/hma-agent/internal/checkpoint"
	"github.com/vinayprograms/hma-agent/internal/session"
)

// timelineEntry is a session.Event or a checkpoint.DirectiveRecord, merged
// into one chronological timeline.
type timelineEntry struct {
	at     string // sortable timestamp key
	render func() string
}

// Render formats header, a chronological merge of events and directive
// records, and footer into one string for display.
func Render(header session.Header, events []session.Event, directives []checkpoint.DirectiveRecord, footer *session.Footer) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Session %s", header.SessionID)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("project: %s", header.ProjectRoot)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("prompt:  %s", header.Prompt)))
	sb.WriteString("\n")
	sb.WriteString(divider + "\n")

	entries := make([]timelineEntry, 0, len(events)+len(directives))
	for _, e := range events {
		e := e
		entries = append(entries, timelineEntry{at: e.Timestamp.Format(timeKey), render: func() string { return formatEvent(e) }})
	}
	for _, d := range directives {
		d := d
		entries = append(entries, timelineEntry{at: d.Timestamp.Format(timeKey), render: func() string { return formatDirective(d) }})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].at < entries[j].at })

	for _, e := range entries {
		sb.WriteString(e.render())
		sb.WriteString("\n")
	}

	if footer != nil {
		sb.WriteString(divider + "\n")
		if footer.Error != "" {
			sb.WriteString(errorStyle.Render(fmt.Sprintf("closed with error: %s", footer.Error)))
		} else {
			sb.WriteString(successStyle.Render(fmt.Sprintf("result: %s", footer.Result)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

const timeKey = "2006-01-02T15:04:05.000000000Z07:00"

func formatEvent(e session.Event) string {
	seq := seqStyle.Render(fmt.Sprintf("#%d", e.SeqID))
	ts := timeStyle.Render(e.Timestamp.Format("15:04:05.000"))

	var body string
	switch e.Type {
	case session.EventSessionStart:
		body = fmt.Sprintf("%s session started: %s", agentStyle.Render(e.Agent), e.Content)
	case session.EventSessionEnd:
		body = successStyle.Render(fmt.Sprintf("session ended: %s", e.Content))
	case session.EventTaskDispatched:
		body = fmt.Sprintf("%s ← task from %s: %s", agentStyle.Render(e.Agent), orNone(e.Peer), truncate(e.Content))
	case session.EventResultDispatched:
		body = fmt.Sprintf("%s ← result from %s: %s", agentStyle.Render(e.Agent), orNone(e.Peer), truncate(e.Content))
	case session.EventDirectiveExec:
		body = fmt.Sprintf("%s executed %s", agentStyle.Render(e.Agent), directiveStyle.Render(e.Kind))
	case session.EventCommandEnd:
		status := successStyle.Render("ok")
		if e.Success != nil && !*e.Success {
			status = errorStyle.Render("failed")
		}
		body = fmt.Sprintf("%s ran %s [%s, %dms]", agentStyle.Render(e.Agent), commandStyle.Render(e.Kind), status, e.DurationMs)
		if e.Content != "" {
			body += ": " + truncate(e.Content)
		}
	case session.EventAgentError:
		body = errorStyle.Render(fmt.Sprintf("%s error: %s", e.Agent, truncate(e.Content)))
	default:
		body = fmt.Sprintf("%s %s", e.Type, truncate(e.Content))
	}

	return fmt.Sprintf("%s │ %s │ %s", seq, ts, body)
}

func formatDirective(d checkpoint.DirectiveRecord) string {
	ts := timeStyle.Render(d.Timestamp.Format("15:04:05.000"))
	return fmt.Sprintf("%s │ %s │ %s %s → %s", seqStyle.Render("led"), ts, agentStyle.Render(d.AgentPath), directiveStyle.Render(d.Kind), d.Outcome)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func truncate(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
