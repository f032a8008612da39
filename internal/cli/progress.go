package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/jivetrim/internal/batch"
)

// Reporter prints one progress line per file, for pipes and --plain
type Reporter struct {
	out      io.Writer
	duration float64
}

// NewReporter writes progress for a batch targeting duration seconds per clip
func NewReporter(out io.Writer, duration float64) *Reporter {
	return &Reporter{out: out, duration: duration}
}

// Event implements batch.Options.OnEvent
func (r *Reporter) Event(e batch.Event) {
	name := filepath.Base(e.InputPath)
	counter := KeyStyle.Render(fmt.Sprintf("[%d/%d]", e.Index+1, e.Total))

	switch e.Kind {
	case batch.EventStart:
		if e.Metadata != nil {
			fmt.Fprintf(r.out, "%s Processing %s (%s)...\n", counter, name, e.Metadata)
		} else {
			fmt.Fprintf(r.out, "%s Processing %s...\n", counter, name)
		}

	case batch.EventFailed:
		fmt.Fprintf(r.out, "%s %s %s: %v\n", counter, ErrorStyle.Render("✗"), name, e.Err)

	case batch.EventDone:
		res := e.Result
		var detail string
		switch {
		case res.Silent:
			detail = "no audio above threshold, kept as-is"
		case !res.Trimmed:
			detail = "nothing to trim"
		default:
			detail = fmt.Sprintf("kept samples %s", res.Span)
		}
		fmt.Fprintf(r.out, "%s %s Saved '%s' with a forced duration of %s (%s, %s)\n",
			counter, SuccessStyle.Render("✓"), name, FormatSeconds(r.duration), detail, FormatDuration(e.Elapsed))
	}
}

// Summary prints the batch totals in a box
func (r *Reporter) Summary(s *batch.Summary) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s  %s %s",
		KeyStyle.Render("Processed:"), ValueStyle.Render(fmt.Sprint(s.Processed)),
		KeyStyle.Render("Silent:"), ValueStyle.Render(fmt.Sprint(s.Silent)),
		KeyStyle.Render("Failed:"), ValueStyle.Render(fmt.Sprint(s.Failed)),
		KeyStyle.Render("Time:"), ValueStyle.Render(FormatDuration(s.Elapsed)))

	for _, fe := range s.Failures {
		fmt.Fprintf(&b, "\n  %s %s", ErrorStyle.Render("✗"), fe.Error())
	}

	fmt.Fprintln(r.out, BoxStyle.Render(b.String()))
}
