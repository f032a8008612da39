package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/jivetrim/internal/cli"
	"github.com/linuxmatters/jivetrim/internal/processor"
)

const spanBarWidth = 32

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.EdgeCyan)
	phaseStyle = lipgloss.NewStyle().Foreground(cli.EdgeTeal)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	okIcon     = lipgloss.NewStyle().Foreground(cli.EdgeCyan).Render("✓")
	failIcon   = lipgloss.NewStyle().Foreground(cli.EdgeCoral).Render("✗")
	busyIcon   = lipgloss.NewStyle().Foreground(cli.EdgeMint).Render("⚙")
	queuedIcon = lipgloss.NewStyle().Foreground(cli.SlateGray).Render("○")
)

func (m *Model) renderHeader(s *strings.Builder) {
	s.WriteString(titleStyle.Render(cli.AppName))
	s.WriteString("\n")
	s.WriteString(phaseStyle.Render(fmt.Sprintf("Trimming %d file(s) to %s", len(m.files), cli.FormatSeconds(m.duration))))
	s.WriteString("\n\n")
}

func (m *Model) renderProgress() string {
	var s strings.Builder
	m.renderHeader(&s)

	var percent float64
	if len(m.files) > 0 {
		percent = float64(m.finished) / float64(len(m.files))
	}
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("Time: %s  │  %d of %d done  │  %d failed",
		formatDuration(time.Since(m.startTime)), m.finished, len(m.files), m.failed)))
	s.WriteString("\n\n")

	first, last := m.visibleRange()
	if first > 0 {
		s.WriteString(dimStyle.Render(fmt.Sprintf("  … %d earlier", first)))
		s.WriteString("\n")
	}
	for i := first; i < last; i++ {
		s.WriteString(renderFileEntry(m.files[i]))
		s.WriteString("\n")
	}
	if last < len(m.files) {
		s.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(m.files)-last)))
		s.WriteString("\n")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.EdgeTeal).
		Padding(1, 2).
		Render(strings.TrimRight(s.String(), "\n"))
}

// visibleRange keeps the current file on screen when the list is taller
// than the terminal
func (m *Model) visibleRange() (int, int) {
	rows := len(m.files)
	if m.height > 0 {
		rows = max(3, m.height-12)
	}
	if rows >= len(m.files) {
		return 0, len(m.files)
	}

	first := max(0, m.current-rows/2)
	last := min(len(m.files), first+rows)
	first = max(0, last-rows)
	return first, last
}

func renderFileEntry(f FileProgress) string {
	switch f.Status {
	case StatusDone:
		return fmt.Sprintf(" %s %-28s %s  %s", okIcon, f.Name, renderSpanBar(f.Result, spanBarWidth), dimStyle.Render(describeResult(f.Result)))
	case StatusFailed:
		return fmt.Sprintf(" %s %-28s %s", failIcon, f.Name, lipgloss.NewStyle().Foreground(cli.EdgeCoral).Render(fmt.Sprint(f.Err)))
	case StatusProcessing:
		status := "processing…"
		if f.Meta != nil {
			status = fmt.Sprintf("processing %s…", f.Meta)
		}
		return fmt.Sprintf(" %s %-28s %s", busyIcon, f.Name, dimStyle.Render(status))
	default:
		return fmt.Sprintf(" %s %s", queuedIcon, dimStyle.Render(f.Name))
	}
}

func describeResult(r *processor.Result) string {
	if r == nil {
		return ""
	}
	switch {
	case r.Silent:
		return "silent"
	case r.Truncated():
		return "truncated"
	case r.Padded():
		return "padded"
	default:
		return "exact"
	}
}

// renderSpanBar draws the input as a bar: kept audio solid, trimmed
// silence shaded
func renderSpanBar(r *processor.Result, width int) string {
	if r == nil || r.InputSamples == 0 || width <= 0 {
		return strings.Repeat(" ", width)
	}

	kept := lipgloss.NewStyle().Foreground(cli.EdgeCyan)
	trimmed := lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))

	start := r.Span.Start * width / r.InputSamples
	end := (r.Span.End*width + r.InputSamples - 1) / r.InputSamples
	if end <= start && r.Span.Len() > 0 {
		end = min(width, start+1)
	}

	var b strings.Builder
	for i := range width {
		if i >= start && i < end {
			b.WriteString(kept.Render("█"))
		} else {
			b.WriteString(trimmed.Render("░"))
		}
	}
	return b.String()
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(cli.EdgeCoral).Render("✗ Batch stopped"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprint(m.err))
		s.WriteString("\n")
	} else {
		s.WriteString(titleStyle.Render("✓ Trimming Complete!"))
		s.WriteString("\n\n")
	}

	label := func(l string) string { return dimStyle.Render(fmt.Sprintf("%-11s", l)) }

	s.WriteString(fmt.Sprintf("%s%s\n", label("Output:"), m.outputDir))
	s.WriteString(fmt.Sprintf("%s%s per clip\n", label("Duration:"), cli.FormatSeconds(m.duration)))

	if sum := m.summary; sum != nil {
		s.WriteString(fmt.Sprintf("%s%d of %d\n", label("Processed:"), sum.Processed, sum.Total))
		if sum.Silent > 0 {
			s.WriteString(fmt.Sprintf("%s%d\n", label("Silent:"), sum.Silent))
		}
		if sum.Failed > 0 {
			s.WriteString(fmt.Sprintf("%s%d\n", label("Failed:"), sum.Failed))
			for _, fe := range sum.Failures {
				s.WriteString(fmt.Sprintf("  %s %s\n", failIcon, fe.Error()))
			}
		}
		s.WriteString(fmt.Sprintf("%s%s", label("Time:"), formatDuration(sum.Elapsed)))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(cli.EdgeTeal).
		Padding(1, 1).
		Render(strings.TrimRight(s.String(), "\n")) + "\n"
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
