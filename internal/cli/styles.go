package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AppName is used in banners and help
const AppName = "Jivetrim ✂️"

// AppDescription is the one-line summary shown in help
const AppDescription = "Trim the silence from a folder of .wav and .flac clips and fit each one to an exact duration."

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(EdgeCyan).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SlateGray).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(EdgeCyan)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(EdgeCoral)

	// Highlight style for important values
	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(EdgeMint)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(SlateGray)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	// Box style for framed content
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(EdgeTeal).
			Padding(1, 2).
			MarginTop(1)
)

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Println(SubtitleStyle.Render(AppDescription))
	fmt.Println()
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render(AppName))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints an informational message
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSeconds formats a clip length given in seconds
func FormatSeconds(s float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", s), "0"), ".") + "s"
}
