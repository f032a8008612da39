package cli

import "github.com/charmbracelet/lipgloss"

// Shared palette for consistent branding across CLI and TUI
var (
	// Core colours (dark to bright)
	EdgeTeal  = lipgloss.Color("#00A896") // Deep teal
	EdgeCyan  = lipgloss.Color("#02C39A") // Bright green-cyan
	EdgeMint  = lipgloss.Color("#A8E6CF") // Pale mint
	EdgeCoral = lipgloss.Color("#F25F5C") // Coral for failures

	// Accent colours
	SlateGray = lipgloss.Color("#8D99AE") // Subtle text
)
