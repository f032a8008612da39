package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(EdgeCyan).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(SlateGray).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(EdgeTeal).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(EdgeMint).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(EdgeCyan).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(SlateGray).
				Italic(true)
)

// helpExamples are shown at the end of --help
var helpExamples = []string{
	"jivetrim                                 # trim ./*.wav into ./trimmed at 8s",
	"jivetrim ~/clips --duration=4 --threshold-db=-50",
	"jivetrim --algorithm=peak --padding=64 --no-trim-end",
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return kong.HelpPrinter(func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(AppName))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(AppDescription))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(fmt.Sprintf("%s [<dir>] [flags]", ctx.Model.Name))
		sb.WriteString("\n")

		if args := getArguments(ctx); len(args) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range args {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(arg.name))
				if arg.help != "" {
					sb.WriteString("  ")
					sb.WriteString(arg.help)
				}
				sb.WriteString("\n")
			}
		}

		// One section per flag group, ungrouped flags first
		for _, section := range getFlagSections(ctx) {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render(section.title + ":"))
			sb.WriteString("\n")
			for _, f := range section.flags {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(f.flags))
				if f.help != "" {
					sb.WriteString("  ")
					sb.WriteString(f.help)
				}
				if f.defaultVal != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render("Examples:"))
		sb.WriteString("\n")
		for _, ex := range helpExamples {
			sb.WriteString("  ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	})
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

type flagSection struct {
	title string
	flags []flag
}

func getArguments(ctx *kong.Context) []argument {
	var args []argument
	for _, arg := range ctx.Model.Node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}
	return args
}

func getFlagSections(ctx *kong.Context) []flagSection {
	general := flagSection{
		title: "Flags",
		flags: []flag{{flags: "-h, --help", help: "Show context-sensitive help."}},
	}
	sections := []flagSection{}
	index := map[string]int{}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		entry := describeFlag(f)
		if f.Group == nil {
			general.flags = append(general.flags, entry)
			continue
		}

		i, ok := index[f.Group.Title]
		if !ok {
			i = len(sections)
			index[f.Group.Title] = i
			sections = append(sections, flagSection{title: f.Group.Title})
		}
		sections[i].flags = append(sections[i].flags, entry)
	}

	return append([]flagSection{general}, sections...)
}

func describeFlag(f *kong.Flag) flag {
	name := f.Name
	// Bools that default to true are only useful negated
	negatable := f.IsBool() && f.HasDefault && f.Default == "true"
	if negatable {
		name = "[no-]" + name
	}

	flagStr := "--" + name
	if f.Short != 0 {
		flagStr = fmt.Sprintf("-%c, --%s", f.Short, name)
	}

	if !f.IsBool() && f.PlaceHolder != "" {
		flagStr += "=" + strings.ToUpper(f.PlaceHolder)
	}

	// Only show default if it's a meaningful value (not empty, not type placeholder)
	defaultVal := ""
	if f.HasDefault && (!f.IsBool() || negatable) {
		val := f.Default
		if val != "" && val != "STRING" && val != "BOOL" {
			defaultVal = val
		}
	}

	return flag{flags: flagStr, help: f.Help, defaultVal: defaultVal}
}
