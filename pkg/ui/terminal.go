package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔════════════════════════════════════════════════════════════╗
    ║ ████████╗ █████╗  ██████╗ ████████╗ █████╗ ██╗     ██╗   ██╗ ║
    ║ ╚══██╔══╝██╔══██╗██╔════╝ ╚══██╔══╝██╔══██╗██║     ╚██╗ ██╔╝ ║
    ║    ██║   ███████║██║  ███╗   ██║   ███████║██║      ╚████╔╝  ║
    ║    ██║   ██╔══██║██║   ██║   ██║   ██╔══██║██║       ╚██╔╝   ║
    ║    ██║   ██║  ██║╚██████╔╝   ██║   ██║  ██║███████╗   ██║    ║
    ║    ╚═╝   ╚═╝  ╚═╝ ╚═════╝    ╚═╝   ╚═╝  ╚═╝╚══════╝   ╚═╝    ║
    ║              HASHTAG MENTION COUNTER                         ║
    ╚════════════════════════════════════════════════════════════╝
`

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")

	logoStyle      = lipgloss.NewStyle().Foreground(neonCyan).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(neonCyan).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(neonYellow)
	successStyle   = lipgloss.NewStyle().Foreground(neonGreen).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	warningStyle   = lipgloss.NewStyle().Foreground(neonOrange).Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(neonMagenta).Bold(true)
)

var (
	output    io.Writer = os.Stdout
	quietMode bool
)

// SetOutput redirects all terminal output
func SetOutput(w io.Writer) {
	output = w
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuiet reports whether quiet mode is on
func IsQuiet() bool {
	return quietMode
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quietMode {
		return
	}
	fmt.Fprint(output, logoStyle.Render(ASCIILogo))
	fmt.Fprintln(output)
}

// PrintError prints an error message in red. Errors are printed even in
// quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(output, errorStyle.Render(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(output, successStyle.Render(msg))
}

// PrintInfo prints a label and value pair
func PrintInfo(label string, value string) {
	if quietMode {
		return
	}
	fmt.Fprintf(output, "%s: %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

// PrintWarning prints a warning message in orange
func PrintWarning(msg string, args ...interface{}) {
	if quietMode {
		return
	}
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(output, warningStyle.Render(msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode {
		return
	}
	fmt.Fprintln(output, highlightStyle.Render(msg))
}
