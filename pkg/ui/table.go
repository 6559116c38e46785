package ui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"tagtally/pkg/config"
	"tagtally/pkg/tally"
)

// NewTable returns a rounded table writer mirrored to w
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderResults writes the mention counts as a table in table order
func RenderResults(w io.Writer, mentions *tally.Table) {
	t := NewTable(w)
	t.SetTitle("Mentions")
	t.AppendHeader(table.Row{"#", "Username", "Mentions"})
	for i, entry := range mentions.Entries() {
		t.AppendRow(table.Row{i + 1, entry.Username, entry.Count})
	}
	t.AppendFooter(table.Row{"", "Total", mentions.Total()})
	t.Render()
}

// PrintResults renders the results table to the terminal output
func PrintResults(mentions *tally.Table) {
	if quietMode {
		return
	}
	RenderResults(output, mentions)
}

// RenderConfig writes the effective configuration as a settings table
func RenderConfig(w io.Writer, cfg *config.Config) {
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "(stderr only)"
	}
	userAgent := cfg.Source.UserAgent
	if userAgent == "" {
		userAgent = "(default)"
	}

	t := NewTable(w)
	t.SetTitle("Configuration")
	t.AppendHeader(table.Row{"Setting", "Value"})
	t.AppendRows([]table.Row{
		{"Search URL", cfg.Source.SearchURL},
		{"User agent", userAgent},
		{"Request timeout", cfg.Source.Timeout},
		{"Post selector", cfg.Source.PostSelector},
		{"Mention selector", cfg.Source.MentionSelector},
		{"Post ID attribute", cfg.Source.IDAttribute},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Poll period", cfg.Poll.Period},
		{"Abort on error", fmt.Sprintf("%t", cfg.Poll.AbortOnError)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Output file", cfg.Output.File},
		{"Histogram", fmt.Sprintf("%t", cfg.Output.Histogram)},
		{"Log level", cfg.Logging.Level},
		{"Log file", logFile},
	})
	t.Render()
}
