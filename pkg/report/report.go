package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	errs "tagtally/pkg/errors"
	"tagtally/pkg/tally"
)

// CSVHeader is the first row of every report
var CSVHeader = []string{"Username", "Number of Mentions"}

// histogramWidth is the padded width of the username column
const histogramWidth = 16

// WriteCSV writes the header row followed by one row per table entry, in
// table order.
func WriteCSV(w io.Writer, table *tally.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range table.Entries() {
		if err := writer.Write([]string{e.Username, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", e.Username, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// SaveCSV writes the report to path. The file is written next to its
// destination under a temporary name and renamed into place, so a failed
// write never leaves a truncated report behind.
func SaveCSV(path string, table *tally.Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errs.Wrap(errs.ErrorTypeOutput, err, "failed to create output directory")
		}
	}

	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeOutput, err, "failed to create temporary file")
	}

	err = WriteCSV(out, table)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeOutput, err, "failed to write report")
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeOutput, closeErr, "failed to close report")
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return errs.Wrap(errs.ErrorTypeOutput, err, "failed to rename temporary file")
	}

	return nil
}

// Histogram renders entries sorted by count, highest first, one asterisk per
// mention. Equal counts keep table order. An empty table renders as "".
func Histogram(table *tally.Table) string {
	entries := table.Entries()
	if len(entries) == 0 {
		return ""
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	var b strings.Builder
	b.WriteString("Histogram:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%-*s:%s", histogramWidth, e.Username, strings.Repeat("*", e.Count))
	}
	return b.String()
}

// Summary renders "Results:" followed by one "user: count" line per entry
func Summary(table *tally.Table) string {
	var b strings.Builder
	b.WriteString("Results:")
	for _, e := range table.Entries() {
		fmt.Fprintf(&b, "\n%s: %d", e.Username, e.Count)
	}
	return b.String()
}
