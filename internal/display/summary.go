package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/vidbatch/internal/term"
)

// maxFailedListed caps the failed-file names printed in the summary.
const maxFailedListed = 5

// Report is the data shown in the end-of-run summary.
type Report struct {
	Total       int
	Processed   int
	Succeeded   int
	Skipped     int
	Failed      int
	Elapsed     string
	Savings     string
	Interrupted bool
	FailedFiles []string
	LogPath     string
}

// PrintSummary writes the end-of-run summary table to w, followed by up to
// five failed file names.
func PrintSummary(w io.Writer, r Report) {
	fmt.Fprintln(w)
	if r.Interrupted {
		fmt.Fprintf(w, "%sConversion interrupted by user!%s\n", term.Yellow, term.NC)
		fmt.Fprintf(w, "Processed: %d/%d files\n\n", r.Processed, r.Total)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Summary", ""})
	tw.AppendRow(table.Row{"Total files", strconv.Itoa(r.Total)})
	tw.AppendRow(table.Row{"Succeeded", strconv.Itoa(r.Succeeded)})
	tw.AppendRow(table.Row{"Skipped", strconv.Itoa(r.Skipped)})
	tw.AppendRow(table.Row{"Failed", strconv.Itoa(r.Failed)})
	tw.AppendRow(table.Row{"Elapsed", r.Elapsed})
	tw.AppendRow(table.Row{"Space", r.Savings})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	fmt.Fprintln(w, tw.Render())

	if len(r.FailedFiles) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%sFailed files:%s\n", term.Red, term.NC)
	for i, name := range r.FailedFiles {
		if i == maxFailedListed {
			fmt.Fprintf(w, "  ... and %d more (check log file %s)\n", len(r.FailedFiles)-maxFailedListed, r.LogPath)
			break
		}
		fmt.Fprintf(w, "  - %s\n", name)
	}
}
