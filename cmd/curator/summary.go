package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"curator/internal/report"
)

// renderSummary formats the run summary as the closing report: the category
// distribution sorted by descending count, then the run totals.
func renderSummary(summary report.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Template Categorization Summary")
	tw.AppendHeader(table.Row{"Category", "Count", "Percent"})
	for _, cat := range summary.Categories {
		tw.AppendRow(table.Row{cat.Name, report.FormatCount(cat.Count), report.FormatPercent(cat.Percent)})
	}
	tw.AppendFooter(table.Row{"TOTAL", report.FormatCount(summary.Surviving), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	var b strings.Builder
	b.WriteString(tw.Render())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Scanned %s templates, removed %s duplicates, %s errors\n",
		report.FormatCount(summary.Scanned),
		report.FormatCount(summary.Duplicates),
		report.FormatCount(summary.Errors),
	)
	return b.String()
}
