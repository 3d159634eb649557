package trial

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable writes one row per summary. style is "rounded", "csv" or
// "markdown"; anything else renders rounded.
func RenderTable(out io.Writer, title string, summaries []Summary, style string) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Treatment", "Games", "Failed", "Average", "Stddev", "Min", "Max", "Per turn"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Treatment,
			s.Games,
			s.Failed,
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.StdDev),
			s.Min,
			s.Max,
			s.TurnTime.String(),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	switch style {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
}
