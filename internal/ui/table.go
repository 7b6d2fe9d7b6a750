package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// maxNameWidth truncates long names in the table view.
const maxNameWidth = 40

// PrintRecordTable writes records as an aligned table. Rows for which
// isLow returns true carry IconLow and are rendered with LowStyle. Styling
// is applied after alignment so escape codes do not shift the columns.
func PrintRecordTable(w io.Writer, records []types.Record, isLow func(id int64) bool) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}
	if isLow == nil {
		isLow = func(int64) bool { return false }
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tQTY\tLOCATION\tACQUIRED\t")
	for _, r := range records {
		name := r.Name
		if len([]rune(name)) > maxNameWidth {
			name = string([]rune(name)[:maxNameWidth-3]) + "..."
		}
		mark := ""
		if isLow(r.ID) {
			mark = IconLow
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, name, r.Category, r.Quantity, r.Location, r.AcquisitionDate, mark)
	}
	tw.Flush()

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		switch {
		case i == 0:
			line = HeaderStyle.Render(line)
		case i <= len(records) && isLow(records[i-1].ID):
			line = RenderLow(line)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, RenderMuted(fmt.Sprintf("Total: %d record(s)", len(records))))
}
