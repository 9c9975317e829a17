package feed

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultTitleWidth is the display width titles are truncated to.
const DefaultTitleWidth = 60

var tableHeader = []string{"#", "Published", "Source", "Category", "Read", "Title"}

// WriteTable renders views as an aligned text table. Widths are measured
// in terminal cells so Devanagari and CJK titles line up.
func WriteTable(w io.Writer, views []View, titleWidth int) error {
	if titleWidth <= 0 {
		titleWidth = DefaultTitleWidth
	}

	rows := make([][]string, 0, len(views)+1)
	rows = append(rows, tableHeader)

	for i, v := range views {
		published := v.Published
		if published == "" {
			published = "-"
		}

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			published,
			v.Source,
			v.Category,
			v.ReadTime,
			runewidth.Truncate(v.Title, titleWidth, "…"),
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for r, row := range rows {
		var sb strings.Builder

		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}

			sb.WriteString(cell)

			// no trailing padding on the last column
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}

		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}

		if r == 0 {
			total := 2 * (len(widths) - 1)
			for _, cw := range widths {
				total += cw
			}

			if _, err := fmt.Fprintln(w, strings.Repeat("-", total)); err != nil {
				return err
			}
		}
	}

	return nil
}
