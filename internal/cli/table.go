package cli

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// PrintTable writes rows as left-aligned columns. Footers may be nil.
func PrintTable(w io.Writer, headers []string, rows [][]string, footers []string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = utf8.RuneCountInString(header)
	}
	widen := func(cells []string) {
		for i, cell := range cells {
			if i < len(colWidths) && utf8.RuneCountInString(cell) > colWidths[i] {
				colWidths[i] = utf8.RuneCountInString(cell)
			}
		}
	}
	for _, row := range rows {
		widen(row)
	}
	widen(footers)

	printRow := func(cells []string) {
		for i := range colWidths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(colWidths)-1 {
				fmt.Fprint(w, cell)
				break
			}
			fmt.Fprintf(w, "%s%*s  ", cell, colWidths[i]-utf8.RuneCountInString(cell), "")
		}
		fmt.Fprintln(w)
	}

	printRow(headers)
	for _, row := range rows {
		printRow(row)
	}
	if len(footers) > 0 {
		printRow(footers)
	}
}

// hours renders a duration in decimal hours, blank when zero.
func hours(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f", v)
}
