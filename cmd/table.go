package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alec-rabold/zipbuddy/pkg/reader"
	humanize "github.com/dustin/go-humanize"
)

const ellipsis = "..."

type column struct {
	title string
	width int
	value func(h *reader.DirectoryHeader) string
}

// entryTable renders directory entries as fixed-width columns separated by a
// single space. Cells that do not fit are cut and end in "...".
type entryTable struct {
	columns []column
}

func newEntryTable(human bool) *entryTable {
	size := func(h *reader.DirectoryHeader) string {
		return strconv.FormatUint(h.UncompressedSize(), 10) + "B"
	}
	if human {
		size = func(h *reader.DirectoryHeader) string { return humanize.Bytes(h.UncompressedSize()) }
	}

	return &entryTable{columns: []column{
		{"File Name", 40, (*reader.DirectoryHeader).Name},
		{"Directory", 12, func(h *reader.DirectoryHeader) string { return strconv.FormatBool(h.IsDir()) }},
		{"Uncomp Size", 15, size},
		{"Timestamp", 20, (*reader.DirectoryHeader).Timestamp},
		{"Comment", 40, (*reader.DirectoryHeader).Comment},
	}}
}

func (t *entryTable) render(w io.Writer, entries []*reader.DirectoryHeader) error {
	cells := make([]string, len(t.columns))
	width := 0
	for i, c := range t.columns {
		cells[i] = fitCell(c.title, c.width)
		width += c.width
	}
	if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", width)); err != nil {
		return err
	}

	for _, h := range entries {
		for i, c := range t.columns {
			cells[i] = fitCell(c.value(h), c.width)
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

// fitCell pads s with spaces to width, or cuts it to width ending in "...".
// Widths are counted in runes.
func fitCell(s string, width int) string {
	r := []rune(s)
	switch {
	case len(r) < width:
		return s + strings.Repeat(" ", width-len(r))
	case len(r) > width:
		if width <= len(ellipsis) {
			return string(r[:width])
		}
		return string(r[:width-len(ellipsis)]) + ellipsis
	default:
		return s
	}
}
