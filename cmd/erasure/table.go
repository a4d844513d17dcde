package main

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var headerColor = color.New(color.Bold, color.FgCyan)

// table prints rows with columns padded to their display width, so names
// with wide or combining characters still line up.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table { return &table{header: header} }

func (t *table) add(cells ...string) { t.rows = append(t.rows, cells) }

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(w) {
				w[i] = max(w[i], runewidth.StringWidth(c))
			}
		}
	}
	return w
}

func (t *table) render(out io.Writer) error {
	w := t.widths()
	if _, err := io.WriteString(out, headerColor.Sprint(t.line(t.header, w))+"\n"); err != nil {
		return err
	}
	for _, r := range t.rows {
		if _, err := io.WriteString(out, t.line(r, w)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (t *table) line(cells []string, w []int) string {
	var sb strings.Builder
	for i, c := range cells {
		if i >= len(w) {
			break
		}
		if i == len(cells)-1 {
			sb.WriteString(c)
			break
		}
		sb.WriteString(runewidth.FillRight(c, w[i]))
		sb.WriteString("  ")
	}
	return sb.String()
}
