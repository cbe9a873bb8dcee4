package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bytesPerLine = 16

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	regionColors = []lipgloss.Color{"#98FB98", "#87CEEB", "#FFD700", "#FFA07A", "#DDA0DD", "#90EE90", "#F0E68C"}
)

// dumper renders hex dumps. A plain dumper emits no escape sequences.
type dumper struct {
	regions []region
	plain   bool
}

// regionAt returns the index of the last region containing off, or -1.
// Later regions are more specific when they overlap.
func (d *dumper) regionAt(off int64) int {
	found := -1
	for i, r := range d.regions {
		if off >= r.rng.Start && off < r.rng.End {
			found = i
		}
	}
	return found
}

func (d *dumper) style(idx, selected int) (lipgloss.Style, bool) {
	if d.plain || idx < 0 {
		return lipgloss.Style{}, false
	}
	if idx == selected {
		return selectedStyle, true
	}
	return lipgloss.NewStyle().Foreground(regionColors[idx%len(regionColors)]), true
}

func (d *dumper) paint(s string, idx, selected int) string {
	if st, ok := d.style(idx, selected); ok {
		return st.Render(s)
	}
	return s
}

// dump renders data sixteen bytes per line with an ASCII column, painting
// each byte by region and the selected region in reverse.
func (d *dumper) dump(data []byte, selected int) string {
	var b strings.Builder
	for line := 0; line < len(data); line += bytesPerLine {
		end := min(line+bytesPerLine, len(data))

		off := fmt.Sprintf("%08x", line)
		if !d.plain {
			off = offsetStyle.Render(off)
		}
		b.WriteString(off)
		b.WriteString("  ")

		for i := line; i < line+bytesPerLine; i++ {
			if i == line+bytesPerLine/2 {
				b.WriteByte(' ')
			}
			if i >= end {
				b.WriteString("   ")
				continue
			}
			b.WriteString(d.paint(fmt.Sprintf("%02x", data[i]), d.regionAt(int64(i)), selected))
			b.WriteByte(' ')
		}

		b.WriteString(" |")
		for i := line; i < end; i++ {
			c := data[i]
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			b.WriteString(d.paint(string(c), d.regionAt(int64(i)), selected))
		}
		b.WriteString("|\n")
	}
	return b.String()
}

// legend lists the regions with their ranges.
func (d *dumper) legend(selected int) string {
	var b strings.Builder
	for i, r := range d.regions {
		cursor := "  "
		if i == selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-18s %-18s %6d bytes", cursor, r.label, r.rng, r.rng.Len())
		if d.plain {
			b.WriteString(line)
		} else if i == selected {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(regionColors[i%len(regionColors)]).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
