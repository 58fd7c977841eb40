// Package overlay draws a box over an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center places box in the middle of a width x height base view. Both may
// be styled; cells outside the box keep the base content. A box larger
// than the view is clipped.
func Center(base, box string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	boxLines := strings.Split(box, "\n")

	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	boxWidth = min(boxWidth, width)
	top := max((height-len(boxLines))/2, 0)
	left := max((width-boxWidth)/2, 0)

	for i, line := range boxLines {
		row := top + i
		if row >= len(baseLines) || row >= height {
			break
		}
		baseLines[row] = splice(baseLines[row], line, left, boxWidth, width)
	}
	return strings.Join(baseLines, "\n")
}

// splice replaces columns [left, left+w) of line with content.
func splice(line, content string, left, w, width int) string {
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	content = ansi.Truncate(content, w, "")
	if cw := ansi.StringWidth(content); cw < w {
		content += strings.Repeat(" ", w-cw)
	}

	prefix := ansi.Cut(line, 0, left)
	// A wide rune cut in half leaves the prefix short.
	if pw := ansi.StringWidth(prefix); pw < left {
		prefix += strings.Repeat(" ", left-pw)
	}
	suffix := ""
	if end := left + w; end < width {
		suffix = ansi.Cut(line, end, width)
		switch sw := ansi.StringWidth(suffix); {
		case sw < width-end:
			suffix = strings.Repeat(" ", width-end-sw) + suffix
		case sw > width-end:
			// the cut kept a whole wide rune that starts inside the box
			suffix = " " + ansi.TruncateLeft(suffix, sw-(width-end)+1, "")
		}
	}
	return prefix + content + suffix
}
