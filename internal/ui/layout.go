package ui

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/kyaoi/medit/internal/preview"
	"github.com/kyaoi/medit/internal/workspace"
)

const (
	toolbarRow    = 0
	tabStripRow   = 1
	chromeHeight  = 3
	maxTabLabel   = 24
	closeGlyph    = "×"
	modifiedGlyph = "+"
	tabSeparator  = "│"
)

type toolbarAction int

const (
	actionOpen toolbarAction = iota
	actionPreview
)

// button is a clickable span of the toolbar, in screen columns [x0, x1).
type button struct {
	action toolbarAction
	label  string
	x0, x1 int
}

func toolbarButtons(kind preview.Kind) []button {
	labels := []struct {
		action toolbarAction
		label  string
	}{
		{actionOpen, "[ Open file… ]"},
		{actionPreview, fmt.Sprintf("[ Preview: %s ]", kind)},
	}
	var out []button
	x := 0
	for _, l := range labels {
		w := ansi.StringWidth(l.label)
		out = append(out, button{action: l.action, label: l.label, x0: x, x1: x + w})
		x += w + 1
	}
	return out
}

// tabSegment is the screen span of one tab button. The close control
// occupies the single column closeX.
type tabSegment struct {
	id     workspace.TabID
	index  int
	label  string
	x0, x1 int
	closeX int
}

func tabLabel(t *workspace.Tab) string {
	name := ansi.Truncate(t.Name, maxTabLabel, "…")
	if t.Modified() {
		name += modifiedGlyph
	}
	return name
}

// layoutTabs places tab buttons on a single row of the given width. When the
// tabs do not fit, leading tabs are scrolled out so the active one is shown.
func layoutTabs(tabs []*workspace.Tab, active, width int) []tabSegment {
	if len(tabs) == 0 {
		return nil
	}
	labels := make([]string, len(tabs))
	widths := make([]int, len(tabs))
	for i, t := range tabs {
		labels[i] = tabLabel(t)
		// " label × "
		widths[i] = ansi.StringWidth(labels[i]) + 4
	}

	first := 0
	for first < active && spanWidth(widths[first:active+1]) > width {
		first++
	}

	var out []tabSegment
	x := 0
	for i := first; i < len(tabs); i++ {
		if x+widths[i] > width && i > active {
			break
		}
		out = append(out, tabSegment{
			id:     tabs[i].ID,
			index:  i,
			label:  labels[i],
			x0:     x,
			x1:     x + widths[i],
			closeX: x + widths[i] - 2,
		})
		x += widths[i] + ansi.StringWidth(tabSeparator)
	}
	return out
}

func spanWidth(widths []int) int {
	total := 0
	for i, w := range widths {
		total += w
		if i > 0 {
			total += ansi.StringWidth(tabSeparator)
		}
	}
	return total
}

// hitTab returns the segment under column x and whether the close control
// was hit.
func hitTab(segments []tabSegment, x int) (tabSegment, bool, bool) {
	for _, s := range segments {
		if x >= s.x0 && x < s.x1 {
			return s, x == s.closeX, true
		}
	}
	return tabSegment{}, false, false
}

func hitButton(buttons []button, x int) (button, bool) {
	for _, b := range buttons {
		if x >= b.x0 && x < b.x1 {
			return b, true
		}
	}
	return button{}, false
}
