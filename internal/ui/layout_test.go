package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/medit/internal/doc"
	"github.com/kyaoi/medit/internal/preview"
	"github.com/kyaoi/medit/internal/workspace"
)

func tabsNamed(names ...string) []*workspace.Tab {
	w := workspace.New(workspace.Options{})
	for _, n := range names {
		w.Open(doc.Document{Name: n, Path: "/tmp/" + n})
	}
	return w.Tabs()
}

func TestToolbarButtons(t *testing.T) {
	buttons := toolbarButtons(preview.Off)
	require.Len(t, buttons, 2)
	assert.Equal(t, 0, buttons[0].x0)
	assert.Equal(t, buttons[0].x1+1, buttons[1].x0)
	assert.Contains(t, buttons[1].label, "off")

	b, ok := hitButton(buttons, buttons[1].x0)
	require.True(t, ok)
	assert.Equal(t, actionPreview, b.action)
	_, ok = hitButton(buttons, buttons[0].x1)
	assert.False(t, ok)
}

func TestLayoutTabs(t *testing.T) {
	tabs := tabsNamed("a.md", "bb.md")
	segs := layoutTabs(tabs, 0, 80)
	require.Len(t, segs, 2)

	// " a.md × " is 8 columns, then a separator.
	assert.Equal(t, 0, segs[0].x0)
	assert.Equal(t, 8, segs[0].x1)
	assert.Equal(t, 6, segs[0].closeX)
	assert.Equal(t, 9, segs[1].x0)

	seg, closeHit, ok := hitTab(segs, 2)
	require.True(t, ok)
	assert.False(t, closeHit)
	assert.Equal(t, 0, seg.index)

	seg, closeHit, ok = hitTab(segs, segs[1].closeX)
	require.True(t, ok)
	assert.True(t, closeHit)
	assert.Equal(t, tabs[1].ID, seg.id)

	_, _, ok = hitTab(segs, 8)
	assert.False(t, ok)
}

func TestLayoutTabsScrollsToActive(t *testing.T) {
	var names []string
	for i := 0; i < 10; i++ {
		names = append(names, fmt.Sprintf("file%d.md", i))
	}
	tabs := tabsNamed(names...)

	segs := layoutTabs(tabs, 9, 40)
	require.NotEmpty(t, segs)
	assert.Equal(t, 9, segs[len(segs)-1].index)
	assert.LessOrEqual(t, segs[len(segs)-1].x1, 40)

	segs = layoutTabs(tabs, 0, 40)
	assert.Equal(t, 0, segs[0].index)
	assert.LessOrEqual(t, segs[len(segs)-1].x1, 40)
}

func TestTabLabelTruncates(t *testing.T) {
	tabs := tabsNamed(strings.Repeat("x", 60) + ".md")
	assert.LessOrEqual(t, len([]rune(tabLabel(tabs[0]))), maxTabLabel)
}
