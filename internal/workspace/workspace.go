package workspace

import (
	"github.com/kyaoi/medit/internal/doc"
	"github.com/kyaoi/medit/internal/mode"
	"github.com/kyaoi/medit/internal/preview"
)

// Options tune how new tabs are created.
type Options struct {
	SelectOnOpen bool
	Preview      preview.Kind
}

// Workspace is the ordered set of open tabs and the selected position.
type Workspace struct {
	opts     Options
	tabs     []*Tab
	selected int
	nextID   TabID
}

// New returns an empty workspace.
func New(opts Options) *Workspace {
	return &Workspace{opts: opts, nextID: 1}
}

// Open appends a tab for d and returns it.
func (w *Workspace) Open(d doc.Document) *Tab {
	tab := &Tab{
		ID:      w.nextID,
		Name:    d.Name,
		Path:    d.Path,
		Text:    d.Text,
		Mode:    mode.Normal,
		Preview: w.opts.Preview,
		loaded:  d.Text,
	}
	w.nextID++
	w.tabs = append(w.tabs, tab)
	if w.opts.SelectOnOpen || len(w.tabs) == 1 {
		w.selected = len(w.tabs) - 1
	}
	return tab
}

// Len returns the number of open tabs.
func (w *Workspace) Len() int { return len(w.tabs) }

// Tabs returns the tabs in open order. The slice must not be modified.
func (w *Workspace) Tabs() []*Tab { return w.tabs }

// Selected returns the selected index. It is 0 when no tab is open.
func (w *Workspace) Selected() int { return w.selected }

// Active returns the selected tab, or nil when no tab is open.
func (w *Workspace) Active() *Tab {
	if len(w.tabs) == 0 {
		return nil
	}
	return w.tabs[w.selected]
}

// Select makes the tab at index i active.
func (w *Workspace) Select(i int) bool {
	if i < 0 || i >= len(w.tabs) {
		return false
	}
	w.selected = i
	return true
}

// SelectID makes the tab with the given id active.
func (w *Workspace) SelectID(id TabID) bool {
	return w.Select(w.indexOf(id))
}

// Next selects the following tab, wrapping around.
func (w *Workspace) Next() {
	if len(w.tabs) == 0 {
		return
	}
	w.selected = (w.selected + 1) % len(w.tabs)
}

// Prev selects the preceding tab, wrapping around.
func (w *Workspace) Prev() {
	if len(w.tabs) == 0 {
		return
	}
	w.selected = (w.selected - 1 + len(w.tabs)) % len(w.tabs)
}

// Find returns the tab with id, or nil.
func (w *Workspace) Find(id TabID) *Tab {
	if i := w.indexOf(id); i >= 0 {
		return w.tabs[i]
	}
	return nil
}

// FindPath returns every tab opened from path.
func (w *Workspace) FindPath(path string) []*Tab {
	var out []*Tab
	for _, t := range w.tabs {
		if t.Path == path {
			out = append(out, t)
		}
	}
	return out
}

// Close removes the tab with id. The selection keeps pointing at the same tab
// when another one is closed; when the selected tab itself is closed the tab
// that slides into its place (or the new last tab) becomes active.
func (w *Workspace) Close(id TabID) bool {
	i := w.indexOf(id)
	if i < 0 {
		return false
	}
	w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
	switch {
	case len(w.tabs) == 0:
		w.selected = 0
	case i < w.selected:
		w.selected--
	case w.selected >= len(w.tabs):
		w.selected = len(w.tabs) - 1
	}
	return true
}

// SetText replaces the text of one tab.
func (w *Workspace) SetText(id TabID, text string) bool {
	t := w.Find(id)
	if t == nil {
		return false
	}
	t.Text = text
	return true
}

// Reload replaces the text of the tab with freshly loaded content. Tabs with
// edits are only marked stale.
func (w *Workspace) Reload(id TabID, d doc.Document) bool {
	t := w.Find(id)
	if t == nil {
		return false
	}
	if t.Modified() {
		t.Stale = true
		return false
	}
	t.Text = d.Text
	t.loaded = d.Text
	t.Stale = false
	t.Converted = false
	return true
}

func (w *Workspace) indexOf(id TabID) int {
	for i, t := range w.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
