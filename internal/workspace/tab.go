package workspace

import (
	"github.com/kyaoi/medit/internal/doc"
	"github.com/kyaoi/medit/internal/mode"
	"github.com/kyaoi/medit/internal/preview"
)

// TabID identifies a tab for its whole lifetime. IDs are never reused within
// a Workspace.
type TabID uint64

// Tab is one open document.
type Tab struct {
	ID      TabID
	Name    string
	Path    string
	Text    string
	Mode    mode.Mode
	Preview preview.Kind
	// Stale is set when the file changed on disk while the tab held edits.
	Stale bool
	// ReadOnly tabs hold more text than the editor can show; edits are refused.
	ReadOnly bool
	// Converted is set once an edit could not keep the original line layout
	// and the text was rewritten from the editor's normalised form.
	Converted bool

	loaded string
}

// Modified reports whether the text differs from what was loaded.
func (t *Tab) Modified() bool {
	return t.Text != t.loaded
}

// Meta returns the front matter of the current text.
func (t *Tab) Meta() doc.Meta {
	meta, _ := doc.SplitFrontMatter(t.Text)
	return meta
}
