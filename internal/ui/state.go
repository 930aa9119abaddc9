package ui

import (
	"github.com/kyaoi/medit/internal/config"
	"github.com/kyaoi/medit/internal/picker"
	"github.com/kyaoi/medit/internal/preview"
	"github.com/kyaoi/medit/internal/watch"
	"github.com/kyaoi/medit/internal/workspace"
)

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	Workspace *workspace.Workspace
	Config    *config.Config
	Renderer  *preview.Renderer
	Picker    *picker.Session
	// Watcher is optional; tabs are not reloaded without it.
	Watcher *watch.Watcher
	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard
	// Err is shown on the first frame, e.g. files that failed to open.
	Err error
}
