package app

import (
	"errors"

	"github.com/kyaoi/medit/internal/config"
	"github.com/kyaoi/medit/internal/doc"
	"github.com/kyaoi/medit/internal/log"
	"github.com/kyaoi/medit/internal/picker"
	"github.com/kyaoi/medit/internal/preview"
	"github.com/kyaoi/medit/internal/ui"
	"github.com/kyaoi/medit/internal/workspace"
)

// LoadInitialState opens every path as a tab and prepares the UI state.
// Files that cannot be read are reported through State.Err instead of
// failing start-up; undecodable files open as empty tabs.
func LoadInitialState(paths []string, cfg *config.Config) (ui.State, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	kind, err := preview.ParseKind(cfg.Preview)
	if err != nil {
		return ui.State{}, err
	}

	ws := workspace.New(workspace.Options{
		SelectOnOpen: cfg.SelectOnOpen,
		Preview:      kind,
	})

	var errs []error
	for _, path := range paths {
		d, err := doc.Load(path)
		if err != nil {
			log.WarningLog.Printf("open %s: %v", path, err)
			errs = append(errs, err)
			if !doc.IsDecodeError(err) {
				continue
			}
		}
		ws.Open(d)
	}
	if ws.Len() > 0 {
		ws.Select(0)
	}

	return ui.State{
		Workspace: ws,
		Config:    cfg,
		Renderer:  preview.NewRenderer(cfg.Style),
		Picker:    picker.New(cfg.Extensions),
		Err:       errors.Join(errs...),
	}, nil
}
