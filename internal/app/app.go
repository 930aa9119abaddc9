package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyaoi/medit/internal/config"
	"github.com/kyaoi/medit/internal/log"
	"github.com/kyaoi/medit/internal/ui"
	"github.com/kyaoi/medit/internal/watch"
)

// Run executes the Bubble Tea program for the editor, opening paths as the
// initial tabs.
func Run(paths []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := log.Initialize(level, cfg.LogFile); err != nil {
		return err
	}
	defer log.Close()

	state, err := LoadInitialState(paths, cfg)
	if err != nil {
		return err
	}
	if cfg.Watch {
		w, err := watch.New()
		if err != nil {
			log.WarningLog.Printf("file watching disabled: %v", err)
		} else {
			defer w.Close()
			state.Watcher = w
		}
	}
	return runProgram(state)
}

func runProgram(state ui.State) error {
	program := tea.NewProgram(ui.NewModel(state), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	if err != nil {
		log.ErrorLog.Printf("program exited: %v", err)
	}
	return err
}
