// Package watch reports on-disk changes of open files to the Bubble Tea loop.
package watch

import (
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ChangedMsg is delivered when a watched file is written, created, renamed or
// removed.
type ChangedMsg struct {
	Path string
	Op   fsnotify.Op
}

// ErrMsg carries an error from the underlying watcher.
type ErrMsg struct {
	Err error
}

// Watcher watches the directories of a set of files. Events for files that
// are not watched are dropped.
type Watcher struct {
	watcher *fsnotify.Watcher
	ch      chan tea.Msg
	done    chan struct{}

	mu    sync.Mutex
	dirs  map[string]int
	files map[string]int
}

// New starts a watcher.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		ch:      make(chan tea.Msg, 10),
		done:    make(chan struct{}),
		dirs:    make(map[string]int),
		files:   make(map[string]int),
	}
	go w.loop()
	return w, nil
}

// Add starts watching path. Adding the same path twice requires two Removes.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[path]++
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[path] == 0 {
		return nil
	}
	if w.files[path]--; w.files[path] == 0 {
		delete(w.files, path)
	}
	if w.dirs[dir]--; w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.watcher.Remove(dir)
	}
	return nil
}

// Watching reports whether path is being watched.
func (w *Watcher) Watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(path)] > 0
}

// Wait returns a command that blocks until the next event.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.ch:
			return msg
		case <-w.done:
			return nil
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.Watching(event.Name) {
				continue
			}
			w.send(ChangedMsg{Path: filepath.Clean(event.Name), Op: event.Op})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(ErrMsg{Err: err})
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) send(msg tea.Msg) {
	select {
	case w.ch <- msg:
	case <-w.done:
	}
}
