// Package picker wraps the bubbles file picker in a poll-based session:
// the session is closed, awaiting a selection, or resolved to a path.
package picker

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const pickerMargin = 5

// Status is the state of a picker session.
type Status int

const (
	Closed Status = iota
	Awaiting
	Resolved
)

func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Awaiting:
		return "awaiting"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Session tracks one file selection at a time.
type Session struct {
	fp       filepicker.Model
	status   Status
	selected string
	allowed  []string
	cancel   key.Binding
}

// New returns a closed session that only offers files with the given
// extensions. An empty list allows every file.
func New(allowed []string) *Session {
	return &Session{
		allowed: allowed,
		cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
	}
}

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// Active reports whether the picker wants keyboard input.
func (s *Session) Active() bool { return s.status == Awaiting }

// CurrentDirectory returns the directory being browsed.
func (s *Session) CurrentDirectory() string { return s.fp.CurrentDirectory }

// Open starts a new selection rooted at dir, discarding any previous one.
func (s *Session) Open(dir string, width, height int) tea.Cmd {
	fp := filepicker.New()
	if dir != "" {
		fp.CurrentDirectory = dir
	}
	fp.AllowedTypes = s.allowed
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.AutoHeight = true
	fp.KeyMap.Back = key.NewBinding(key.WithKeys("h", "backspace", "left"), key.WithHelp("h", "back"))

	s.fp = fp
	s.status = Awaiting
	s.selected = ""
	s.SetSize(width, height)
	return s.fp.Init()
}

// SetSize fits the entry list into the given area.
func (s *Session) SetSize(width, height int) {
	if height <= 0 {
		return
	}
	// The file picker reserves a bottom margin of its own when auto sizing.
	s.fp, _ = s.fp.Update(tea.WindowSizeMsg{Width: width, Height: height + pickerMargin})
}

// Cancel closes the session without a selection.
func (s *Session) Cancel() {
	s.status = Closed
	s.selected = ""
}

// Update advances the session. It is a no-op unless a selection is awaited.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	if s.status != Awaiting {
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, s.cancel) {
		s.Cancel()
		return nil
	}

	var cmd tea.Cmd
	s.fp, cmd = s.fp.Update(msg)
	if ok, path := s.fp.DidSelectFile(msg); ok {
		s.status = Resolved
		s.selected = path
	}
	return cmd
}

// Take returns the resolved path and closes the session. ok is false when
// nothing has been selected yet.
func (s *Session) Take() (string, bool) {
	if s.status != Resolved {
		return "", false
	}
	path := s.selected
	s.status = Closed
	s.selected = ""
	return path, true
}

// View renders the picker while a selection is awaited.
func (s *Session) View() string {
	if s.status != Awaiting {
		return ""
	}
	return s.fp.View()
}
