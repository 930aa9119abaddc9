package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/medit/internal/config"
	"github.com/kyaoi/medit/internal/doc"
	"github.com/kyaoi/medit/internal/mode"
	"github.com/kyaoi/medit/internal/preview"
	"github.com/kyaoi/medit/internal/watch"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestModel(t *testing.T) (*Model, *fakeClipboard) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Style = styles.NoTTYStyle
	clip := &fakeClipboard{}
	m := NewModel(State{Config: cfg, Clipboard: clip})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, clip
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestInitSetsTitle(t *testing.T) {
	m, _ := newTestModel(t)
	assert.NotNil(t, m.Init())
	assert.Equal(t, "Markdown Editor", WindowTitle)
}

func TestOpenFilesInOrder(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	for _, name := range []string{"c.md", "a.md", "b.md"} {
		m.openPath(writeFile(t, dir, name, "# "+name+"\n"))
	}

	ws := m.Workspace()
	require.Equal(t, 3, ws.Len())
	assert.Equal(t, "c.md", ws.Tabs()[0].Name)
	assert.Equal(t, "a.md", ws.Tabs()[1].Name)
	assert.Equal(t, "b.md", ws.Tabs()[2].Name)
	assert.Equal(t, "# c.md\n", ws.Tabs()[0].Text)
	assert.Len(t, m.editors, 3)
	assert.Equal(t, 2, ws.Selected())
	assert.NoError(t, m.err)
}

func TestOpenMissingFileReportsError(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(filepath.Join(t.TempDir(), "missing.md"))

	assert.Equal(t, 0, m.Workspace().Len())
	require.Error(t, m.err)
	assert.True(t, errors.Is(m.err, os.ErrNotExist))
	assert.Contains(t, ansi.Strip(m.View()), "missing.md")
}

func TestOpenInvalidUTF8OpensEmptyTab(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "bin.dat", "\xff\xfe\xfd"))

	require.Equal(t, 1, m.Workspace().Len())
	assert.Equal(t, "", m.Workspace().Active().Text)
	assert.True(t, doc.IsDecodeError(m.err))
}

func TestNormalModeDoesNotEdit(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "alpha\n"))

	press(m, runes("z"), runes("Q"), runes("!"))
	tab := m.Workspace().Active()
	assert.Equal(t, "alpha\n", tab.Text)
	assert.Equal(t, mode.Normal, tab.Mode)
}

func TestInsertEditsOnlyActiveTab(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	m.openPath(writeFile(t, dir, "a.md", "alpha\n"))
	m.openPath(writeFile(t, dir, "b.md", "beta\n"))
	ws := m.Workspace()

	press(m, runes("1"))
	require.Equal(t, 0, ws.Selected())

	press(m, runes("i"))
	assert.Equal(t, mode.Insert, ws.Active().Mode)
	assert.Contains(t, ansi.Strip(m.View()), "INSERT")

	press(m, runes("X"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, mode.Normal, ws.Active().Mode)
	assert.Equal(t, "Xalpha\n", ws.Tabs()[0].Text)
	assert.True(t, ws.Tabs()[0].Modified())

	press(m, runes("2"))
	assert.Equal(t, 1, ws.Selected())
	assert.Equal(t, "beta\n", ws.Active().Text)

	press(m, runes("g"), runes("T"))
	assert.Equal(t, 0, ws.Selected())
	assert.Equal(t, "Xalpha\n", ws.Active().Text)
	assert.Contains(t, ansi.Strip(m.View()), "Xalpha")
}

func TestTabKeysWrap(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	m.openPath(writeFile(t, dir, "a.md", "a"))
	m.openPath(writeFile(t, dir, "b.md", "b"))
	ws := m.Workspace()

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]"), Alt: true})
	assert.Equal(t, 0, ws.Selected())
	press(m, tea.KeyMsg{Type: tea.KeyCtrlPgUp})
	assert.Equal(t, 1, ws.Selected())
}

func TestCloseActiveTab(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "alpha"))

	press(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	ws := m.Workspace()
	assert.Equal(t, 0, ws.Len())
	assert.Equal(t, 0, ws.Selected())
	assert.Nil(t, ws.Active())
	assert.Empty(t, m.editors)
	assert.Contains(t, ansi.Strip(m.View()), "No file open")

	// Closing with nothing open is a no-op.
	press(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, 0, ws.Len())
}

func TestMouseSelectsAndClosesTabs(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		m.openPath(writeFile(t, dir, name, name))
	}
	ws := m.Workspace()
	require.Equal(t, 2, ws.Selected())

	segs := layoutTabs(ws.Tabs(), ws.Selected(), m.width)
	require.Len(t, segs, 3)

	press(m, click(segs[0].x0+1, tabStripRow))
	assert.Equal(t, 0, ws.Selected())

	press(m, click(segs[1].closeX, tabStripRow))
	require.Equal(t, 2, ws.Len())
	assert.Equal(t, "a.md", ws.Active().Name)
	assert.Equal(t, "c.md", ws.Tabs()[1].Name)

	// Clicks beyond the last tab do nothing.
	press(m, click(m.width-1, tabStripRow))
	assert.Equal(t, 2, ws.Len())
}

func TestPreviewToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "# Heading\n\nbody text\n"))
	tab := m.Workspace().Active()

	buttons := toolbarButtons(tab.Preview)
	press(m, click(buttons[1].x0, toolbarRow))
	assert.Equal(t, preview.Rendered, tab.Preview)
	assert.Contains(t, ansi.Strip(m.View()), "body text")

	press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, preview.HTML, tab.Preview)
	assert.Contains(t, ansi.Strip(m.View()), "</h1>")

	press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, preview.Off, tab.Preview)
	assert.NotContains(t, ansi.Strip(m.View()), "</h1>")
}

func TestPreviewFollowsEdits(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "plain\n"))
	m.Workspace().Active().Preview = preview.HTML

	press(m, runes("i"), runes("Z"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, ansi.Strip(m.View()), "<p>Zplain</p>")
}

func TestPickerOpensFileIntoTab(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "picked.md", "picked content")
	m.cfg.StartDir = dir

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.picker.Active())
	assert.Contains(t, ansi.Strip(m.View()), "Open file:")
	require.NotNil(t, cmd)

	press(m, cmd(), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.picker.Active())
	require.Equal(t, 1, m.Workspace().Len())
	tab := m.Workspace().Active()
	assert.Equal(t, "picked.md", tab.Name)
	assert.Equal(t, path, tab.Path)
	assert.Equal(t, "picked content", tab.Text)
}

func TestPickerCancel(t *testing.T) {
	m, _ := newTestModel(t)
	m.cfg.StartDir = t.TempDir()

	press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.picker.Active())
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picker.Active())
	assert.Equal(t, 0, m.Workspace().Len())
}

func TestToolbarOpenButton(t *testing.T) {
	m, _ := newTestModel(t)
	m.cfg.StartDir = t.TempDir()

	press(m, click(1, toolbarRow))
	assert.True(t, m.picker.Active())
}

func TestYankAndPaste(t *testing.T) {
	m, clip := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "first\nsecond\n"))

	press(m, runes("Y"))
	assert.Equal(t, "first\nsecond\n", clip.text)

	press(m, runes("j"), runes("y"), runes("y"))
	assert.Equal(t, "second\n", clip.text)

	clip.text = "PASTE"
	press(m, runes("p"))
	assert.Contains(t, m.Workspace().Active().Text, "PASTE")

	clip.err = errors.New("no clipboard")
	press(m, runes("Y"))
	assert.ErrorContains(t, m.err, "no clipboard")
}

func TestFileChangeReloadsUnmodifiedTab(t *testing.T) {
	m, _ := newTestModel(t)
	path := writeFile(t, t.TempDir(), "a.md", "v1")
	m.openPath(path)
	tab := m.Workspace().Active()

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	press(m, watch.ChangedMsg{Path: path, Op: fsnotify.Write})
	assert.Equal(t, "v2", tab.Text)
	assert.False(t, tab.Stale)

	press(m, runes("i"), runes("!"), tea.KeyMsg{Type: tea.KeyEsc})
	require.NoError(t, os.WriteFile(path, []byte("v3"), 0o644))
	press(m, watch.ChangedMsg{Path: path, Op: fsnotify.Write})
	assert.Equal(t, "!v2", tab.Text)
	assert.True(t, tab.Stale)
	assert.Contains(t, ansi.Strip(m.View()), "changed on disk")

	press(m, watch.ChangedMsg{Path: path, Op: fsnotify.Remove})
	assert.True(t, tab.Stale)
}

func TestWatcherErrorIsShown(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, watch.ErrMsg{Err: errors.New("too many watches")})
	assert.Contains(t, ansi.Strip(m.View()), "too many watches")
}

func TestSearchMovesCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "one\ntwo\nthree\ntwo again\n"))

	press(m, runes("/"))
	require.True(t, m.searchActive)
	press(m, runes("two"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.searchActive)
	assert.Equal(t, []int{1, 3}, m.searchMatches)
	_, ed := m.activeEditor()
	assert.Equal(t, 1, ed.Line())
	assert.Contains(t, ansi.Strip(m.View()), "/two (1/2)")

	press(m, runes("n"))
	assert.Equal(t, 3, ed.Line())
	press(m, runes("N"))
	assert.Equal(t, 1, ed.Line())

	press(m, runes("/"), runes("absent"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Error(t, m.err)
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.View()), "open file")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	cmd = press(m, runes("q"))
	require.NotNil(t, cmd)
	_, ok = cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestViewShowsTabsAndStatus(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	m.openPath(writeFile(t, dir, "notes.md", "---\ntitle: Weekly\n---\nbody\n"))
	m.openPath(writeFile(t, dir, "todo.md", "- [ ] x\n"))
	press(m, runes("1"))

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "notes.md")
	assert.Contains(t, view, "todo.md")
	assert.Contains(t, view, "NORMAL")
	assert.Contains(t, view, "Weekly")
	assert.Contains(t, view, "Open file")
	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 30)
}

func TestEditKeepsUntouchedBytes(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "mixed.md", "a\tb\r\nc\n"))
	tab := m.Workspace().Active()

	press(m, runes("i"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "xa    b\r\nc\n", tab.Text)
	assert.False(t, tab.Converted)

	m.openPath(writeFile(t, t.TempDir(), "crlf.md", "one\ttab\r\ntwo\r\n"))
	tab = m.Workspace().Active()
	press(m, runes("j"), runes("i"), runes("X"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "one\ttab\r\nXtwo\r\n", tab.Text)
}

func TestLoneCarriageReturnIsNormalised(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "cr.md", "a\rb\n"))
	tab := m.Workspace().Active()

	press(m, runes("i"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, tab.Converted)
	assert.NotContains(t, tab.Text, "\r")
	assert.Contains(t, ansi.Strip(m.View()), "[normalised]")
}

func TestOversizedDocumentIsReadOnly(t *testing.T) {
	m, clip := newTestModel(t)
	var b strings.Builder
	for i := 0; i < 12000; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	content := b.String()
	m.openPath(writeFile(t, t.TempDir(), "big.md", content))
	tab := m.Workspace().Active()

	require.True(t, tab.ReadOnly)
	require.Error(t, m.err)
	assert.Contains(t, m.err.Error(), "read-only")

	press(m, runes("i"), runes("x"))
	assert.Equal(t, mode.Normal, tab.Mode)
	press(m, runes("x"))
	clip.text = "PASTE"
	press(m, runes("p"))

	assert.Equal(t, content, tab.Text)
	assert.False(t, tab.Modified())
	assert.Equal(t, 12001, strings.Count(tab.Text, "\n")+1)
	assert.Contains(t, ansi.Strip(m.View()), "[read-only]")
}

func TestLineNumberGutterFitsLongFiles(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", strings.Repeat("x\n", 20)))
	_, ed := m.activeEditor()
	assert.Equal(t, maxEditorLines, ed.MaxHeight)
}

func TestMultiLineErrorKeepsViewHeight(t *testing.T) {
	m, _ := newTestModel(t)
	m.err = errors.Join(errors.New("first failure"), errors.New("second failure"))
	assert.Equal(t, 30, lipgloss.Height(m.View()))
	assert.Contains(t, ansi.Strip(m.View()), "first failure; second failure")

	m.openPath(writeFile(t, t.TempDir(), "a.md", "alpha\n"))
	m.err = errors.Join(errors.New("one"), errors.New("two"), errors.New("three"))
	assert.Equal(t, 30, lipgloss.Height(m.View()))
}

func TestSearchFollowsEdits(t *testing.T) {
	m, _ := newTestModel(t)
	m.openPath(writeFile(t, t.TempDir(), "a.md", "foo\nbar\nfoo\n"))

	press(m, runes("/"), runes("foo"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []int{0, 2}, m.searchMatches)

	press(m, runes("i"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []int{1, 3}, m.searchMatches)

	press(m, runes("n"))
	_, ed := m.activeEditor()
	assert.Equal(t, 3, ed.Line())
}

func TestReloadWithInvalidUTF8ReportsError(t *testing.T) {
	m, _ := newTestModel(t)
	path := writeFile(t, t.TempDir(), "a.md", "v1")
	m.openPath(path)
	tab := m.Workspace().Active()

	require.NoError(t, os.WriteFile(path, []byte("\xff\xfe"), 0o644))
	press(m, watch.ChangedMsg{Path: path, Op: fsnotify.Write})
	assert.Equal(t, "", tab.Text)
	assert.True(t, doc.IsDecodeError(m.err))
}

func TestRightClickClosesTab(t *testing.T) {
	m, _ := newTestModel(t)
	dir := t.TempDir()
	m.openPath(writeFile(t, dir, "a.md", "a"))
	m.openPath(writeFile(t, dir, "b.md", "b"))
	ws := m.Workspace()

	segs := layoutTabs(ws.Tabs(), ws.Selected(), m.width)
	press(m, tea.MouseMsg{X: segs[0].x0 + 1, Y: tabStripRow, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	require.Equal(t, 1, ws.Len())
	assert.Equal(t, "b.md", ws.Active().Name)
}
