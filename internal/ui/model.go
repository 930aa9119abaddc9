package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/kyaoi/medit/internal/config"
	"github.com/kyaoi/medit/internal/doc"
	"github.com/kyaoi/medit/internal/log"
	"github.com/kyaoi/medit/internal/mode"
	"github.com/kyaoi/medit/internal/picker"
	"github.com/kyaoi/medit/internal/preview"
	"github.com/kyaoi/medit/internal/watch"
	"github.com/kyaoi/medit/internal/workspace"
)

// WindowTitle is the terminal title set on start.
const WindowTitle = "Markdown Editor"

const minEditorWidth = 20

// maxEditorLines matches the line limit of bubbles/textarea. Larger
// documents open read-only.
const maxEditorLines = 10000

// Model implements the Bubble Tea program for the editor.
type Model struct {
	ws       *workspace.Workspace
	cfg      *config.Config
	renderer *preview.Renderer
	picker   *picker.Session
	watcher  *watch.Watcher
	clip     Clipboard
	machine  *mode.Machine
	keys     keyMap
	help     help.Model

	editors   map[workspace.TabID]*textarea.Model
	previewVP viewport.Model
	rendered  previewKey

	searchInput   textinput.Model
	searchActive  bool
	searchQuery   string
	searchMatches []int
	searchIndex   int

	showHelp bool
	width    int
	height   int
	status   string
	err      error
}

// previewKey identifies the content currently held by the preview viewport.
type previewKey struct {
	id    workspace.TabID
	kind  preview.Kind
	text  string
	width int
}

// NewModel constructs the editor model with the provided initial state.
func NewModel(state State) *Model {
	cfg := state.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ws := state.Workspace
	if ws == nil {
		ws = workspace.New(workspace.Options{SelectOnOpen: cfg.SelectOnOpen})
	}
	renderer := state.Renderer
	if renderer == nil {
		renderer = preview.NewRenderer(cfg.Style)
	}
	pk := state.Picker
	if pk == nil {
		pk = picker.New(cfg.Extensions)
	}
	clip := state.Clipboard
	if clip == nil {
		clip = systemClipboard{}
	}

	previewVP := viewport.New(0, 0)
	previewVP.Style = previewPanelStyle

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.CharLimit = 256
	searchInput.Placeholder = "search"
	searchInput.Blur()

	m := &Model{
		ws:          ws,
		cfg:         cfg,
		renderer:    renderer,
		picker:      pk,
		watcher:     state.Watcher,
		clip:        clip,
		machine:     mode.NewMachine(),
		keys:        defaultKeyMap(),
		help:        help.New(),
		editors:     make(map[workspace.TabID]*textarea.Model),
		previewVP:   previewVP,
		searchInput: searchInput,
		searchIndex: -1,
		err:         state.Err,
	}
	for _, tab := range ws.Tabs() {
		if err := m.attach(tab); err != nil {
			m.err = err
		}
		m.watchTab(tab)
	}
	return m
}

// Workspace returns the state the model edits.
func (m *Model) Workspace() *workspace.Workspace { return m.ws }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(WindowTitle), textarea.Blink}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Wait())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.sync()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil
	case watch.ChangedMsg:
		m.handleFileEvent(msg)
		return m.waitForFileEvent()
	case watch.ErrMsg:
		m.err = msg.Err
		log.WarningLog.Printf("file watcher: %v", msg.Err)
		return m.waitForFileEvent()
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.picker.Active() {
		cmd := m.picker.Update(msg)
		return tea.Batch(cmd, m.takePicked())
	}
	return m.forwardToEditor(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		switch msg.String() {
		case "q", "?", "esc":
			m.showHelp = false
		case "ctrl+c":
			return tea.Quit
		}
		return nil
	}

	if m.picker.Active() {
		if key.Matches(msg, m.keys.Quit) {
			return tea.Quit
		}
		cmd := m.picker.Update(msg)
		return tea.Batch(cmd, m.takePicked())
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Open):
		return m.openPicker()
	case key.Matches(msg, m.keys.Close):
		if tab := m.ws.Active(); tab != nil {
			m.closeTab(tab.ID)
		}
		return nil
	case key.Matches(msg, m.keys.Preview):
		m.cyclePreview()
		return nil
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(m.ws.Next)
		return nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(m.ws.Prev)
		return nil
	}

	tab := m.ws.Active()
	current := mode.Normal
	if tab != nil {
		current = tab.Mode
	}
	act := m.machine.Handle(current, msg.String())
	if tab != nil && tab.ReadOnly && act.Next == mode.Insert {
		m.status = tab.Name + " is read-only"
		return nil
	}
	if tab != nil && tab.Mode != act.Next {
		log.DebugLog.Printf("tab %d: %s -> %s", tab.ID, tab.Mode, act.Next)
		tab.Mode = act.Next
	}

	switch act.Kind {
	case mode.Quit:
		return tea.Quit
	case mode.Help:
		m.showHelp = true
	case mode.PassThrough:
		return m.forwardToEditor(msg)
	case mode.Keys:
		var cmds []tea.Cmd
		for _, k := range act.Keys {
			cmds = append(cmds, m.forwardToEditor(k))
		}
		return tea.Batch(cmds...)
	case mode.NextTab:
		m.switchTab(m.ws.Next)
	case mode.PrevTab:
		m.switchTab(m.ws.Prev)
	case mode.SelectTab:
		m.switchTab(func() { m.ws.Select(act.Tab) })
	case mode.YankLine:
		m.yank(true)
	case mode.YankBuffer:
		m.yank(false)
	case mode.Paste:
		m.paste()
	case mode.Search:
		if tab != nil {
			return m.enterSearchMode()
		}
	case mode.SearchNext:
		m.nextSearchMatch()
	case mode.SearchPrev:
		m.previousSearchMatch()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	if tea.MouseEvent(msg).IsWheel() {
		if m.previewVisible() {
			var cmd tea.Cmd
			m.previewVP, cmd = m.previewVP.Update(msg)
			return cmd
		}
		return nil
	}
	if m.picker.Active() || m.showHelp {
		return nil
	}
	if msg.Button == tea.MouseButtonRight {
		if msg.Y == tabStripRow {
			if seg, _, ok := hitTab(layoutTabs(m.ws.Tabs(), m.ws.Selected(), m.width), msg.X); ok {
				m.closeTab(seg.id)
			}
		}
		return nil
	}
	if msg.Button != tea.MouseButtonLeft {
		return nil
	}

	switch msg.Y {
	case toolbarRow:
		b, ok := hitButton(toolbarButtons(m.activePreview()), msg.X)
		if !ok {
			return nil
		}
		switch b.action {
		case actionOpen:
			return m.openPicker()
		case actionPreview:
			m.cyclePreview()
		}
	case tabStripRow:
		seg, closeHit, ok := hitTab(layoutTabs(m.ws.Tabs(), m.ws.Selected(), m.width), msg.X)
		if !ok {
			return nil
		}
		if closeHit {
			m.closeTab(seg.id)
			return nil
		}
		m.switchTab(func() { m.ws.Select(seg.index) })
	}
	return nil
}

func (m *Model) openPicker() tea.Cmd {
	dir := m.cfg.StartDir
	if tab := m.ws.Active(); tab != nil && dir == "" {
		dir = filepath.Dir(tab.Path)
	}
	m.searchActive = false
	m.machine.Reset()
	return m.picker.Open(dir, m.width, m.bodyHeight())
}

func (m *Model) takePicked() tea.Cmd {
	path, ok := m.picker.Take()
	if !ok {
		return nil
	}
	return m.openPath(path)
}

// openPath loads path into a new tab. Read failures are reported and leave the
// tabs untouched; undecodable files open empty with a warning.
func (m *Model) openPath(path string) tea.Cmd {
	d, err := doc.Load(path)
	if err != nil && !doc.IsDecodeError(err) {
		log.ErrorLog.Printf("open %s: %v", path, err)
		m.err = err
		return nil
	}
	m.err = nil
	if err != nil {
		log.WarningLog.Printf("open %s: %v", path, err)
		m.err = fmt.Errorf("%w (opened empty)", err)
	}

	tab := m.ws.Open(d)
	if err := m.attach(tab); err != nil {
		m.err = err
	}
	m.watchTab(tab)
	m.status = "opened " + tab.Name
	log.InfoLog.Printf("opened %s as tab %d", tab.Path, tab.ID)
	m.onTabChanged()
	return nil
}

// attach creates the editor for tab. Documents longer than the editor can
// hold are marked read-only and reported.
func (m *Model) attach(tab *workspace.Tab) error {
	text := doc.Editable(tab.Text)
	ed := newEditor(text, m.cfg.LineNumbers)
	m.editors[tab.ID] = &ed
	tab.ReadOnly = false
	if n := doc.LineCount(text); n > maxEditorLines {
		tab.ReadOnly = true
		log.WarningLog.Printf("%s has %d lines, opened read-only", tab.Path, n)
		return fmt.Errorf("%s has %d lines; only %d can be edited (opened read-only)", tab.Name, n, maxEditorLines)
	}
	return nil
}

func (m *Model) watchTab(tab *workspace.Tab) {
	if m.watcher == nil || !m.cfg.Watch {
		return
	}
	if err := m.watcher.Add(tab.Path); err != nil {
		log.WarningLog.Printf("watch %s: %v", tab.Path, err)
	}
}

func (m *Model) closeTab(id workspace.TabID) {
	tab := m.ws.Find(id)
	if tab == nil {
		return
	}
	if m.watcher != nil && m.cfg.Watch {
		if err := m.watcher.Remove(tab.Path); err != nil {
			log.WarningLog.Printf("unwatch %s: %v", tab.Path, err)
		}
	}
	delete(m.editors, id)
	m.ws.Close(id)
	m.status = "closed " + tab.Name
	m.onTabChanged()
}

func (m *Model) switchTab(fn func()) {
	before := m.ws.Selected()
	fn()
	if m.ws.Selected() != before {
		m.onTabChanged()
	}
}

func (m *Model) onTabChanged() {
	m.machine.Reset()
	m.clearSearch()
}

func (m *Model) cyclePreview() {
	tab := m.ws.Active()
	if tab == nil {
		return
	}
	tab.Preview = tab.Preview.Next()
	m.status = "preview: " + tab.Preview.String()
}

func (m *Model) activePreview() preview.Kind {
	if tab := m.ws.Active(); tab != nil {
		return tab.Preview
	}
	return preview.Off
}

func (m *Model) previewVisible() bool {
	return m.activePreview() != preview.Off && !m.picker.Active()
}

func (m *Model) activeEditor() (*workspace.Tab, *textarea.Model) {
	tab := m.ws.Active()
	if tab == nil {
		return nil, nil
	}
	ed, ok := m.editors[tab.ID]
	if !ok {
		if err := m.attach(tab); err != nil {
			m.err = err
		}
		ed = m.editors[tab.ID]
	}
	return tab, ed
}

// forwardToEditor lets the active editor handle msg and copies any change
// of its value back into the tab.
func (m *Model) forwardToEditor(msg tea.Msg) tea.Cmd {
	tab, ed := m.activeEditor()
	if tab == nil {
		return nil
	}
	before := ed.Value()
	updated, cmd := ed.Update(msg)
	*ed = updated
	if after := ed.Value(); after != before {
		m.commit(tab, ed, before, after)
	}
	return cmd
}

// commit folds an editor change into the tab text. Only the changed lines
// are rewritten; read-only tabs get their editor value back.
func (m *Model) commit(tab *workspace.Tab, ed *textarea.Model, before, after string) {
	if tab.ReadOnly {
		row := ed.Line()
		ed.SetValue(before)
		moveToTop(ed)
		moveToLine(ed, row)
		m.status = tab.Name + " is read-only"
		return
	}
	text, ok := doc.Merge(tab.Text, before, after)
	if !ok && !tab.Converted {
		tab.Converted = true
		m.status = tab.Name + ": line breaks normalised"
		log.InfoLog.Printf("tab %d: line layout could not be kept, text normalised", tab.ID)
	}
	m.ws.SetText(tab.ID, text)
	m.onContentChanged()
}

func (m *Model) yank(line bool) {
	tab, ed := m.activeEditor()
	if tab == nil {
		return
	}
	text := tab.Text
	what := "buffer"
	if line {
		lines := strings.Split(ed.Value(), "\n")
		if row := ed.Line(); row < len(lines) {
			text = lines[row] + "\n"
		}
		what = "line"
	}
	if err := m.clip.WriteAll(text); err != nil {
		m.err = fmt.Errorf("yank: %w", err)
		return
	}
	m.status = "yanked " + what
}

func (m *Model) paste() {
	tab, ed := m.activeEditor()
	if tab == nil {
		return
	}
	text, err := m.clip.ReadAll()
	if err != nil {
		m.err = fmt.Errorf("paste: %w", err)
		return
	}
	if tab.ReadOnly {
		m.status = tab.Name + " is read-only"
		return
	}
	before := ed.Value()
	ed.InsertString(text)
	if after := ed.Value(); after != before {
		m.commit(tab, ed, before, after)
	}
}

func (m *Model) waitForFileEvent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

func (m *Model) handleFileEvent(msg watch.ChangedMsg) {
	for _, tab := range m.ws.FindPath(msg.Path) {
		if msg.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			tab.Stale = true
			m.status = tab.Name + " was moved or removed on disk"
			continue
		}
		d, err := doc.Load(tab.Path)
		if err != nil && !doc.IsDecodeError(err) {
			m.err = err
			continue
		}
		if !m.ws.Reload(tab.ID, d) {
			m.status = tab.Name + " changed on disk; keeping edits"
			continue
		}
		m.err = nil
		if err != nil {
			log.WarningLog.Printf("reload %s: %v", tab.Path, err)
			m.err = fmt.Errorf("%w (reloaded empty)", err)
		}
		if _, ok := m.editors[tab.ID]; ok {
			if aerr := m.attach(tab); aerr != nil {
				m.err = aerr
			}
		}
		if tab == m.ws.Active() {
			m.onContentChanged()
		}
		m.status = "reloaded " + tab.Name
		log.InfoLog.Printf("reloaded %s", tab.Path)
	}
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= chromeHeight {
		return
	}
	m.width = width
	m.height = height
	m.help.Width = width
	m.picker.SetSize(width, m.bodyHeight())
}

func (m *Model) bodyHeight() int {
	return max(m.height-chromeHeight, 1)
}

// paneWidths splits the body between editor and preview.
func (m *Model) paneWidths() (editor, pv int) {
	if !m.previewVisible() {
		return m.width, 0
	}
	editor = max(m.width/2, minEditorWidth)
	return editor, max(m.width-editor, 0)
}

// sync applies sizes and refreshes the preview after every update.
func (m *Model) sync() {
	tab, ed := m.activeEditor()
	if tab == nil || m.width == 0 {
		return
	}
	edWidth, pvWidth := m.paneWidths()
	height := m.bodyHeight()
	ed.SetWidth(edWidth)
	ed.SetHeight(height)
	if pvWidth == 0 {
		return
	}

	m.previewVP.Width = pvWidth
	m.previewVP.Height = height
	wrap := max(pvWidth-m.previewVP.Style.GetHorizontalFrameSize(), 0)
	want := previewKey{id: tab.ID, kind: tab.Preview, text: tab.Text, width: wrap}
	if want == m.rendered {
		return
	}
	out, err := m.renderer.Render(tab.Preview, tab.Text, wrap)
	if err != nil {
		m.err = err
		return
	}
	m.previewVP.SetContent(out)
	if want.id != m.rendered.id || want.kind != m.rendered.kind {
		m.previewVP.GotoTop()
	}
	m.rendered = want
}

func newEditor(text string, lineNumbers bool) textarea.Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = ""
	ta.ShowLineNumbers = lineNumbers
	ta.CharLimit = 0
	// Also sizes the line number gutter.
	ta.MaxHeight = maxEditorLines
	ta.MaxWidth = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(lipgloss.Color("#1f2335"))
	ta.Focus()
	ta.SetValue(text)
	moveToTop(&ta)
	return ta
}

func moveToTop(ta *textarea.Model) {
	updated, _ := ta.Update(tea.KeyMsg{Type: tea.KeyCtrlHome})
	*ta = updated
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
