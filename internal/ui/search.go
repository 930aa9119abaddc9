package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		m.exitSearchMode()
		if query == "" {
			m.clearSearch()
			return nil
		}
		m.performSearch(query)
		return nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.exitSearchMode()
		return nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return cmd
}

func (m *Model) enterSearchMode() tea.Cmd {
	m.searchActive = true
	m.searchInput.SetValue(m.searchQuery)
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

func (m *Model) exitSearchMode() {
	m.searchActive = false
	m.searchInput.Blur()
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchMatches = nil
	m.searchIndex = -1
}

func (m *Model) searchStatusLine() string {
	if m.searchQuery == "" {
		return ""
	}
	total := len(m.searchMatches)
	if total == 0 || m.searchIndex < 0 {
		return fmt.Sprintf("/%s (0/0)", m.searchQuery)
	}
	return fmt.Sprintf("/%s (%d/%d)", m.searchQuery, m.searchIndex+1, total)
}

func (m *Model) performSearch(query string) {
	tab, _ := m.activeEditor()
	if tab == nil {
		return
	}
	m.searchQuery = query
	m.searchMatches = findSearchMatches(tab.Text, query)
	if len(m.searchMatches) == 0 {
		m.searchIndex = -1
		m.err = fmt.Errorf("no match for %q", query)
		return
	}
	m.searchIndex = 0
	m.err = nil
	m.gotoSearchMatch()
}

func (m *Model) nextSearchMatch() {
	if len(m.searchMatches) == 0 {
		return
	}
	m.searchIndex = (m.searchIndex + 1) % len(m.searchMatches)
	m.gotoSearchMatch()
}

func (m *Model) previousSearchMatch() {
	if len(m.searchMatches) == 0 {
		return
	}
	if m.searchIndex <= 0 {
		m.searchIndex = len(m.searchMatches) - 1
	} else {
		m.searchIndex--
	}
	m.gotoSearchMatch()
}

// onContentChanged recomputes the matches of the active search after the
// text changed, keeping the match closest to the current one selected. The
// cursor is left where the edit put it.
func (m *Model) onContentChanged() {
	if m.searchQuery == "" {
		return
	}
	tab := m.ws.Active()
	if tab == nil {
		return
	}

	prevLine := -1
	if m.searchIndex >= 0 && m.searchIndex < len(m.searchMatches) {
		prevLine = m.searchMatches[m.searchIndex]
	}

	m.searchMatches = findSearchMatches(tab.Text, m.searchQuery)
	switch {
	case len(m.searchMatches) == 0:
		m.searchIndex = -1
	case prevLine >= 0:
		m.searchIndex = closestMatchIndex(m.searchMatches, prevLine)
	default:
		m.searchIndex = 0
	}
}

// gotoSearchMatch moves the editor cursor to the matching line and scrolls
// the preview to the same relative position.
func (m *Model) gotoSearchMatch() {
	tab, ed := m.activeEditor()
	if tab == nil || m.searchIndex < 0 || m.searchIndex >= len(m.searchMatches) {
		return
	}
	line := m.searchMatches[m.searchIndex]
	moveToLine(ed, line)

	if m.previewVisible() {
		total := strings.Count(tab.Text, "\n") + 1
		lines := m.previewVP.TotalLineCount()
		offset := 0
		if total > 0 {
			offset = line * lines / total
		}
		m.previewVP.SetYOffset(clamp(offset, 0, max(lines-m.previewVP.Height, 0)))
	}
}

func moveToLine(ed *textarea.Model, line int) {
	// Each step moves one visual row; soft-wrapped lines take several.
	limit := ed.Length() + ed.LineCount() + 1
	for i := 0; ed.Line() < line && i < limit; i++ {
		ed.CursorDown()
	}
	for i := 0; ed.Line() > line && i < limit; i++ {
		ed.CursorUp()
	}
	ed.CursorStart()
}

// findSearchMatches returns the line of every case-insensitive occurrence of
// query in content.
func findSearchMatches(content, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" || content == "" {
		return nil
	}

	stripped := ansi.Strip(content)
	lowerContent := strings.ToLower(stripped)
	lowerQuery := strings.ToLower(query)

	var matches []int
	offset := 0
	for {
		pos := strings.Index(lowerContent[offset:], lowerQuery)
		if pos == -1 {
			break
		}
		absolute := offset + pos
		line := strings.Count(lowerContent[:absolute], "\n")
		if len(matches) == 0 || matches[len(matches)-1] != line {
			matches = append(matches, line)
		}
		offset = absolute + len(lowerQuery)
	}
	return matches
}

func closestMatchIndex(matches []int, line int) int {
	best := 0
	bestDist := -1
	for i, l := range matches {
		dist := l - line
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
