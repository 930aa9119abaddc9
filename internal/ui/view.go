package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kyaoi/medit/internal/mode"
)

var (
	toolbarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5")).
			Background(lipgloss.Color("#1f2335"))
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7aa2f7")).
			Bold(true)
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#7aa2f7")).
			Bold(true)
	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a9b1d6")).
				Background(lipgloss.Color("#283457"))
	tabSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261"))
	previewPanelStyle = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(lipgloss.Color("#3b4261"))
	pickerStyle = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")).
			Padding(1, 2)
	normalModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#7aa2f7")).
			Bold(true).
			Padding(0, 1)
	insertModeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#9ece6a")).
			Bold(true).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9b1d6")).
			Padding(0, 1)
	staleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.showHelp {
		overlay := helpBoxStyle.Render("Help (? / esc to close)\n\n" + m.help.FullHelpView(m.keys.FullHelp()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.toolbarView(),
		m.tabStripView(),
		m.bodyView(),
		m.statusView(),
	)
}

func (m *Model) toolbarView() string {
	var b strings.Builder
	for i, btn := range toolbarButtons(m.activePreview()) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(buttonStyle.Render(btn.label))
	}
	return toolbarStyle.Width(m.width).Render(b.String())
}

func (m *Model) tabStripView() string {
	segments := layoutTabs(m.ws.Tabs(), m.ws.Selected(), m.width)
	if len(segments) == 0 {
		return emptyLine(m.width)
	}
	parts := make([]string, 0, len(segments)*2)
	for i, seg := range segments {
		if i > 0 {
			parts = append(parts, tabSeparatorStyle.Render(tabSeparator))
		}
		style := tabInactiveStyle
		if seg.index == m.ws.Selected() {
			style = tabActiveStyle
		}
		parts = append(parts, style.Render(" "+seg.label+" "+closeGlyph+" "))
	}
	return ansi.Truncate(strings.Join(parts, ""), m.width, "")
}

func (m *Model) bodyView() string {
	height := m.bodyHeight()
	if m.picker.Active() {
		view := pickerStyle.Render("Open file: " + m.picker.CurrentDirectory() + "\n\n" + m.picker.View())
		return lipgloss.NewStyle().Width(m.width).Height(height).MaxHeight(height).Render(view)
	}

	tab, ed := m.activeEditor()
	if tab == nil {
		msg := emptyStyle.Render("No file open.\nPress ctrl+o or click [ Open file… ] to open one.")
		return lipgloss.NewStyle().Width(m.width).Height(height).MaxHeight(height).Render(msg)
	}

	body := ed.View()
	if m.previewVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.previewVP.View())
	}
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)
}

func (m *Model) statusView() string {
	if m.searchActive {
		return statusStyle.Width(m.width).Render(m.searchInput.View())
	}

	var left []string
	tab := m.ws.Active()
	if tab != nil {
		if tab.Mode == mode.Insert {
			left = append(left, insertModeStyle.Render(tab.Mode.String()))
		} else {
			left = append(left, normalModeStyle.Render(tab.Mode.String()))
		}
		name := tab.Name
		if title := tab.Meta().Title; title != "" {
			name += " · " + title
		}
		left = append(left, statusStyle.Render(name))
		if tab.Stale {
			left = append(left, staleStyle.Render("[changed on disk]"))
		}
		if tab.ReadOnly {
			left = append(left, staleStyle.Render("[read-only]"))
		}
		if tab.Converted {
			left = append(left, staleStyle.Render("[normalised]"))
		}
	}

	switch {
	case m.err != nil:
		left = append(left, errorStyle.Render(oneLine(m.err.Error())))
	case m.searchQuery != "":
		left = append(left, statusStyle.Render(m.searchStatusLine()))
	case m.machine.Pending() != "":
		left = append(left, statusStyle.Render(m.machine.Pending()))
	case m.status != "":
		left = append(left, statusStyle.Render(m.status))
	}

	leftView := lipgloss.JoinHorizontal(lipgloss.Top, left...)
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(leftView) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(leftView, m.width, "…")
	}
	return leftView + strings.Repeat(" ", gap) + right
}

func emptyLine(width int) string {
	return strings.Repeat(" ", max(width, 0))
}

// oneLine keeps the status line a single row; joined errors are separated
// by newlines.
func oneLine(s string) string {
	return lineBreaks.Replace(strings.TrimSpace(s))
}

var lineBreaks = strings.NewReplacer("\r\n", "; ", "\n", "; ", "\r", " ")
