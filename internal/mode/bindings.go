package mode

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

func k(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func alt(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t, Alt: true} }

func motion(keys ...tea.KeyMsg) Binding {
	return Binding{Kind: Keys, Keys: keys, Next: Normal}
}

func insertAfter(keys ...tea.KeyMsg) Binding {
	kind := Keys
	if len(keys) == 0 {
		kind = None
	}
	return Binding{Kind: kind, Keys: keys, Next: Insert}
}

// NormalTable returns the default Normal mode bindings.
func NormalTable() Table {
	t := Table{
		"i": insertAfter(),
		"a": insertAfter(k(tea.KeyRight)),
		"A": insertAfter(k(tea.KeyEnd)),
		"I": insertAfter(k(tea.KeyHome)),
		"o": insertAfter(k(tea.KeyEnd), k(tea.KeyEnter)),

		"h":      motion(k(tea.KeyLeft)),
		"left":   motion(k(tea.KeyLeft)),
		"j":      motion(k(tea.KeyDown)),
		"down":   motion(k(tea.KeyDown)),
		"k":      motion(k(tea.KeyUp)),
		"up":     motion(k(tea.KeyUp)),
		"l":      motion(k(tea.KeyRight)),
		"right":  motion(k(tea.KeyRight)),
		"0":      motion(k(tea.KeyHome)),
		"home":   motion(k(tea.KeyHome)),
		"$":      motion(k(tea.KeyEnd)),
		"end":    motion(k(tea.KeyEnd)),
		"w":      motion(alt(tea.KeyRight)),
		"b":      motion(alt(tea.KeyLeft)),
		"g g":    motion(k(tea.KeyCtrlHome)),
		"G":      motion(k(tea.KeyCtrlEnd)),
		"pgup":   motion(k(tea.KeyPgUp)),
		"pgdown": motion(k(tea.KeyPgDown)),
		"x":      motion(k(tea.KeyDelete)),

		"g t": {Kind: NextTab, Next: Normal},
		"g T": {Kind: PrevTab, Next: Normal},
		"y y": {Kind: YankLine, Next: Normal},
		"Y":   {Kind: YankBuffer, Next: Normal},
		"p":   {Kind: Paste, Next: Normal},
		"q":   {Kind: Quit, Next: Normal},
		"?":   {Kind: Help, Next: Normal},
		"/":   {Kind: Search, Next: Normal},
		"n":   {Kind: SearchNext, Next: Normal},
		"N":   {Kind: SearchPrev, Next: Normal},
		"esc": {Kind: None, Next: Normal},
	}
	for i := 1; i <= 9; i++ {
		t[strconv.Itoa(i)] = Binding{Kind: SelectTab, Tab: i - 1, Next: Normal}
	}
	return t
}

// InsertTable returns the default Insert mode bindings. Unbound keys are
// passed through to the editor.
func InsertTable() Table {
	return Table{
		"esc": {Kind: None, Next: Normal},
	}
}
