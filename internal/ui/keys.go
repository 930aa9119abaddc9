package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings that work in every mode, plus descriptive
// entries for the Normal mode table shown in the help overlay.
type keyMap struct {
	Open    key.Binding
	Close   key.Binding
	Preview key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding

	Insert  key.Binding
	Normal  key.Binding
	Move    key.Binding
	Jump    key.Binding
	Tabs    key.Binding
	Yank    key.Binding
	Paste   key.Binding
	Search  key.Binding
	Help    key.Binding
	QuitKey key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open file")),
		Close:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		Preview: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "preview")),
		NextTab: key.NewBinding(key.WithKeys("ctrl+pgdown", "alt+]"), key.WithHelp("alt+]", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("ctrl+pgup", "alt+["), key.WithHelp("alt+[", "prev tab")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Insert:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i a A I o", "insert mode")),
		Normal:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "normal mode")),
		Move:    key.NewBinding(key.WithKeys("h", "j", "k", "l"), key.WithHelp("h j k l w b 0 $", "move")),
		Jump:    key.NewBinding(key.WithKeys("G"), key.WithHelp("gg / G", "top / bottom")),
		Tabs:    key.NewBinding(key.WithKeys("1"), key.WithHelp("gt gT 1-9", "switch tab")),
		Yank:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("yy / Y", "yank line / buffer")),
		Paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/ n N", "search")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		QuitKey: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Close, k.Preview, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Close, k.Preview, k.NextTab, k.PrevTab, k.Quit},
		{k.Insert, k.Normal, k.Move, k.Jump, k.Tabs},
		{k.Yank, k.Paste, k.Search, k.Help, k.QuitKey},
	}
}
