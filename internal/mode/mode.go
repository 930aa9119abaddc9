// Package mode implements the modal (Normal/Insert) key handling of the
// editor. Keys are looked up in per-mode binding tables; sequences such as
// "g t" are tracked with a pending prefix.
package mode

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the editing mode of a tab.
type Mode int

const (
	Normal Mode = iota
	Insert
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "INSERT"
	default:
		return "UNKNOWN"
	}
}

// Kind is what the caller should do with a key.
type Kind int

const (
	// None swallows the key.
	None Kind = iota
	// PassThrough forwards the original key to the text editor.
	PassThrough
	// Keys forwards Action.Keys to the text editor in order.
	Keys
	NextTab
	PrevTab
	// SelectTab activates the tab at Action.Tab.
	SelectTab
	YankLine
	YankBuffer
	Paste
	Quit
	Help
	Search
	SearchNext
	SearchPrev
)

// Binding is one entry of a mode's key table.
type Binding struct {
	Kind Kind
	Keys []tea.KeyMsg
	Tab  int
	Next Mode
}

// Action is the resolved outcome of a key press.
type Action struct {
	Kind Kind
	Keys []tea.KeyMsg
	Tab  int
	// Next is the mode the tab is in after the key.
	Next Mode
}

// Table maps key sequences to bindings. A sequence is one or more key names
// (as produced by tea.KeyMsg.String) separated by single spaces.
type Table map[string]Binding

// Machine resolves key presses against the tables of the current mode.
type Machine struct {
	tables   map[Mode]Table
	prefixes map[Mode]map[string]bool
	pending  string
}

// NewMachine returns a machine using the default Normal and Insert tables.
func NewMachine() *Machine {
	return NewMachineWithTables(map[Mode]Table{
		Normal: NormalTable(),
		Insert: InsertTable(),
	})
}

// NewMachineWithTables returns a machine using custom tables.
func NewMachineWithTables(tables map[Mode]Table) *Machine {
	m := &Machine{
		tables:   tables,
		prefixes: make(map[Mode]map[string]bool, len(tables)),
	}
	for md, table := range tables {
		set := make(map[string]bool)
		for seq := range table {
			parts := strings.Split(seq, " ")
			for i := 1; i < len(parts); i++ {
				set[strings.Join(parts[:i], " ")] = true
			}
		}
		m.prefixes[md] = set
	}
	return m
}

// Pending returns the keys of an incomplete sequence.
func (m *Machine) Pending() string { return m.pending }

// Reset drops any incomplete sequence.
func (m *Machine) Reset() { m.pending = "" }

// Handle resolves key in the given mode.
func (m *Machine) Handle(current Mode, key string) Action {
	table := m.tables[current]

	if m.pending != "" {
		seq := m.pending + " " + key
		m.pending = ""
		if b, ok := table[seq]; ok {
			return b.action()
		}
		if m.prefixes[current][seq] {
			m.pending = seq
			return Action{Kind: None, Next: current}
		}
	}

	if m.prefixes[current][key] {
		m.pending = key
		return Action{Kind: None, Next: current}
	}
	if b, ok := table[key]; ok {
		return b.action()
	}
	if current == Insert {
		return Action{Kind: PassThrough, Next: Insert}
	}
	return Action{Kind: None, Next: current}
}

func (b Binding) action() Action {
	return Action{Kind: b.Kind, Keys: b.Keys, Tab: b.Tab, Next: b.Next}
}
