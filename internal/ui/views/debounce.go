package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DebounceMsg carries a pushed value back after the debounce window.
type DebounceMsg struct {
	Seq   int
	Value string
}

// Debouncer holds back rapid input and commits only the last value pushed
// within the window.
type Debouncer struct {
	window  time.Duration
	seq     int
	current string
}

// NewDebouncer creates a Debouncer. A zero window commits immediately.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Push schedules value for commit and supersedes anything pending.
func (d *Debouncer) Push(value string) (int, tea.Cmd) {
	d.seq++
	seq := d.seq
	if d.window <= 0 {
		d.current = value
		return seq, nil
	}
	return seq, tea.Tick(d.window, func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq, Value: value}
	})
}

// Commit applies msg if it is the latest push and reports whether it did.
func (d *Debouncer) Commit(msg DebounceMsg) bool {
	if msg.Seq != d.seq {
		return false
	}
	d.current = msg.Value
	return true
}

// Flush commits value now and drops any pending tick.
func (d *Debouncer) Flush(value string) {
	d.seq++
	d.current = value
}

// Value is the last committed value.
func (d *Debouncer) Value() string {
	return d.current
}
