package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCommitsLatestOnly(t *testing.T) {
	d := NewDebouncer(300 * time.Millisecond)

	first, cmd := d.Push("a")
	require.NotNil(t, cmd)
	second, _ := d.Push("ab")
	third, _ := d.Push("abc")
	assert.Less(t, first, second)
	assert.Less(t, second, third)

	assert.False(t, d.Commit(DebounceMsg{Seq: first, Value: "a"}))
	assert.False(t, d.Commit(DebounceMsg{Seq: second, Value: "ab"}))
	assert.Empty(t, d.Value())

	assert.True(t, d.Commit(DebounceMsg{Seq: third, Value: "abc"}))
	assert.Equal(t, "abc", d.Value())
}

func TestDebouncerZeroWindow(t *testing.T) {
	d := NewDebouncer(0)
	_, cmd := d.Push("now")
	assert.Nil(t, cmd)
	assert.Equal(t, "now", d.Value())
}

func TestDebouncerFlushDropsPending(t *testing.T) {
	d := NewDebouncer(time.Second)
	seq, _ := d.Push("typed")
	d.Flush("typed!")

	assert.False(t, d.Commit(DebounceMsg{Seq: seq, Value: "typed"}))
	assert.Equal(t, "typed!", d.Value())
}

func TestDebouncerTickCarriesValue(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	seq, cmd := d.Push("x")

	msg, ok := cmd().(DebounceMsg)
	require.True(t, ok)
	assert.Equal(t, DebounceMsg{Seq: seq, Value: "x"}, msg)
	assert.True(t, d.Commit(msg))
}
