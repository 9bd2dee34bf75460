package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		m := NewMemory()
		assert.Equal(t, 0, m.Len())
		assert.Empty(t, m.History())
	})

	t.Run("append preserves insertion order", func(t *testing.T) {
		m := NewMemory()
		m.Append("q1", "a1")
		m.Append("q2", "a2")
		m.Append("q3", "a3")

		turns := m.History()
		require.Len(t, turns, 3)
		assert.Equal(t, "q1", turns[0].Question)
		assert.Equal(t, "a1", turns[0].Answer)
		assert.Equal(t, "q3", turns[2].Question)
	})

	t.Run("history returns a snapshot", func(t *testing.T) {
		m := NewMemory()
		m.Append("q1", "a1")

		snapshot := m.History()
		m.Clear()
		m.Append("q2", "a2")

		require.Len(t, snapshot, 1)
		assert.Equal(t, "q1", snapshot[0].Question)
	})

	t.Run("clear empties the buffer", func(t *testing.T) {
		m := NewMemory()
		m.Append("q1", "a1")
		m.Append("q2", "a2")

		m.Clear()

		assert.Equal(t, 0, m.Len())
		assert.Empty(t, m.History())
	})

	t.Run("clear on empty buffer is a no-op", func(t *testing.T) {
		m := NewMemory()
		m.Clear()
		m.Clear()
		assert.Equal(t, 0, m.Len())
	})

	t.Run("append after clear starts fresh", func(t *testing.T) {
		m := NewMemory()
		m.Append("old", "answer")
		m.Clear()
		m.Append("new", "answer")

		turns := m.History()
		require.Len(t, turns, 1)
		assert.Equal(t, "new", turns[0].Question)
	})
}
