package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultRoomAlwaysPresent(t *testing.T) {
	reg := NewRegistry("", 10)

	_, exists := reg.Lookup(DefaultID)
	require.True(t, exists)

	room := reg.Get("")
	assert.Equal(t, DefaultID, room.ID())
	room.Join("a", &mockConn{})
	room.Leave("a")

	assert.Empty(t, reg.Reclaim())
	_, exists = reg.Lookup(DefaultID)
	assert.True(t, exists)
}

func TestRegistry_GetIsLazyAndStable(t *testing.T) {
	reg := NewRegistry("lobby", 10)
	require.Equal(t, 1, reg.Len())

	first := reg.Get("r1")
	second := reg.Get("r1")

	assert.Same(t, first, second)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_ReclaimEmptyRooms(t *testing.T) {
	reg := NewRegistry("", 10)
	busy := reg.Get("busy")
	busy.Join("a", &mockConn{})
	empty := reg.Get("empty")
	empty.Join("b", &mockConn{})
	empty.Leave("b")

	removed := reg.Reclaim()

	assert.Equal(t, []string{"empty"}, removed)
	_, exists := reg.Lookup("empty")
	assert.False(t, exists)
	_, exists = reg.Lookup("busy")
	assert.True(t, exists)

	fresh := reg.Get("empty")
	assert.NotSame(t, empty, fresh)
	assert.True(t, fresh.IsEmpty())
}

func TestRegistry_Stats(t *testing.T) {
	reg := NewRegistry("", 10)
	reg.Get("b").Join("u1", &mockConn{})
	reg.Get("a").Join("u2", &mockConn{})

	stats := reg.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, "a", stats[0].ID)
	assert.Equal(t, "b", stats[1].ID)
	assert.Equal(t, DefaultID, stats[2].ID)
	assert.Equal(t, 1, stats[0].Users)
}
