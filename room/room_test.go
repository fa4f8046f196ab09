package room

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	received [][]byte
	sendErr  error
	closed   bool
	mu       sync.Mutex
}

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func mustJoin(t *testing.T, r *Room, userID string, conn Connection) *User {
	t.Helper()
	user, err := r.Join(userID, conn)
	require.NoError(t, err)
	return user
}

func (m *mockConn) getReceived() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

func TestRoom_JoinAssignsPaletteByJoinCount(t *testing.T) {
	r := New("r1", 10)

	a := mustJoin(t, r, "a", &mockConn{})
	b := mustJoin(t, r, "b", &mockConn{})
	r.Leave("a")
	c := mustJoin(t, r, "c", &mockConn{})

	assert.Equal(t, Palette[0], a.Color)
	assert.Equal(t, Palette[1], b.Color)
	assert.Equal(t, Palette[2], c.Color)
}

func TestRoom_PaletteWraps(t *testing.T) {
	r := New("r1", 10)
	var last *User
	for i := 0; i <= len(Palette); i++ {
		last = mustJoin(t, r, string(rune('a'+i)), &mockConn{})
		r.Leave(last.ID)
	}
	assert.Equal(t, Palette[0], last.Color)
}

func TestRoom_DisplayName(t *testing.T) {
	r := New("r1", 10)
	assert.Equal(t, "User 1", mustJoin(t, r, "a", &mockConn{}).DisplayName)
	assert.Equal(t, "User 2", mustJoin(t, r, "b", &mockConn{}).DisplayName)
}

func TestRoom_JoinRefusesDuplicateID(t *testing.T) {
	r := New("r1", 10)
	first := &mockConn{}
	original := mustJoin(t, r, "a", first)

	_, err := r.Join("a", &mockConn{})
	assert.ErrorIs(t, err, ErrUserExists)

	user, exists := r.User("a")
	require.True(t, exists)
	assert.Same(t, original, user)
	assert.Same(t, first, user.Conn)
	assert.Len(t, r.Roster(), 1)
	assert.Equal(t, Palette[1], mustJoin(t, r, "b", &mockConn{}).Color, "refused join does not consume a colour")
}

func TestRoom_RosterInJoinOrder(t *testing.T) {
	r := New("r1", 10)
	r.Join("c", &mockConn{})
	r.Join("a", &mockConn{})
	r.Join("b", &mockConn{})
	r.Leave("a")

	roster := r.Roster()
	require.Len(t, roster, 2)
	assert.Equal(t, "c", roster[0].ID)
	assert.Equal(t, "b", roster[1].ID)
	assert.Equal(t, Palette[2], roster[1].Color)
}

func TestRoom_Leave(t *testing.T) {
	r := New("r1", 10)
	r.Join("a", &mockConn{})

	assert.True(t, r.Leave("a"))
	assert.False(t, r.Leave("a"))
	assert.True(t, r.IsEmpty())
	_, exists := r.User("a")
	assert.False(t, exists)
}

func TestRoom_Broadcast(t *testing.T) {
	tests := []struct {
		name         string
		exclude      string
		wantReceived map[string]int
	}{
		{name: "exclude sender", exclude: "a", wantReceived: map[string]int{"a": 0, "b": 1, "c": 1}},
		{name: "include everyone", exclude: "", wantReceived: map[string]int{"a": 1, "b": 1, "c": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("r1", 10)
			conns := map[string]*mockConn{"a": {}, "b": {}, "c": {}}
			for _, id := range []string{"a", "b", "c"} {
				r.Join(id, conns[id])
			}

			err := r.Broadcast(map[string]string{"type": "clear"}, tt.exclude)
			require.NoError(t, err)

			for id, want := range tt.wantReceived {
				assert.Len(t, conns[id].getReceived(), want, "receiver %s", id)
			}
		})
	}
}

func TestRoom_BroadcastIsolatesFailedRecipient(t *testing.T) {
	r := New("r1", 10)
	first := &mockConn{}
	broken := &mockConn{sendErr: errors.New("closed")}
	last := &mockConn{}
	r.Join("first", first)
	r.Join("broken", broken)
	r.Join("last", last)

	err := r.Broadcast(map[string]string{"type": "clear"}, "")
	require.NoError(t, err)

	assert.Len(t, first.getReceived(), 1)
	assert.Len(t, last.getReceived(), 1)
}

func TestRoom_BroadcastEncodeError(t *testing.T) {
	r := New("r1", 10)
	conn := &mockConn{}
	r.Join("a", conn)

	err := r.Broadcast(make(chan int), "")
	assert.Error(t, err)
	assert.Empty(t, conn.getReceived())
}

func TestRoom_Send(t *testing.T) {
	r := New("r1", 10)
	conn := &mockConn{}
	r.Join("a", conn)

	require.NoError(t, r.Send("a", map[string]string{"type": "fullState"}))
	require.Len(t, conn.getReceived(), 1)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(conn.getReceived()[0], &decoded))
	assert.Equal(t, "fullState", decoded["type"])

	assert.Error(t, r.Send("missing", map[string]string{}))
}

func TestRoom_Stats(t *testing.T) {
	r := New("r1", 10)
	r.Join("a", &mockConn{})

	data, err := json.Marshal(r.Stats())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"r1","users":1,"strokes":0,"undoStack":0,"totalPoints":0}`, string(data))
}
