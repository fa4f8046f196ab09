package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"shared-canvas/drawing"
)

var ErrUserExists = errors.New("user already in room")

var Palette = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12",
	"#9b59b6", "#1abc9c", "#e67e22", "#34495e",
}

type Stats struct {
	ID    string `json:"id"`
	Users int    `json:"users"`
	drawing.Stats
}

// Room is one collaboration session. It is not safe for concurrent use; the
// dispatcher owns every room and touches them from a single goroutine.
type Room struct {
	id            string
	users         map[string]*User
	order         []string
	drawing       *drawing.State
	paletteCursor int
}

func New(id string, maxHistory int) *Room {
	return &Room{
		id:      id,
		users:   make(map[string]*User),
		order:   make([]string, 0),
		drawing: drawing.New(maxHistory),
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Drawing() *drawing.State {
	return r.drawing
}

// Join registers a new user. Colours go round-robin over Palette by the number
// of joins so far, regardless of who has left since. An id that is already
// present is refused and the room is left unchanged.
func (r *Room) Join(userID string, conn Connection) (*User, error) {
	if _, exists := r.users[userID]; exists {
		log.Warn().Str("room-id", r.id).Str("user-id", userID).Msg("Refused duplicate user id")
		return nil, fmt.Errorf("%w: %s", ErrUserExists, userID)
	}
	user := &User{
		ID:          userID,
		Conn:        conn,
		Color:       Palette[r.paletteCursor%len(Palette)],
		DisplayName: fmt.Sprintf("User %d", len(r.users)+1),
	}
	r.paletteCursor++
	r.order = append(r.order, userID)
	r.users[userID] = user
	return user, nil
}

func (r *Room) Leave(userID string) bool {
	if _, exists := r.users[userID]; !exists {
		return false
	}
	delete(r.users, userID)
	if i := slices.Index(r.order, userID); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

func (r *Room) User(userID string) (*User, bool) {
	user, exists := r.users[userID]
	return user, exists
}

func (r *Room) Len() int {
	return len(r.users)
}

func (r *Room) IsEmpty() bool {
	return len(r.users) == 0
}

// Roster lists members in join order.
func (r *Room) Roster() []Member {
	members := make([]Member, 0, len(r.order))
	for _, id := range r.order {
		members = append(members, r.users[id].Member())
	}
	return members
}

// Broadcast encodes payload once and sends it to every member except
// excludeUserID. A failed send is logged and does not stop the fanout.
func (r *Room) Broadcast(payload any, excludeUserID string) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode broadcast: %w", err)
	}
	for _, id := range r.order {
		if id == excludeUserID {
			continue
		}
		if err := r.users[id].Conn.Send(encoded); err != nil {
			log.Warn().Err(err).Str("room-id", r.id).Str("user-id", id).Msg("Send failed")
		}
	}
	return nil
}

func (r *Room) Send(userID string, payload any) error {
	user, exists := r.users[userID]
	if !exists {
		return fmt.Errorf("user %s not in room %s", userID, r.id)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return user.Conn.Send(encoded)
}

func (r *Room) Stats() Stats {
	return Stats{ID: r.id, Users: len(r.users), Stats: r.drawing.Stats()}
}
