package room

import (
	"sort"

	"github.com/rs/zerolog/log"

	"shared-canvas/drawing"
)

const DefaultID = "default"

// Registry owns every live room. The default room always exists; any other
// room is created on first Get and dropped by Reclaim once empty.
// Registry is not safe for concurrent use.
type Registry struct {
	rooms      map[string]*Room
	defaultID  string
	maxHistory int
}

func NewRegistry(defaultID string, maxHistory int) *Registry {
	if defaultID == "" {
		defaultID = DefaultID
	}
	if maxHistory < 1 {
		maxHistory = drawing.DefaultMaxHistory
	}
	r := &Registry{rooms: make(map[string]*Room), defaultID: defaultID, maxHistory: maxHistory}
	r.rooms[defaultID] = New(defaultID, maxHistory)
	return r
}

func (r *Registry) DefaultID() string {
	return r.defaultID
}

// Get returns the room with the given id, creating it if needed.
// An empty id selects the default room.
func (r *Registry) Get(id string) *Room {
	if id == "" {
		id = r.defaultID
	}
	room, exists := r.rooms[id]
	if !exists {
		room = New(id, r.maxHistory)
		r.rooms[id] = room
		log.Info().Str("room-id", id).Msg("Created room")
	}
	return room
}

func (r *Registry) Lookup(id string) (*Room, bool) {
	room, exists := r.rooms[id]
	return room, exists
}

func (r *Registry) Len() int {
	return len(r.rooms)
}

// Reclaim removes every empty room except the default one and returns the
// removed ids.
func (r *Registry) Reclaim() []string {
	removed := make([]string, 0)
	for id, room := range r.rooms {
		if id == r.defaultID || !room.IsEmpty() {
			continue
		}
		delete(r.rooms, id)
		removed = append(removed, id)
		log.Info().Str("room-id", id).Msg("Removed empty room")
	}
	sort.Strings(removed)
	return removed
}

func (r *Registry) Stats() []Stats {
	stats := make([]Stats, 0, len(r.rooms))
	for _, room := range r.rooms {
		stats = append(stats, room.Stats())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ID < stats[j].ID })
	return stats
}
