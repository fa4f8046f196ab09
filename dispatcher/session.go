package dispatcher

import (
	"context"
	"errors"

	"shared-canvas/protocol"
	"shared-canvas/room"
)

var ErrSessionClosed = errors.New("session closed")

type State int

const (
	Connecting State = iota
	Joined
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Joined:
		return "joined"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Session is one connection's membership in one room. Its methods are meant
// to be called from that connection's read loop only.
type Session struct {
	d      *Dispatcher
	userID string
	roomID string
	conn   room.Connection
	state  State
	logger sessionLogger
}

func (s *Session) UserID() string { return s.userID }
func (s *Session) RoomID() string { return s.roomID }
func (s *Session) State() State   { return s.state }

// Handle parses one inbound frame and queues its effect. Malformed frames are
// logged and dropped and unknown types are ignored; neither ends the session.
func (s *Session) Handle(ctx context.Context, data []byte) error {
	if s.state == Closed {
		return ErrSessionClosed
	}
	msg, err := protocol.Parse(data)
	if err != nil {
		s.logger.DroppedMalformed(err)
		return nil
	}
	if unknown, ok := msg.(protocol.Unknown); ok {
		s.logger.IgnoredUnknown(unknown.Name)
		return nil
	}
	return s.d.submit(ctx, func() { s.dispatch(msg) })
}

// Close queues the departure. Calling it again is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.state == Closed {
		return nil
	}
	s.state = Closed
	return s.d.submit(ctx, s.leave)
}

func (s *Session) join() {
	r := s.d.registry.Get(s.roomID)
	user, err := r.Join(s.userID, s.conn)
	if err != nil {
		s.logger.JoinRefused(err)
		s.conn.Close()
		return
	}
	if err := r.Send(user.ID, protocol.NewInit(user.ID, r.Drawing().Snapshot(), r.Roster())); err != nil {
		s.logger.SendFailed(err)
	}
	s.broadcast(r, protocol.NewUsers(r.Roster()), user.ID)
	s.logger.Joined(r.Len())
}

func (s *Session) leave() {
	r, _, ok := s.member()
	if !ok || !r.Leave(s.userID) {
		return
	}
	s.logger.Left(r.Len())
	s.broadcast(r, protocol.NewUsers(r.Roster()), "")
	if removed := s.d.registry.Reclaim(); len(removed) > 0 {
		s.logger.RoomsReclaimed(removed)
	}
}

// member returns this session's room and user. A user entry that belongs to
// another connection does not count.
func (s *Session) member() (*room.Room, *room.User, bool) {
	r, exists := s.d.registry.Lookup(s.roomID)
	if !exists {
		return nil, nil, false
	}
	user, exists := r.User(s.userID)
	if !exists || user.Conn != s.conn {
		return nil, nil, false
	}
	return r, user, true
}

func (s *Session) dispatch(msg protocol.Message) {
	r, user, ok := s.member()
	if !ok {
		return
	}
	state := r.Drawing()

	switch m := msg.(type) {
	case protocol.Drawing:
		s.broadcast(r, protocol.NewDrawing(user, m.Stroke), user.ID)
	case protocol.DrawingComplete:
		state.Commit(m.Stroke)
		s.broadcast(r, protocol.NewDrawingComplete(user.ID, m.Stroke), user.ID)
	case protocol.Cursor:
		s.broadcast(r, protocol.NewCursor(user, m.Position), user.ID)
	case protocol.Undo:
		if applied, snapshot := state.Undo(); applied {
			s.broadcast(r, protocol.NewUndo(snapshot), "")
		}
	case protocol.Redo:
		if applied, snapshot := state.Redo(); applied {
			s.broadcast(r, protocol.NewRedo(snapshot), "")
		}
	case protocol.Clear:
		state.Clear()
		s.broadcast(r, protocol.NewClear(), "")
	case protocol.RequestFullState:
		if err := r.Send(user.ID, protocol.NewFullState(state.Snapshot())); err != nil {
			s.logger.SendFailed(err)
		}
	}
}

func (s *Session) broadcast(r *room.Room, payload any, excludeUserID string) {
	if err := r.Broadcast(payload, excludeUserID); err != nil {
		s.logger.BroadcastFailed(err)
	}
}
