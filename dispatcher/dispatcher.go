package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"shared-canvas/code"
	"shared-canvas/room"
)

const defaultQueueSize = 256

var ErrStopped = errors.New("dispatcher stopped")

type Stats struct {
	Rooms     []room.Stats `json:"rooms"`
	Timestamp time.Time    `json:"timestamp"`
}

type Option func(*Dispatcher)

// WithIDGenerator replaces the generator of user identifiers.
// generate may be called from several goroutines at once.
func WithIDGenerator(generate func() string) Option {
	return func(d *Dispatcher) {
		d.newID = generate
	}
}

// Dispatcher serializes every change to the rooms of a registry. Connections
// submit turns; Run executes them one at a time, each to completion, so a
// turn's mutation and the fanout it causes are never interleaved with another.
type Dispatcher struct {
	registry *room.Registry
	turns    chan func()
	done     chan struct{}
	newID    func() string
}

func New(registry *room.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		turns:    make(chan func(), defaultQueueSize),
		done:     make(chan struct{}),
		newID:    code.GenerateUserID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes submitted turns until ctx is done. It must be called once.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case turn := <-d.turns:
			turn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Dispatcher) submit(ctx context.Context, turn func()) error {
	select {
	case <-d.done:
		return ErrStopped
	default:
	}
	select {
	case d.turns <- turn:
		return nil
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports every live room. It runs as a turn of its own, so it also
// waits for all previously submitted turns.
func (d *Dispatcher) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	err := d.submit(ctx, func() {
		reply <- Stats{Rooms: d.registry.Stats(), Timestamp: time.Now().UTC()}
	})
	if err != nil {
		return Stats{}, err
	}
	select {
	case stats := <-reply:
		return stats, nil
	case <-d.done:
		select {
		case stats := <-reply:
			return stats, nil
		default:
			return Stats{}, ErrStopped
		}
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Connect gives conn a new identity and queues its join to roomID, or to the
// default room when roomID is empty. The per-connection logger is taken from ctx.
func (d *Dispatcher) Connect(ctx context.Context, conn room.Connection, roomID string) (*Session, error) {
	if roomID == "" {
		roomID = d.registry.DefaultID()
	}
	s := &Session{
		d:      d,
		userID: d.newID(),
		roomID: roomID,
		conn:   conn,
		state:  Connecting,
	}
	s.logger = newSessionLogger(zerolog.Ctx(ctx), s.userID, roomID)
	if err := d.submit(ctx, s.join); err != nil {
		s.state = Closed
		return nil, err
	}
	s.state = Joined
	return s, nil
}
