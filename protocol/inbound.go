package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"shared-canvas/drawing"
)

var ErrMalformed = errors.New("malformed message")

// Message is one client→server envelope. The concrete type is one of Drawing,
// DrawingComplete, Cursor, Undo, Redo, Clear, RequestFullState or Unknown.
type Message interface {
	Type() string
}

// Drawing carries an in-progress stroke that is relayed as is.
type Drawing struct {
	Stroke json.RawMessage `json:"stroke"`
}

type DrawingComplete struct {
	Stroke drawing.Stroke `json:"stroke"`
}

// Cursor carries an opaque pointer position.
type Cursor struct {
	Position json.RawMessage `json:"position"`
}

type Undo struct{}

type Redo struct{}

type Clear struct{}

type RequestFullState struct{}

// Unknown is any envelope whose type this server does not handle.
type Unknown struct {
	Name string
}

func (Drawing) Type() string          { return TypeDrawing }
func (DrawingComplete) Type() string  { return TypeDrawingComplete }
func (Cursor) Type() string           { return TypeCursor }
func (Undo) Type() string             { return TypeUndo }
func (Redo) Type() string             { return TypeRedo }
func (Clear) Type() string            { return TypeClear }
func (RequestFullState) Type() string { return TypeRequestFullState }
func (u Unknown) Type() string        { return u.Name }

func unmarshalJSON[T any](data []byte) (T, error) {
	var parsed T
	err := json.Unmarshal(data, &parsed)
	return parsed, err
}

// Parse decodes one envelope. Unparseable input yields ErrMalformed; an
// unrecognised type is not an error and yields Unknown.
func Parse(data []byte) (Message, error) {
	envelope, err := unmarshalJSON[struct {
		Type *string `json:"type"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if envelope.Type == nil {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	var parsed Message
	switch *envelope.Type {
	case TypeDrawing:
		parsed, err = unmarshalJSON[Drawing](data)
	case TypeDrawingComplete:
		parsed, err = parseDrawingComplete(data)
	case TypeCursor:
		parsed, err = unmarshalJSON[Cursor](data)
	case TypeUndo:
		parsed = Undo{}
	case TypeRedo:
		parsed = Redo{}
	case TypeClear:
		parsed = Clear{}
	case TypeRequestFullState:
		parsed = RequestFullState{}
	default:
		parsed = Unknown{Name: *envelope.Type}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, *envelope.Type, err)
	}
	return parsed, nil
}

func parseDrawingComplete(data []byte) (Message, error) {
	m, err := unmarshalJSON[struct {
		Stroke *drawing.Stroke `json:"stroke"`
	}](data)
	if err != nil {
		return nil, err
	}
	if m.Stroke == nil {
		return nil, errors.New("missing stroke")
	}
	if !m.Stroke.Tool.Valid() {
		return nil, fmt.Errorf("%w: %q", drawing.ErrUnknownTool, m.Stroke.Tool)
	}
	if m.Stroke.Points == nil {
		m.Stroke.Points = []drawing.Point{}
	}
	return DrawingComplete{Stroke: *m.Stroke}, nil
}
