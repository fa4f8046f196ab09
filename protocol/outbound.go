package protocol

import (
	"encoding/json"

	"shared-canvas/drawing"
	"shared-canvas/room"
)

const (
	TypeInit             = "init"
	TypeDrawing          = "drawing"
	TypeDrawingComplete  = "drawingComplete"
	TypeCursor           = "cursor"
	TypeUsers            = "users"
	TypeUndo             = "undo"
	TypeRedo             = "redo"
	TypeClear            = "clear"
	TypeRequestFullState = "requestFullState"
	TypeFullState        = "fullState"
)

type InitMessage struct {
	Type        string           `json:"type"`
	UserID      string           `json:"userId"`
	CanvasState []drawing.Stroke `json:"canvasState"`
	Users       []room.Member    `json:"users"`
}

type DrawingMessage struct {
	Type     string          `json:"type"`
	UserID   string          `json:"userId"`
	Stroke   json.RawMessage `json:"stroke"`
	UserName string          `json:"userName"`
	Color    string          `json:"color"`
}

type DrawingCompleteMessage struct {
	Type   string         `json:"type"`
	UserID string         `json:"userId"`
	Stroke drawing.Stroke `json:"stroke"`
}

type CursorMessage struct {
	Type     string          `json:"type"`
	UserID   string          `json:"userId"`
	Position json.RawMessage `json:"position"`
	UserName string          `json:"userName"`
	Color    string          `json:"color"`
}

type UsersMessage struct {
	Type  string        `json:"type"`
	Users []room.Member `json:"users"`
}

// CanvasStateMessage is the canonical state reply used by undo, redo and fullState.
type CanvasStateMessage struct {
	Type        string           `json:"type"`
	CanvasState []drawing.Stroke `json:"canvasState"`
}

type ClearMessage struct {
	Type string `json:"type"`
}

func NewInit(userID string, canvasState []drawing.Stroke, users []room.Member) InitMessage {
	return InitMessage{Type: TypeInit, UserID: userID, CanvasState: canvasState, Users: users}
}

func NewDrawing(user *room.User, stroke json.RawMessage) DrawingMessage {
	return DrawingMessage{Type: TypeDrawing, UserID: user.ID, Stroke: orNull(stroke), UserName: user.DisplayName, Color: user.Color}
}

func NewDrawingComplete(userID string, stroke drawing.Stroke) DrawingCompleteMessage {
	return DrawingCompleteMessage{Type: TypeDrawingComplete, UserID: userID, Stroke: stroke}
}

func NewCursor(user *room.User, position json.RawMessage) CursorMessage {
	return CursorMessage{Type: TypeCursor, UserID: user.ID, Position: orNull(position), UserName: user.DisplayName, Color: user.Color}
}

func NewUsers(users []room.Member) UsersMessage {
	return UsersMessage{Type: TypeUsers, Users: users}
}

func NewUndo(canvasState []drawing.Stroke) CanvasStateMessage {
	return CanvasStateMessage{Type: TypeUndo, CanvasState: canvasState}
}

func NewRedo(canvasState []drawing.Stroke) CanvasStateMessage {
	return CanvasStateMessage{Type: TypeRedo, CanvasState: canvasState}
}

func NewFullState(canvasState []drawing.Stroke) CanvasStateMessage {
	return CanvasStateMessage{Type: TypeFullState, CanvasState: canvasState}
}

func NewClear() ClearMessage {
	return ClearMessage{Type: TypeClear}
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
