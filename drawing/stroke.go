package drawing

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

var ErrUnknownTool = errors.New("unknown tool")

func (t *Tool) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !Tool(s).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTool, s)
	}
	*t = Tool(s)
	return nil
}

func (t Tool) Valid() bool {
	return t == ToolBrush || t == ToolEraser
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one finished freehand path. It is never modified after Commit.
type Stroke struct {
	Tool   Tool    `json:"tool"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}
