package drawing

const DefaultMaxHistory = 100

type Stats struct {
	Strokes     int `json:"strokes"`
	UndoStack   int `json:"undoStack"`
	TotalPoints int `json:"totalPoints"`
}

// State holds the committed strokes of a room and the strokes taken off by Undo.
// There is one linear history per room, shared by all of its users.
// State is not safe for concurrent use.
type State struct {
	strokes    []Stroke
	undone     []Stroke
	maxHistory int
}

func New(maxHistory int) *State {
	if maxHistory < 1 {
		maxHistory = DefaultMaxHistory
	}
	return &State{strokes: make([]Stroke, 0), undone: make([]Stroke, 0), maxHistory: maxHistory}
}

func (s *State) MaxHistory() int {
	return s.maxHistory
}

// Commit appends stroke, drops any pending redo and evicts the oldest strokes
// beyond maxHistory.
func (s *State) Commit(stroke Stroke) []Stroke {
	s.strokes = append(s.strokes, stroke)
	s.undone = s.undone[:0]
	if over := len(s.strokes) - s.maxHistory; over > 0 {
		s.strokes = append(s.strokes[:0], s.strokes[over:]...)
	}
	return s.Snapshot()
}

func (s *State) Undo() (bool, []Stroke) {
	if len(s.strokes) == 0 {
		return false, s.Snapshot()
	}
	last := s.strokes[len(s.strokes)-1]
	s.strokes = s.strokes[:len(s.strokes)-1]
	s.undone = append(s.undone, last)
	return true, s.Snapshot()
}

func (s *State) Redo() (bool, []Stroke) {
	if len(s.undone) == 0 {
		return false, s.Snapshot()
	}
	last := s.undone[len(s.undone)-1]
	s.undone = s.undone[:len(s.undone)-1]
	s.strokes = append(s.strokes, last)
	return true, s.Snapshot()
}

func (s *State) Clear() []Stroke {
	s.strokes = make([]Stroke, 0)
	s.undone = make([]Stroke, 0)
	return s.Snapshot()
}

// Snapshot returns a copy of the committed strokes in draw order. It is never nil.
func (s *State) Snapshot() []Stroke {
	out := make([]Stroke, len(s.strokes))
	copy(out, s.strokes)
	return out
}

func (s *State) Stats() Stats {
	points := 0
	for _, stroke := range s.strokes {
		points += len(stroke.Points)
	}
	return Stats{Strokes: len(s.strokes), UndoStack: len(s.undone), TotalPoints: points}
}
