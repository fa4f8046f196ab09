package room

// Connection is the transport handle of a joined user.
// Send must not block; a recipient that cannot take the frame returns an error.
type Connection interface {
	Send(data []byte) error
	Close() error
}

type User struct {
	ID          string
	Conn        Connection
	Color       string
	DisplayName string
}

// Member is the public view of a User as sent to clients.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (u *User) Member() Member {
	return Member{ID: u.ID, Name: u.DisplayName, Color: u.Color}
}
