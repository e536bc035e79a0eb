package bus

import "time"

// Event kinds. Subscribers filter by prefix, so "users." matches every user event.
const (
	SessionChanged  = "session.changed"
	UsersChanged    = "users.changed"
	BooksChanged    = "books.changed"
	ImportCompleted = "import.completed"
	ImportFailed    = "import.failed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
