package session

// State is where a profile's authentication currently stands.
type State string

const (
	Anonymous     State = "ANONYMOUS"
	Restoring     State = "RESTORING"
	Authenticated State = "AUTHENTICATED"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Anonymous:     {Restoring, Authenticated},
	Restoring:     {Authenticated, Anonymous},
	Authenticated: {Anonymous},
}

// Change is the payload of session.changed events.
type Change struct {
	From State
	To   State
}
