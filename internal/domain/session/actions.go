package session

// ActionType names a session transition.
type ActionType string

const (
	ActionSessionStarted ActionType = "SESSION_STARTED"
	ActionSessionEnded   ActionType = "SESSION_ENDED"
)

// Action is the input of Reduce. User is read only for SESSION_STARTED.
type Action struct {
	Type ActionType
	User User
}

// State holds the current session; User is nil when nobody is logged in.
type State struct {
	User *User
}

// Reduce returns the state after action. The input is never modified.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionSessionStarted:
		u := action.User
		return State{User: &u}
	case ActionSessionEnded:
		return State{}
	}
	return state
}
