package auth

// State is the session lifecycle position.
type State int

const (
	StateSignedOut State = iota
	StateAuthenticating
	StateSignedIn
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed_out"
	case StateAuthenticating:
		return "authenticating"
	case StateSignedIn:
		return "signed_in"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}
