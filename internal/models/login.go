package models

// LoginState is the finite set of states the login sequence moves through.
type LoginState string

const (
	LoginNotStarted LoginState = "not_started"
	LoginSubmitted  LoginState = "submitted"
	LoginSuccess    LoginState = "success"
	LoginChallenge  LoginState = "challenge"
	LoginFailure    LoginState = "failure"
)

// LoginOutcome is the terminal classification of one login attempt, derived
// once from the post-submit URL and never re-evaluated.
type LoginOutcome struct {
	State   LoginState `json:"state"`
	Message string     `json:"message,omitempty"`
}

// OK reports whether the outcome authorizes the rest of the pipeline.
func (o LoginOutcome) OK() bool {
	return o.State == LoginSuccess
}
