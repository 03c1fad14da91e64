package model

import "time"

// Action is the terminal artifact of a completed dialogue session: a resolved
// intent plus every validated slot value. Immutable once emitted; a session
// emits at most one.
type Action struct {
	SessionID string
	Intent    Intent
	Slots     map[string]any
	Timestamp time.Time
}

// Result is what the execution collaborator hands back for an Action:
// a finished sentence ready to be spoken.
type Result struct {
	Text string
}

// CurrencyPair is the parsed value of an exchange-rate slot ("USD to EUR").
type CurrencyPair struct {
	From string
	To   string
}
