package model

// PromptKind tags why the assistant is speaking.
type PromptKind string

const (
	PromptGreeting PromptKind = "greeting" // session-opening welcome
	PromptAsk      PromptKind = "ask"      // first request for a slot
	PromptRetry    PromptKind = "retry"    // reprompt after invalid or missing input
	PromptResult   PromptKind = "result"   // outcome of an executed action
	PromptError    PromptKind = "error"    // unrecognized command, aborted session
	PromptGoodbye  PromptKind = "goodbye"
	PromptHeard    PromptKind = "heard" // echo of recognized user input
)

// Prompt is a single assistant-side utterance, consumed by speech synthesis
// or UI sinks.
type Prompt struct {
	SessionID string     `json:"session_id,omitempty"`
	Kind      PromptKind `json:"kind"`
	Text      string     `json:"text"`
}
