package entity

import "time"

type ChatRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ConversationTurn is one user/assistant exchange. Turns are append-only;
// chronological order is defined by Timestamp.
type ConversationTurn struct {
	SessionID        string    `json:"session_id"`
	UserID           string    `json:"user_id,omitempty"`
	UserMessage      string    `json:"user_message"`
	AssistantMessage string    `json:"assistant_message"`
	Timestamp        time.Time `json:"timestamp"`
}

// IntentExample is one labeled utterance with its embedding. Immutable once built.
type IntentExample struct {
	Intent    string    `json:"intent"`
	Example   string    `json:"example"`
	Embedding []float32 `json:"embedding"`
}

// IntentMatch is a classification result. Score is cosine similarity in
// [-1, 1]; the {-1, "unknown"} pair means no examples were available.
type IntentMatch struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}
