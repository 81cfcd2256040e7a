// internal/models/conversation.go
package models

import "time"

// Transcript speakers.
const (
	SpeakerUser = "user"
	SpeakerBot  = "bot"
)

// TranscriptMessage is a single utterance in a conversation transcript.
// Timestamps are ISO-8601 strings so the stored JSON matches the wire format.
type TranscriptMessage struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Conversation is one logged question/answer exchange.
type Conversation struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"userId,omitempty" db:"user_id"`
	Messages  []TranscriptMessage    `json:"messages" db:"messages"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
}

// NewTranscriptMessage stamps an utterance with the current UTC time.
func NewTranscriptMessage(speaker, text string) TranscriptMessage {
	return TranscriptMessage{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
