package entity

import "time"

// Origin tells who authored a chat entry.
type Origin string

const (
	OriginSelf   Origin = "self"
	OriginRemote Origin = "remote"
)

// ChatMessage is one immutable entry of a session log.
type ChatMessage struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

func (m ChatMessage) IsSelf() bool {
	return m.Origin == OriginSelf
}

// Snapshot is a copy of the session state at one point in time.
type Snapshot struct {
	PendingInput string
	Busy         bool
	Messages     []ChatMessage
}

// Entry is one visible row of the rendered message list. Thinking entries
// are synthetic and never part of the log.
type Entry struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Origin   Origin `json:"origin"`
	Thinking bool   `json:"thinking,omitempty"`
}
