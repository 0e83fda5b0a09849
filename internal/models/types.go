package models

// Chat is one conversation with a counterpart. LastMessage mirrors the
// content of the newest message and is updated on every append.
type Chat struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	LastMessage string    `json:"lastMessage"`
	Messages    []Message `json:"messages"`
}

// Message is a single chat message. IDs are assigned locally as
// len(messages)+1 when appending, so they are only unique within a session.
type Message struct {
	ID        int    `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// User is the profile shape returned by the user search and current-user
// endpoints. PublicKey is stored opaquely; the client never performs any
// cryptographic operation with it.
type User struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
	About     string `json:"about,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Banned    bool   `json:"banned,omitempty"`
	PublicKey string `json:"public_key"`
}
