package server

import "time"

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply    string `json:"reply"`
	ToolUsed bool   `json:"tool_used"`
}

type DigestRequest struct {
	Kind        string `json:"kind"`
	WindowHours int    `json:"window_hours"`
}

type DigestResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Scheduled    bool      `json:"scheduled"`
	Content      string    `json:"content"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ChannelRequest struct {
	Username string `json:"username"`
}

type ChannelResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Title       string     `json:"title"`
	IsActive    bool       `json:"is_active"`
	AddedAt     time.Time  `json:"added_at"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}
