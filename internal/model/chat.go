package model

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one transcript entry of the chat widget. Never persisted.
type ChatMessage struct {
	Role      ChatRole
	Content   string
	Timestamp time.Time
}

// ChatRequest is the body sent to the /chatbot endpoints.
type ChatRequest struct {
	Message      string         `json:"message"`
	UserToken    string         `json:"userToken"`
	Repo         string         `json:"repo"`
	IssueContext map[string]any `json:"issueContext"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Response string `json:"response"`
}
