package inference

import "context"

// Chat roles understood by the inference server.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply holds the model's answer.
type Reply struct {
	Content string `json:"content"`
}

// Client is the chat capability consumed by the service layer.
type Client interface {
	Chat(ctx context.Context, model string, messages []Message) (Reply, error)
}
