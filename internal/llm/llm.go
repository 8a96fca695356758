package llm

import (
	"context"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of an ordered conversation. Image is nil for plain
// text turns; when set, the turn carries the raw image bytes alongside the
// text and the adapter encodes them for its wire format.
type Message struct {
	Role  Role
	Text  string
	Image []byte
}

type Client interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}
