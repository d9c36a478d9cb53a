package ports

import "context"

// Messenger sends outbound messages to a customer on the chat platform.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}
