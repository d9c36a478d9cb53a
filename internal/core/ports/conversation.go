package ports

import "context"

// ConversationHandler turns one inbound customer message into zero or more
// reply texts. profileName is the sender's display name as reported by the
// platform and may be empty.
type ConversationHandler interface {
	HandleMessage(ctx context.Context, from, profileName, text string) ([]string, error)
}
