package helpdesk

import (
	"context"
	"sync"
)

// Conversation is one chat with the helpdesk. Safe for concurrent use,
// though turns are meant to be sent one at a time.
type Conversation struct {
	client *Client

	mu        sync.Mutex
	sessionID string
	stage     string
}

// SessionID returns the server-assigned session id ("" before the first turn).
func (cv *Conversation) SessionID() string {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.sessionID
}

// Stage returns the stage reported by the last turn.
func (cv *Conversation) Stage() string {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.stage
}

// Send sends one turn and remembers the session id for the next one.
func (cv *Conversation) Send(ctx context.Context, question string) (ChatReply, error) {
	reply, err := cv.client.Chat(ctx, cv.SessionID(), question)
	if err != nil {
		return ChatReply{}, err
	}

	cv.mu.Lock()
	cv.sessionID = reply.SessionID
	cv.stage = reply.SessionStage
	cv.mu.Unlock()
	return reply, nil
}

// End ends the conversation on the server. A conversation that never started is a no-op.
func (cv *Conversation) End(ctx context.Context) error {
	id := cv.SessionID()
	if id == "" {
		return nil
	}
	if err := cv.client.EndChat(ctx, id); err != nil {
		return err
	}

	cv.mu.Lock()
	cv.stage = StageCompleted
	cv.mu.Unlock()
	return nil
}
