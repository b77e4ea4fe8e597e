package answer

import "context"

// Completer generates text from a system and a user instruction.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
