package session

import (
	"sync"

	"github.com/goodfoods/concierge/src/models"
)

// Conversation holds the ordered message history for one session. Appends
// and reads are safe for concurrent use.
type Conversation struct {
	mu     sync.RWMutex
	system string
	turns  []models.ChatMessage
	window int
}

// NewConversation creates a history with the given system prompt. window
// caps how many non-system turns are sent to the model per request; zero
// means unbounded.
func NewConversation(system string, window int) *Conversation {
	return &Conversation{system: system, window: window}
}

func (c *Conversation) Append(msg models.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, msg)
}

// Messages returns the system prompt followed by the most recent turns,
// trimmed to the rolling window. The slice is a copy.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turns := c.turns
	if c.window > 0 && len(turns) > c.window {
		cut := turns[len(turns)-c.window:]
		// Never start the window on a tool result; the model needs the
		// assistant turn that issued the call.
		for len(cut) > 0 && cut[0].Role == models.RoleTool {
			cut = cut[1:]
		}
		turns = cut
	}

	out := make([]models.ChatMessage, 0, len(turns)+1)
	if c.system != "" {
		out = append(out, models.ChatMessage{Role: models.RoleSystem, Content: c.system})
	}
	out = append(out, turns...)
	return out
}

// Len reports the number of non-system turns recorded so far.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}
