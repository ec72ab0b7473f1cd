package models

import (
	"context"
	"errors"
	"sync"
)

// ScriptedLLM replays a fixed sequence of responses. It backs tests and
// offline demos: each Chat call pops the next scripted message and records
// what it was asked.
type ScriptedLLM struct {
	mu        sync.Mutex
	responses []ChatMessage
	errs      []error

	Calls    int
	Requests [][]ChatMessage
}

func NewScriptedLLM(responses ...ChatMessage) *ScriptedLLM {
	return &ScriptedLLM{responses: responses}
}

// FailWith queues an error to be returned before any remaining responses.
func (s *ScriptedLLM) FailWith(err error) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
	return s
}

func (s *ScriptedLLM) Chat(_ context.Context, messages []ChatMessage, _ []ToolDefinition) (ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	snapshot := make([]ChatMessage, len(messages))
	copy(snapshot, messages)
	s.Requests = append(s.Requests, snapshot)

	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return ChatMessage{}, err
	}
	if len(s.responses) == 0 {
		return ChatMessage{}, errors.New("scripted model: out of responses")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	if resp.Role == "" {
		resp.Role = RoleAssistant
	}
	return resp, nil
}

var _ ChatModel = (*ScriptedLLM)(nil)
