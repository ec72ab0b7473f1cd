// Package models abstracts chat-completion providers with native tool
// calling behind one interface.
package models

import "context"

// Chat roles used in conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one role-tagged turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// ToolCalls is set on assistant turns that request tool execution.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID and ToolName tag tool turns with the originating call so
	// the model can correlate results of parallel calls.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// ToolCall is a single tool invocation requested by the model. Arguments
// arrive unvalidated; the tool registry rejects what the schema forbids.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ParameterSpec describes one argument of a tool.
type ParameterSpec struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // "string" | "integer"
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolDefinition is the model-facing description of a tool. The description
// text is part of the contract: the model chooses tools based on it.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterSpec `json:"parameters"`
}

// SchemaObject renders the definition as a JSON-schema object for providers
// that take raw schemas.
func (d ToolDefinition) SchemaObject() map[string]any {
	props := make(map[string]any, len(d.Parameters))
	var required []string
	for _, p := range d.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ChatModel produces the next assistant turn: either plain text or one or
// more tool calls. Implementations must not partially apply tools; they only
// translate wire formats.
type ChatModel interface {
	Chat(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (ChatMessage, error)
}
