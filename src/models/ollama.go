package models

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// ---------------------------- Ollama -----------------------------------------

// OllamaLLM drives a local Ollama chat model with native tool calling. This
// is the default provider; the concierge is designed to run fully local.
type OllamaLLM struct {
	Client *ollama.Client
	Model  string
}

func NewOllamaLLM(model string) (*OllamaLLM, error) {
	if model == "" {
		model = "llama3.2:3b"
	}
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}
	httpClient := &http.Client{Timeout: 120 * time.Second}
	return &OllamaLLM{
		Client: ollama.NewClient(u, httpClient),
		Model:  model,
	}, nil
}

func (o *OllamaLLM) Chat(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (ChatMessage, error) {
	apiTools, err := ollamaTools(tools)
	if err != nil {
		return ChatMessage{}, err
	}

	req := &ollama.ChatRequest{
		Model:    o.Model,
		Messages: ollamaMessages(messages),
		Tools:    apiTools,
		Stream:   new(bool), // single response, no streaming
	}

	var (
		text strings.Builder
		out  ChatMessage
	)
	err = o.Client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		for _, tc := range resp.Message.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				Name:      tc.Function.Name,
				Arguments: map[string]any(tc.Function.Arguments),
			})
		}
		return nil
	})
	if err != nil {
		return ChatMessage{}, fmt.Errorf("ollama chat: %w", err)
	}

	out.Role = RoleAssistant
	out.Content = text.String()
	return out, nil
}

func ollamaMessages(messages []ChatMessage) []ollama.Message {
	out := make([]ollama.Message, 0, len(messages))
	for _, m := range messages {
		msg := ollama.Message{Role: m.Role, Content: m.Content}
		for _, tc := range m.ToolCalls {
			var call ollama.ToolCall
			call.Function.Name = tc.Name
			call.Function.Arguments = ollama.ToolCallFunctionArguments(tc.Arguments)
			msg.ToolCalls = append(msg.ToolCalls, call)
		}
		out = append(out, msg)
	}
	return out
}

// ollamaTools converts definitions through their JSON form, which is exactly
// the wire shape api.Tool encodes.
func ollamaTools(tools []ToolDefinition) (ollama.Tools, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	wire := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		wire = append(wire, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name,
				"description": t.Description,
				"parameters":  t.SchemaObject(),
			},
		})
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode tools: %w", err)
	}
	var out ollama.Tools
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}
	return out, nil
}

var _ ChatModel = (*OllamaLLM)(nil)
