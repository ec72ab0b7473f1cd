package models

import (
	"context"
	"errors"
	"fmt"
	"os"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ---------------------------- Google Gemini ----------------------------------

type GeminiLLM struct {
	Client *genai.Client
	Model  string
}

func NewGeminiLLM(ctx context.Context, model string) (*GeminiLLM, error) {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiLLM{Client: client, Model: model}, nil
}

func (g *GeminiLLM) Chat(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (ChatMessage, error) {
	model := g.Client.GenerativeModel(g.Model)
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: geminiFunctions(tools)}}
	}

	var history []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		case RoleUser:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		case RoleAssistant:
			var parts []genai.Part
			if m.Content != "" {
				parts = append(parts, genai.Text(m.Content))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: tc.Name, Args: tc.Arguments})
			}
			history = append(history, &genai.Content{Role: "model", Parts: parts})
		case RoleTool:
			history = append(history, &genai.Content{
				Role: "function",
				Parts: []genai.Part{genai.FunctionResponse{
					Name:     m.ToolName,
					Response: map[string]any{"content": m.Content},
				}},
			})
		}
	}
	if len(history) == 0 {
		return ChatMessage{}, errors.New("gemini chat: empty conversation")
	}

	session := model.StartChat()
	last := history[len(history)-1]
	session.History = history[:len(history)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("gemini chat: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ChatMessage{}, errors.New("gemini chat: empty response")
	}

	out := ChatMessage{Role: RoleAssistant}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			out.Content += string(p)
		case genai.FunctionCall:
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				Name:      p.Name,
				Arguments: p.Args,
			})
		}
	}
	return out, nil
}

func geminiFunctions(tools []ToolDefinition) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		props := make(map[string]*genai.Schema, len(t.Parameters))
		var required []string
		for _, p := range t.Parameters {
			schema := &genai.Schema{Description: p.Description}
			switch p.Type {
			case "integer":
				schema.Type = genai.TypeInteger
			default:
				schema.Type = genai.TypeString
			}
			if len(p.Enum) > 0 {
				schema.Enum = p.Enum
			}
			props[p.Name] = schema
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return out
}

var _ ChatModel = (*GeminiLLM)(nil)
