package models

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSchemaObject(t *testing.T) {
	def := ToolDefinition{
		Name:        "check_availability",
		Description: "check a slot",
		Parameters: []ParameterSpec{
			{Name: "restaurant_id", Type: "integer", Description: "id", Required: true},
			{Name: "datetime", Type: "string", Description: "when", Required: true},
			{Name: "notes", Type: "string", Description: "optional", Enum: []string{"a", "b"}},
		},
	}

	schema := def.SchemaObject()
	if schema["type"] != "object" {
		t.Fatalf("schema type: %v", schema["type"])
	}

	props := schema["properties"].(map[string]any)
	if len(props) != 3 {
		t.Fatalf("want 3 properties, got %d", len(props))
	}
	if props["restaurant_id"].(map[string]any)["type"] != "integer" {
		t.Fatalf("restaurant_id property: %v", props["restaurant_id"])
	}
	if got := props["notes"].(map[string]any)["enum"].([]string); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("enum: %v", got)
	}

	required := schema["required"].([]string)
	if !reflect.DeepEqual(required, []string{"restaurant_id", "datetime"}) {
		t.Fatalf("required: %v", required)
	}
}

func TestSchemaObjectNoRequired(t *testing.T) {
	schema := ToolDefinition{Name: "search"}.SchemaObject()
	if _, ok := schema["required"]; ok {
		t.Fatal("required must be omitted when empty")
	}
}

func TestScriptedLLMReplaysInOrder(t *testing.T) {
	m := NewScriptedLLM(
		ChatMessage{Content: "first"},
		ChatMessage{Content: "second"},
	)
	ctx := context.Background()

	got, err := m.Chat(ctx, []ChatMessage{{Role: RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got.Content != "first" || got.Role != RoleAssistant {
		t.Fatalf("unexpected response: %+v", got)
	}

	got, _ = m.Chat(ctx, nil, nil)
	if got.Content != "second" {
		t.Fatalf("unexpected response: %+v", got)
	}

	if _, err := m.Chat(ctx, nil, nil); err == nil {
		t.Fatal("exhausted script must error")
	}
	if m.Calls != 3 {
		t.Fatalf("calls: %d", m.Calls)
	}
}

func TestScriptedLLMQueuedError(t *testing.T) {
	wantErr := errors.New("boom")
	m := NewScriptedLLM(ChatMessage{Content: "after"}).FailWith(wantErr)

	if _, err := m.Chat(context.Background(), nil, nil); !errors.Is(err, wantErr) {
		t.Fatalf("want queued error, got %v", err)
	}
	got, err := m.Chat(context.Background(), nil, nil)
	if err != nil || got.Content != "after" {
		t.Fatalf("responses must resume after the error: %v %v", got, err)
	}
}

func TestNewChatProviderUnknown(t *testing.T) {
	if _, err := NewChatProvider(context.Background(), "smoke-signals", ""); err == nil {
		t.Fatal("unknown provider must error")
	}
}
