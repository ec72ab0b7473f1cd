package concierge

import (
	"context"

	"github.com/goodfoods/concierge/src/models"
)

// ToolSpec describes a tool to the model. It doubles as the definition sent
// on every chat request.
type ToolSpec = models.ToolDefinition

// ToolRequest captures an invocation request for a tool.
type ToolRequest struct {
	SessionID string
	Arguments map[string]any
}

// ToolResponse represents the structured response returned by a tool. The
// content is always a JSON document.
type ToolResponse struct {
	Content string
}

// Tool exposes structured metadata and an invocation handler.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

// ReadOnly marks tools whose invocation never writes state. The agent only
// parallelises a tool batch when every call in it is read-only.
type ReadOnly interface {
	ReadOnly() bool
}

// ToolCatalog maintains an ordered set of tools and provides lookup by name.
type ToolCatalog interface {
	Register(tool Tool) error
	Lookup(name string) (Tool, ToolSpec, bool)
	Specs() []ToolSpec
	Tools() []Tool
}

func isReadOnly(t Tool) bool {
	ro, ok := t.(ReadOnly)
	return ok && ro.ReadOnly()
}
