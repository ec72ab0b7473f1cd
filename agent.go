package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goodfoods/concierge/src/concurrent"
	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/models"
	"github.com/goodfoods/concierge/src/session"
)

const (
	// DefaultMaxToolIterations bounds the model/tool round trips in one turn.
	DefaultMaxToolIterations = 6

	fallbackReply = "I'm sorry, I'm having trouble completing that right now. Could you rephrase, or try again in a moment?"
)

// IDRule declares that an argument field of a tool carries an entity ID that
// must already be known to the session ledger.
type IDRule struct {
	Field string
	Kind  session.IDKind
}

// Policy holds the per-tool argument rules the agent enforces before
// dispatching a call.
type Policy struct {
	IDRules map[string][]IDRule
}

// DefaultPolicy covers the built-in reservation tool set.
func DefaultPolicy() *Policy {
	return &Policy{
		IDRules: map[string][]IDRule{
			"check_availability": {{Field: "restaurant_id", Kind: session.KindRestaurant}},
			"create_reservation": {{Field: "restaurant_id", Kind: session.KindRestaurant}},
			"modify_reservation": {{Field: "reservation_id", Kind: session.KindReservation}},
			"cancel_reservation": {{Field: "reservation_id", Kind: session.KindReservation}},
		},
	}
}

// Agent orchestrates model calls, conversation state, and tool execution
// for one dining-concierge deployment. It is safe for concurrent use across
// sessions; turns within a single session are serialised by the caller.
type Agent struct {
	model   models.ChatModel
	catalog ToolCatalog
	policy  *Policy
	logger  *slog.Logger

	maxToolIterations int
}

// Options configure a new Agent.
type Options struct {
	Model             models.ChatModel
	Catalog           ToolCatalog
	Policy            *Policy
	Logger            *slog.Logger
	MaxToolIterations int
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}
	if opts.Catalog == nil {
		return nil, errors.New("agent requires a tool catalog")
	}

	maxIter := opts.MaxToolIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxToolIterations
	}
	policy := opts.Policy
	if policy == nil {
		policy = DefaultPolicy()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Agent{
		model:             opts.Model,
		catalog:           opts.Catalog,
		policy:            policy,
		logger:            logger,
		maxToolIterations: maxIter,
	}, nil
}

// RunTurn processes one user message and returns the assistant's reply. The
// model may request tool calls; each batch is validated, executed, and fed
// back until the model answers in text or the iteration budget runs out.
func (a *Agent) RunTurn(ctx context.Context, sess *session.Session, userInput string) (string, error) {
	if strings.TrimSpace(userInput) == "" {
		return "", errors.New("user input is empty")
	}

	sess.Ledger.ObserveUserText(userInput)
	sess.Conversation.Append(models.ChatMessage{Role: models.RoleUser, Content: userInput})

	specs := a.catalog.Specs()

	for i := 0; i < a.maxToolIterations; i++ {
		reply, err := a.model.Chat(ctx, sess.Conversation.Messages(), specs)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			a.logger.Error("model inference failed", "session", sess.ID, "error", err)
			return a.fallback(sess), nil
		}

		sess.Conversation.Append(reply)

		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		a.runToolBatch(ctx, sess, reply.ToolCalls)
	}

	a.logger.Warn("tool iteration budget exhausted", "session", sess.ID, "budget", a.maxToolIterations)
	return a.fallback(sess), nil
}

func (a *Agent) fallback(sess *session.Session) string {
	sess.Conversation.Append(models.ChatMessage{Role: models.RoleAssistant, Content: fallbackReply})
	return fallbackReply
}

// runToolBatch executes one batch of tool calls and appends each result to
// the conversation, tagged with the call ID that requested it. Batches made
// up entirely of read-only tools run in parallel; anything that writes runs
// sequentially in request order.
func (a *Agent) runToolBatch(ctx context.Context, sess *session.Session, calls []models.ToolCall) {
	if len(calls) > 1 && a.batchReadOnly(calls) {
		results, errs := concurrent.ParallelMap(ctx, calls, func(call models.ToolCall) (string, error) {
			return a.runToolCall(ctx, sess, call), nil
		}, len(calls))
		for i, call := range calls {
			if errs[i] != nil {
				a.logger.Warn("tool call aborted", "session", sess.ID, "tool", call.Name, "error", errs[i])
				a.appendToolResult(sess, call, errorPayload(domain.Internalf("tool call aborted: %v", errs[i])))
				continue
			}
			a.appendToolResult(sess, call, results[i])
		}
		return
	}

	for _, call := range calls {
		result := a.runToolCall(ctx, sess, call)
		a.appendToolResult(sess, call, result)
	}
}

func (a *Agent) batchReadOnly(calls []models.ToolCall) bool {
	for _, call := range calls {
		tool, _, ok := a.catalog.Lookup(call.Name)
		if !ok || !isReadOnly(tool) {
			return false
		}
	}
	return true
}

// runToolCall resolves, vets, and invokes a single tool call. It always
// returns a JSON payload; failures become an error document the model can
// read and recover from.
func (a *Agent) runToolCall(ctx context.Context, sess *session.Session, call models.ToolCall) string {
	tool, _, ok := a.catalog.Lookup(call.Name)
	if !ok {
		a.logger.Warn("unknown tool requested", "session", sess.ID, "tool", call.Name)
		return errorPayload(domain.Validationf("unknown tool: %s", call.Name))
	}

	if err := a.checkProvenance(sess, call); err != nil {
		a.logger.Warn("tool call rejected", "session", sess.ID, "tool", call.Name, "error", err)
		return errorPayload(err)
	}

	resp, err := tool.Invoke(ctx, ToolRequest{SessionID: sess.ID, Arguments: call.Arguments})
	if err != nil {
		a.logger.Info("tool returned error", "session", sess.ID, "tool", call.Name, "error", err)
		return errorPayload(err)
	}

	a.logger.Debug("tool executed", "session", sess.ID, "tool", call.Name)
	return resp.Content
}

// checkProvenance rejects calls whose ID arguments never appeared in a prior
// tool result or in the user's own words.
func (a *Agent) checkProvenance(sess *session.Session, call models.ToolCall) error {
	for _, rule := range a.policy.IDRules[strings.ToLower(call.Name)] {
		raw, present := call.Arguments[rule.Field]
		if !present {
			continue
		}
		id, ok := toInt64(raw)
		if !ok {
			return domain.Validationf("%s must be an integer", rule.Field)
		}
		if !sess.Ledger.Allows(rule.Kind, id) {
			return domain.Validationf("%s %d does not appear in this conversation; look it up first", rule.Field, id)
		}
	}
	return nil
}

func (a *Agent) appendToolResult(sess *session.Session, call models.ToolCall, result string) {
	sess.Ledger.ObserveToolResult([]byte(result))
	sess.Conversation.Append(models.ChatMessage{
		Role:       models.RoleTool,
		Content:    result,
		ToolCallID: call.ID,
		ToolName:   call.Name,
	})
}

// errorPayload renders any error as the uniform tool error document.
func errorPayload(err error) string {
	te, ok := domain.AsToolError(err)
	if !ok {
		te = &domain.ToolError{Kind: domain.KindInternal, Message: err.Error()}
	}
	body, mErr := json.Marshal(map[string]any{"error": te})
	if mErr != nil {
		return fmt.Sprintf(`{"error":{"kind":"internal","message":%q}}`, err.Error())
	}
	return string(body)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	}
	return 0, false
}
