package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/booking"
	"github.com/goodfoods/concierge/src/domain"
	"github.com/goodfoods/concierge/src/embed"
	"github.com/goodfoods/concierge/src/models"
	"github.com/goodfoods/concierge/src/recommend"
	"github.com/goodfoods/concierge/src/session"
	"github.com/goodfoods/concierge/src/store"
	"github.com/goodfoods/concierge/src/tools"
)

func newTestServer(t *testing.T, model models.ChatModel) http.Handler {
	t.Helper()

	s := store.NewInMemoryStore()
	err := s.SeedRestaurants(context.Background(), []domain.Restaurant{{
		ID: 1, Name: "Sea Breeze", Area: "Bandra", City: "Mumbai", Cuisine: "Italian",
		Features: []string{"rooftop"}, SeatingCapacity: 10,
		OpeningTime: "11:00", ClosingTime: "23:00",
	}})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	engine := booking.NewEngine(s)
	ranker := recommend.NewRanker(s, embed.DummyEmbedder{}, recommend.Options{})
	catalog, err := tools.NewCatalog(s, engine, ranker)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	agent, err := concierge.New(concierge.Options{Model: model, Catalog: catalog})
	if err != nil {
		t.Fatalf("agent: %v", err)
	}

	sessions := session.NewManager(concierge.DefaultSystemPrompt, 40, time.Hour)
	return NewServer(":0", agent, sessions, nil).routes()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, models.NewScriptedLLM())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestSessionAndMessageFlow(t *testing.T) {
	model := models.NewScriptedLLM(models.ChatMessage{Content: "Hi, I'm Sandra. Where would you like to eat?"})
	h := newTestServer(t, model)

	rec := postJSON(t, h, "/api/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status: %d", rec.Code)
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.SessionID == "" {
		t.Fatal("missing session id")
	}

	rec = postJSON(t, h, "/api/sessions/"+created.SessionID+"/messages", map[string]string{"message": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("message status: %d body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != created.SessionID {
		t.Fatalf("session id mismatch: %s vs %s", resp.SessionID, created.SessionID)
	}
	if resp.Reply == "" {
		t.Fatal("empty reply")
	}
}

func TestMessageValidation(t *testing.T) {
	h := newTestServer(t, models.NewScriptedLLM())

	rec := postJSON(t, h, "/api/sessions/abc/messages", map[string]string{"message": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank message: want 400, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/abc/messages", bytes.NewReader([]byte("{not json")))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("bad body: want 400, got %d", rec2.Code)
	}
}

func TestMessageDrivesToolCall(t *testing.T) {
	model := models.NewScriptedLLM(
		models.ChatMessage{ToolCalls: []models.ToolCall{{
			ID: "c1", Name: "search_restaurants",
			Arguments: map[string]any{"location": "Bandra"},
		}}},
		models.ChatMessage{Content: "Sea Breeze in Bandra looks great."},
	)
	h := newTestServer(t, model)

	rec := postJSON(t, h, "/api/sessions/s1/messages", map[string]string{"message": "anything in Bandra?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "Sea Breeze in Bandra looks great." {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
	if model.Calls != 2 {
		t.Fatalf("expected search round trip, calls=%d", model.Calls)
	}
}
