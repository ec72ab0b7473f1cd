package session

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// IDKind names the entity class an identifier refers to.
type IDKind string

const (
	KindRestaurant  IDKind = "restaurant"
	KindReservation IDKind = "reservation"
)

// Ledger tracks which entity IDs the model is allowed to reference in tool
// arguments. An ID becomes known when a tool result carried it or when the
// user typed it; anything else is treated as hallucinated and rejected
// before the tool runs.
type Ledger struct {
	mu    sync.RWMutex
	known map[IDKind]map[int64]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{known: map[IDKind]map[int64]struct{}{
		KindRestaurant:  {},
		KindReservation: {},
	}}
}

func (l *Ledger) add(kind IDKind, id int64) {
	l.known[kind][id] = struct{}{}
}

// ObserveUserText records every integer token in the user's message. A
// number typed by the user is fair game for either entity class, the tool
// itself will report not-found if it does not exist.
func (l *Ledger) ObserveUserText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsDigit(r)
	}) {
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			continue
		}
		l.add(KindRestaurant, id)
		l.add(KindReservation, id)
	}
}

// ObserveToolResult walks a tool result payload and records the entity IDs
// it carries. It understands both entity objects (keyed "id" plus a
// discriminating field) and explicit *_id fields, at any nesting depth.
func (l *Ledger) ObserveToolResult(payload []byte) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.walk(v)
}

func (l *Ledger) walk(v any) {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := asID(t["restaurant_id"]); ok {
			l.add(KindRestaurant, id)
		}
		if id, ok := asID(t["reservation_id"]); ok {
			l.add(KindReservation, id)
		}
		if id, ok := asID(t["id"]); ok {
			switch {
			case isReservationObject(t):
				l.add(KindReservation, id)
			default:
				l.add(KindRestaurant, id)
			}
		}
		for _, child := range t {
			l.walk(child)
		}
	case []any:
		for _, child := range t {
			l.walk(child)
		}
	}
}

func isReservationObject(m map[string]any) bool {
	_, hasStatus := m["status"]
	_, hasParty := m["party_size"]
	return hasStatus && hasParty
}

func asID(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err == nil {
			return id, true
		}
	}
	return 0, false
}

// Allows reports whether the ledger has seen id for the given kind.
func (l *Ledger) Allows(kind IDKind, id int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.known[kind][id]
	return ok
}
