package tools

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/goodfoods/concierge/src/domain"
)

// decodeArgs maps raw model-supplied arguments into a typed argument
// struct. Type mismatches come back as validation errors rather than
// internal failures so the model can correct itself.
func decodeArgs(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return domain.Validationf("invalid arguments: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.Validationf("invalid arguments: %v", err)
	}
	return nil
}

// datetimeLayouts are accepted in argument order. Models usually emit bare
// ISO 8601 without a zone offset; such times are taken as local.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDatetime(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, domain.Validationf("%s is required", field)
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.Validationf("%s must be an ISO 8601 datetime (e.g. 2024-12-25T19:00:00), got %q", field, value)
}

func requireString(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.Validationf("%s is required", field)
	}
	return value, nil
}

func requirePositive(field string, value int) error {
	if value <= 0 {
		return domain.Validationf("%s must be a positive integer", field)
	}
	return nil
}

// payload renders a tool result document. Marshal failures surface as
// internal tool errors upstream.
func payload(v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
