package generation

import (
	"encoding/json"
	"strings"
)

// decodeObject trims markdown fences some models wrap around JSON and checks
// that what remains is a JSON object.
func decodeObject(raw string) (json.RawMessage, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmptyResponse
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") || !json.Valid([]byte(s)) {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(s), nil
}
