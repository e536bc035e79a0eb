package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// envelope is the backend's wrapper around every response body.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    Message         `json:"message"`
	Error      string          `json:"error,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Message is the envelope's message, sent either as a string or a list of strings.
type Message []string

// UnmarshalJSON accepts "text", ["a","b"] and null.
func (m *Message) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = nil
		return nil
	}
	if b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*m = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*m = Message{s}
	return nil
}

// MarshalJSON emits a single string when there is exactly one message.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}
	return json.Marshal([]string(m))
}

func (m Message) String() string {
	return strings.Join(m, "; ")
}
