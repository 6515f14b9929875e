package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeStrict rejects unknown fields, trailing data and anything the
// validator tags on out do not accept.
func decodeStrict(raw string, out interface{}) error {
	if err := decodeJSON(stripCodeFence(raw), out); err != nil {
		return err
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

func decodeJSON(body string, out interface{}) error {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: unexpected data after JSON value")
	}
	return nil
}

// decodeSuggestions accepts a bare array or {"suggestions": [...]}.
func decodeSuggestions(raw string) (*suggestionsWire, error) {
	body := stripCodeFence(raw)
	if !strings.HasPrefix(body, "[") {
		var wire suggestionsWire
		if err := decodeStrict(body, &wire); err != nil {
			return nil, err
		}
		return &wire, nil
	}

	var list []suggestionWire
	if err := decodeJSON(body, &list); err != nil {
		return nil, err
	}
	wire := &suggestionsWire{Suggestions: list}
	if err := validate.Struct(wire); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return wire, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even in
// JSON mode.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
