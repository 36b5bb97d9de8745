package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the shape of plain confirmations and the 404 fallback.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// FlexString accepts a JSON string, number or bool and keeps its text.
// null and a missing key both decode to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool:
		*f = FlexString(data)
		return nil
	}
	return fmt.Errorf("expected a scalar, got %s", data)
}

func (f FlexString) String() string { return string(f) }
