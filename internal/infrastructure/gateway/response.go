package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/orderdesk/orderdesk/internal/core/domain"
)

// messageKeys are tried in order when looking for a human-readable message in
// an error body.
var messageKeys = []string{"message", "detail", "error"}

type response struct {
	status     int
	statusText string
	body       []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r *response) err() error {
	return &domain.APIError{
		Status:  r.status,
		Message: errorMessage(r.body, r.statusText, r.status),
		Body:    r.body,
	}
}

// decode fails with an APIError on a non-success status. A 204, an empty body
// or a nil out yields success without parsing.
func (r *response) decode(out any) error {
	if !r.ok() {
		return r.err()
	}
	if out == nil || r.status == http.StatusNoContent || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts a message from a JSON error body. Field validation
// errors ({"title": ["This field is required."]}) yield "title: ...".
// Non-JSON bodies fall back to the status text.
func errorMessage(body []byte, statusText string, status int) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		for _, key := range messageKeys {
			if v := parsed.Get(key); v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
		if msg := fieldMessage(parsed); msg != "" {
			return msg
		}
	}
	if statusText != "" {
		return statusText
	}
	return fmt.Sprintf("HTTP %d", status)
}

func fieldMessage(parsed gjson.Result) string {
	if !parsed.IsObject() {
		return ""
	}
	var msg string
	parsed.ForEach(func(key, value gjson.Result) bool {
		first := value
		if value.IsArray() {
			first = value.Get("0")
		}
		if first.Type != gjson.String || first.String() == "" {
			return true
		}
		if key.String() == "non_field_errors" {
			msg = first.String()
		} else {
			msg = key.String() + ": " + first.String()
		}
		return false
	})
	return strings.TrimSpace(msg)
}
