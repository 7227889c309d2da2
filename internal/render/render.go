// Package render shapes assembled transcripts for display.
package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"

	"logpull/internal/model"
)

// Text joins raw event payloads, one per line, trimming surrounding
// whitespace from each message.
func Text(t model.Transcript) string {
	lines := make([]string, len(t))
	for i, e := range t {
		lines[i] = strings.TrimSpace(e.Message)
	}
	return strings.Join(lines, "\n")
}

// Timestamped renders one "RFC3339 message" line per event.
func Timestamped(t model.Transcript) string {
	var b strings.Builder
	for i, e := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
		b.WriteByte(' ')
		b.WriteString(strings.TrimSpace(e.Message))
	}
	return b.String()
}

// Project evaluates a JMESPath expression against each event's message
// (decoded as JSON if possible; otherwise wrapped as {"message": raw}) and
// returns the non-empty string representations, one per matching event.
// Array results use the first element only.
func Project(t model.Transcript, jmes string) ([]string, error) {
	var out []string
	for _, e := range t {
		var input any
		var decoded any
		if err := json.Unmarshal([]byte(e.Message), &decoded); err == nil {
			input = decoded
		} else {
			input = map[string]any{"message": e.Message}
		}

		res, err := jmespath.Search(jmes, input)
		if err != nil {
			return nil, fmt.Errorf("jmespath search failed: %w", err)
		}
		if s, ok := stringify(res); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func stringify(res any) (string, bool) {
	if arr, ok := res.([]any); ok {
		if len(arr) == 0 {
			return "", false
		}
		res = arr[0]
	}
	switch v := res.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		s := string(b)
		if s == "null" || s == "[]" || s == "{}" {
			return "", false
		}
		return s, true
	}
}
