package assistant

import (
	"bytes"
	"encoding/json"
	"strings"
)

// cleanModelJSON strips Markdown code fences and any junk around the JSON
// object when the model ignores the "raw JSON only" instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// decodeStrict parses a completion into v after fence stripping, rejecting
// unknown keys. A failure comes back as an InterpretationError carrying the
// raw completion for diagnostics; v is never partially populated past an
// error.
func decodeStrict(raw string, v any) error {
	clean := cleanModelJSON(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &InterpretationError{
			Reason: "completion is not the requested JSON object: " + err.Error(),
			Raw:    raw,
		}
	}

	// Trailing content after the object is as suspect as a malformed one.
	if dec.More() {
		return &InterpretationError{
			Reason: "completion contains trailing content after the JSON object",
			Raw:    raw,
		}
	}

	return nil
}
