// Package parse recovers the structured field map from raw generation text,
// tolerating extraneous wrapping such as markdown fences or commentary.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/decklens/decklens/internal/domain"
)

// Fields extracts a loose field map from raw generation output.
// Stage 1 parses the whole text as JSON; stage 2 parses the first-{ to
// last-} span. Both failing yields domain.ErrUnparseableResponse carrying a
// truncated preview of the raw text.
func Fields(raw string) (map[string]string, error) {
	trimmed := strings.TrimSpace(raw)

	if fields, ok := decodeObject(trimmed); ok {
		return fields, nil
	}
	if fields, ok := parseBraceSpan(trimmed); ok {
		return fields, nil
	}
	return nil, domain.NewUnparseableResponse(raw)
}

// parseBraceSpan decodes the substring from the first opening brace to the
// last closing brace (greedy), the usual shape when the model wraps its JSON
// in prose or markdown fences.
func parseBraceSpan(text string) (map[string]string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	return decodeObject(text[start : end+1])
}

// decodeObject unmarshals a JSON object into a string field map. Non-string
// scalars are formatted; nested structures are dropped since the record
// schema is flat.
func decodeObject(text string) (map[string]string, bool) {
	var loose map[string]any
	if err := json.Unmarshal([]byte(text), &loose); err != nil {
		return nil, false
	}

	fields := make(map[string]string, len(loose))
	for k, v := range loose {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64, bool:
			fields[k] = fmt.Sprintf("%v", val)
		}
	}
	return fields, true
}
