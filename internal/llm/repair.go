package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
)

// RepairJSON tolerates the two most common model formatting mistakes:
// a fenced ```json code block around the object, and double-escaped
// newlines inside it. The cleaned text is then parsed as a generic
// object.
func RepairJSON(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, `\n`, " ")
	cleaned = strings.ReplaceAll(cleaned, `\r`, " ")

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, common.NewAppError("RESPONSE_FORMAT", "response is not valid JSON", common.ErrResponseFormat)
	}
	return data, nil
}

// EnsureRequired defaults any missing required key to the empty string
// so downstream consumers can rely on their presence.
func EnsureRequired(data map[string]any) {
	for _, key := range RequiredKeys {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
}
