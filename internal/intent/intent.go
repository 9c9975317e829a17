// Package intent turns a free-form search phrase into structured filters
// with a generative model.
package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Entity types the model is asked to extract.
const (
	EntityCategory = "category"
	EntitySource   = "source"
	EntityKeyword  = "keyword"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no content")

// Entity is one extracted value.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Intent is the model's reading of a search phrase.
type Intent struct {
	Intent   string   `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Values returns the trimmed, non-empty values of every entity of kind,
// in the order the model listed them.
func (i *Intent) Values(kind string) []string {
	var out []string
	for _, e := range i.Entities {
		if !strings.EqualFold(e.Type, kind) {
			continue
		}

		if v := strings.TrimSpace(e.Value); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// Decode parses model output. Models sometimes wrap JSON in a markdown
// code fence even when asked not to.
func Decode(text string) (*Intent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var in Intent
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &in); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	return &in, nil
}

// Prompt builds the routing prompt for query. categories lists the only
// category values the model may return.
func Prompt(query string, categories []string) string {
	return fmt.Sprintf(`You are a query router for a news API.
Extract:
- intent: one of ["category","source","search"]
- entities: list of objects, each with:
   { "type": "category|source|keyword", "value": "..." }

Rules:
- A category entity must be exactly one of: %s.
- If the user mentions multiple keywords joined with "and" or "or", split them into separate keyword entities.
- Example: "Bangladesh and India from News18" gives
  [
    { "type": "keyword", "value": "Bangladesh" },
    { "type": "keyword", "value": "India" },
    { "type": "source", "value": "News18" }
  ]

Return only valid JSON.
User query: %q`, strings.Join(categories, ", "), query)
}
