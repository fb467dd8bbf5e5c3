package domain

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Page is a page of list results. Listing endpoints answer either with a
// paginated envelope or with a bare array; both decode into a Page so the
// difference never leaves the decoding boundary.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type pageEnvelope[T any] struct {
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnmarshalJSON accepts `[...]` as well as `{count, next, previous, results}`.
// A bare array becomes a single page whose count is its length.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	if gjson.ParseBytes(data).IsArray() {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	count := len(env.Results)
	if env.Count != nil {
		count = *env.Count
	}
	*p = Page[T]{Count: count, Next: env.Next, Previous: env.Previous, Results: env.Results}
	if p.Results == nil {
		p.Results = []T{}
	}
	return nil
}

// HasNext reports whether the server advertised another page.
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}
