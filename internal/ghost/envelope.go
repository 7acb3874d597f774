package ghost

import "encoding/json"

// Pagination mirrors meta.pagination of browse responses.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Next  int `json:"next"`
	Prev  int `json:"prev"`
}

// Summary describes a response for logging. The payload itself is never rewritten.
type Summary struct {
	Items      int
	Pagination *Pagination
}

// Summarize counts the items of resource in a response body and extracts
// pagination metadata when present. Settings responses count as one item.
func Summarize(resource Resource, raw json.RawMessage) (Summary, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Summary{}, err
	}

	var s Summary
	if body, ok := envelope[string(resource)]; ok {
		var items []json.RawMessage
		if json.Unmarshal(body, &items) == nil {
			s.Items = len(items)
		} else if string(body) != "null" {
			s.Items = 1
		}
	}

	if metaRaw, ok := envelope["meta"]; ok {
		var meta struct {
			Pagination *Pagination `json:"pagination"`
		}
		if json.Unmarshal(metaRaw, &meta) == nil {
			s.Pagination = meta.Pagination
		}
	}
	return s, nil
}
