// Package data defines the catalog entities, the drafts built from form
// input, and the rules those drafts are validated against.
package data

import (
	"encoding/json"
	"strconv"
)

// withURL marshals v with an extra "url" member. The value passed in must
// not carry a MarshalJSON method of its own.
func withURL(v any, url string) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, err
	}
	members["url"], err = json.Marshal(url)
	if err != nil {
		return nil, err
	}
	return json.Marshal(members)
}

// parseID parses a form-supplied record id. Ids start at 1.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
