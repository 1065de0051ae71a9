// Package feed keeps cursor-paginated resource lists in sync with the server.
//
// A Page is one batch of items plus the cursor to the next batch. Merge
// appends a fetched page onto held results without duplicating items,
// Synchronizer fetches the next page, and List holds the state a view renders,
// including the debounced reload used for search-as-you-type.
package feed

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Keyed is anything with a dedup key.
type Keyed interface {
	Key() int
}

// Page is one response of a paginated list endpoint. Next is nil on the last page.
type Page[T Keyed] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Items    []T     `json:"results"`
}

// HasMore reports whether there is a page after this one.
func (p Page[T]) HasMore() bool {
	return p.Next != nil && *p.Next != ""
}

// Contains reports whether an item with key is held.
func (p Page[T]) Contains(key int) bool {
	for _, item := range p.Items {
		if item.Key() == key {
			return true
		}
	}
	return false
}

// Merge appends the items of fetched whose keys are not already in current,
// keeping fetched's order, and takes fetched's cursor. current is not modified.
func Merge[T Keyed](current, fetched Page[T]) Page[T] {
	seen := make(map[int]struct{}, len(current.Items)+len(fetched.Items))
	items := make([]T, 0, len(current.Items)+len(fetched.Items))
	for _, item := range current.Items {
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}
	for _, item := range fetched.Items {
		if _, dup := seen[item.Key()]; dup {
			continue
		}
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}

	return Page[T]{
		Count:    fetched.Count,
		Next:     fetched.Next,
		Previous: current.Previous,
		Items:    items,
	}
}

// Record is an item whose fields are passed through untouched apart from "id".
type Record struct {
	ID     int
	Fields map[string]json.RawMessage
}

func (r Record) Key() int {
	return r.ID
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["id"]
	if !ok {
		return errors.New("record has no id")
	}
	if err := json.Unmarshal(raw, &r.ID); err != nil {
		return errors.Wrap(err, "record id")
	}
	r.Fields = fields
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Fields)+1)
	for k, v := range r.Fields {
		fields[k] = v
	}
	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, err
	}
	fields["id"] = id
	return json.Marshal(fields)
}
