package ssg

import (
	"github.com/goccy/go-json"
)

// Discriminator tags appended to every cache key.
const (
	TagQuery         = "RPC_QUERY"
	TagInfiniteQuery = "RPC_INFINITE_QUERY"
)

// cursorField is the input field a paginated query pages by. It is left
// out of infinite-query keys so every page shares one cache entry.
const cursorField = "cursor"

// Key identifies a cache entry: [path, input, tag].
type Key []any

// QueryKey returns the key of a plain query. A nil input is kept as null.
func QueryKey(path string, input any) Key {
	return Key{path, input, TagQuery}
}

// InfiniteQueryKey returns the key of a paginated query. The input is
// normalized through its JSON form and its cursor field dropped.
func InfiniteQueryKey(path string, input any) (Key, error) {
	if input == nil {
		return Key{path, nil, TagInfiniteQuery}, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	if m, ok := normalized.(map[string]any); ok {
		delete(m, cursorField)
	}
	return Key{path, normalized, TagInfiniteQuery}, nil
}

// Hash returns the canonical JSON encoding of k. Map keys are sorted, so
// equal inputs hash equally regardless of construction order.
func (k Key) Hash() (string, error) {
	data, err := json.Marshal([]any(k))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
