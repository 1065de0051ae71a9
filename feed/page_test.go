package feed_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-social-client/feed"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		current  feed.Page[item]
		fetched  feed.Page[item]
		expected []int
		next     bool
	}{
		{
			name:     "disjoint pages append in order",
			current:  page("c2", 1, 2, 3),
			fetched:  page("c3", 4, 5, 6),
			expected: []int{1, 2, 3, 4, 5, 6},
			next:     true,
		},
		{
			name:     "overlap is dropped",
			current:  page("c2", 1, 2, 3),
			fetched:  page("", 3, 4, 5),
			expected: []int{1, 2, 3, 4, 5},
		},
		{
			name:     "fetched page fully held",
			current:  page("c2", 1, 2),
			fetched:  page("", 2, 1),
			expected: []int{1, 2},
		},
		{
			name:     "empty current",
			current:  page(""),
			fetched:  page("c2", 7, 8),
			expected: []int{7, 8},
			next:     true,
		},
		{
			name:     "duplicates inside the fetched page",
			current:  page("c2", 1),
			fetched:  page("", 2, 2, 3),
			expected: []int{1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ids(tt.current.Items)
			merged := feed.Merge(tt.current, tt.fetched)

			require.Equal(t, tt.expected, ids(merged.Items))
			require.Equal(t, tt.next, merged.HasMore())
			require.Equal(t, tt.fetched.Next, merged.Next)
			require.Equal(t, before, ids(tt.current.Items), "current must not change")
		})
	}
}

func TestMergeKeepsKeysUnique(t *testing.T) {
	current := page("c2", 5, 1, 9)
	fetched := page("", 9, 2, 5, 3, 1)

	merged := feed.Merge(current, fetched)

	seen := map[int]bool{}
	for _, i := range merged.Items {
		require.False(t, seen[i.ID], "duplicate key %d", i.ID)
		seen[i.ID] = true
	}
	require.Equal(t, []int{5, 1, 9, 2, 3}, ids(merged.Items))
}

func TestMergeRepeatedPage(t *testing.T) {
	t.Run("overlapping next page", func(t *testing.T) {
		merged := feed.Merge(page("c2", 1, 2), page("c3", 2, 3))

		require.Equal(t, []int{1, 2, 3}, ids(merged.Items))
		require.Equal(t, "c3", *merged.Next)
	})

	t.Run("merging the same page twice changes nothing", func(t *testing.T) {
		held := page("c2", 1, 2, 3)
		fetched := page("c3", 3, 4, 5)

		once := feed.Merge(held, fetched)
		twice := feed.Merge(once, fetched)

		require.Equal(t, once, twice)
		require.Equal(t, []int{1, 2, 3, 4, 5}, ids(twice.Items))
	})
}

func TestPageDecodesListEnvelope(t *testing.T) {
	body := `{"count": 12, "next": "http://api/posts/?page=2", "previous": null,
		"results": [{"id": 1, "text": "a"}, {"id": 2, "text": "b"}]}`

	var p feed.Page[item]
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	require.Equal(t, 12, p.Count)
	require.True(t, p.HasMore())
	require.Equal(t, "http://api/posts/?page=2", *p.Next)
	require.Nil(t, p.Previous)
	require.Equal(t, []int{1, 2}, ids(p.Items))
	require.True(t, p.Contains(2))
	require.False(t, p.Contains(3))
}

func TestRecordRoundTrip(t *testing.T) {
	var r feed.Record
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "owner": "alice", "likes_count": 3}`), &r))
	require.Equal(t, 42, r.Key())
	require.JSONEq(t, `"alice"`, string(r.Fields["owner"]))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"id": 42, "owner": "alice", "likes_count": 3}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"owner": "bob"}`), &r))
}
