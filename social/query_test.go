package social_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-social-client/social"
	"github.com/stretchr/testify/require"
)

func TestQueryValues(t *testing.T) {
	tests := []struct {
		name  string
		query social.Query
		want  url.Values
	}{
		{name: "empty", query: social.Query{}, want: url.Values{}},
		{name: "search", query: social.Query{Search: "cats"}, want: url.Values{"search": {"cats"}}},
		{name: "owner", query: social.Query{OwnerProfile: 3}, want: url.Values{"owner__profile": {"3"}}},
		{name: "liked by", query: social.Query{LikedBy: 4}, want: url.Values{"likes__owner__profile": {"4"}}},
		{name: "feed", query: social.Query{FollowedBy: 5}, want: url.Values{"owner__followed__owner__profile": {"5"}}},
		{name: "followers of", query: social.Query{Following: 6}, want: url.Values{"owner__following__followed__profile": {"6"}}},
		{
			name:  "comments ordered",
			query: social.Query{Post: 7, Ordering: "-created_at"},
			want:  url.Values{"post": {"7"}, "ordering": {"-created_at"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.query.Values())
		})
	}
}
