package social

import (
	"net/url"
	"strconv"
)

// Query holds the filter and search params of a list request. Zero fields are
// left out.
type Query struct {
	Search string
	// OwnerProfile limits results to items owned by this profile.
	OwnerProfile int
	// LikedBy limits posts to those liked by this profile.
	LikedBy int
	// FollowedBy limits posts or profiles to owners this profile follows.
	// On posts this is the personal feed.
	FollowedBy int
	// Following limits profiles to those that follow this profile.
	Following int
	Post      int
	Ordering  string
}

func (q Query) Values() url.Values {
	v := url.Values{}
	setString(v, "search", q.Search)
	setInt(v, "owner__profile", q.OwnerProfile)
	setInt(v, "likes__owner__profile", q.LikedBy)
	setInt(v, "owner__followed__owner__profile", q.FollowedBy)
	setInt(v, "owner__following__followed__profile", q.Following)
	setInt(v, "post", q.Post)
	setString(v, "ordering", q.Ordering)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value != 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
