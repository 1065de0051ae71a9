package server

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jrsteele09/go-social-client/social"
)

// Lists arrive newest first. An ?ordering= param re-sorts them on one of the
// count fields; a leading "-" sorts descending. Unknown fields are ignored.

var postOrderings = map[string]func(a, b social.Post) int{
	"created_at":     func(a, b social.Post) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"likes_count":    func(a, b social.Post) int { return cmp.Compare(a.LikesCount, b.LikesCount) },
	"comments_count": func(a, b social.Post) int { return cmp.Compare(a.CommentsCount, b.CommentsCount) },
}

var profileOrderings = map[string]func(a, b social.Profile) int{
	"created_at":      func(a, b social.Profile) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"posts_count":     func(a, b social.Profile) int { return cmp.Compare(a.PostsCount, b.PostsCount) },
	"followers_count": func(a, b social.Profile) int { return cmp.Compare(a.FollowersCount, b.FollowersCount) },
	"following_count": func(a, b social.Profile) int { return cmp.Compare(a.FollowingCount, b.FollowingCount) },
}

func order[T any](items []T, ordering string, fields map[string]func(a, b T) int) {
	desc := strings.HasPrefix(ordering, "-")
	compare, ok := fields[strings.TrimPrefix(ordering, "-")]
	if !ok {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}
