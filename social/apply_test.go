package social_test

import (
	"testing"

	"github.com/jrsteele09/go-social-client/social"
	"github.com/stretchr/testify/require"
)

func TestApplyPostMutations(t *testing.T) {
	post := social.Post{ID: 1, LikesCount: 2, CommentsCount: 1}

	liked := social.ApplyLike(post, social.Like{ID: 40, Post: 1})
	require.NotNil(t, liked.LikeID)
	require.Equal(t, 40, *liked.LikeID)
	require.Equal(t, 3, liked.LikesCount)
	require.Nil(t, post.LikeID, "the input is not modified")

	unliked := social.ApplyUnlike(liked)
	require.Nil(t, unliked.LikeID)
	require.Equal(t, 2, unliked.LikesCount)
	require.Zero(t, social.ApplyUnlike(social.Post{}).LikesCount, "counts never go negative")

	saved := social.ApplyBookmark(post, social.Bookmark{ID: 9})
	require.NotNil(t, saved.BookmarkID)
	require.Equal(t, 9, *saved.BookmarkID)
	require.Nil(t, social.ApplyUnbookmark(saved).BookmarkID)

	require.Equal(t, 2, social.ApplyCommentAdded(post).CommentsCount)
	require.Equal(t, 0, social.ApplyCommentRemoved(post).CommentsCount)
	require.Equal(t, 0, social.ApplyCommentRemoved(social.Post{}).CommentsCount)
}

func TestApplyFollow(t *testing.T) {
	me := social.Profile{ID: 1, IsOwner: true, FollowingCount: 2}
	them := social.Profile{ID: 2, FollowersCount: 5}
	other := social.Profile{ID: 3, FollowersCount: 1}
	follow := social.Follower{ID: 77, Followed: 2}

	followedThem := social.ApplyFollow(them, follow)
	require.NotNil(t, followedThem.FollowingID)
	require.Equal(t, 77, *followedThem.FollowingID)
	require.Equal(t, 6, followedThem.FollowersCount)

	require.Equal(t, 3, social.ApplyFollow(me, follow).FollowingCount)
	require.Equal(t, other, social.ApplyFollow(other, follow))

	unfollowed := social.ApplyUnfollow(followedThem, 2)
	require.Nil(t, unfollowed.FollowingID)
	require.Equal(t, 5, unfollowed.FollowersCount)
	require.Equal(t, 1, social.ApplyUnfollow(me, 2).FollowingCount)
	require.Equal(t, other, social.ApplyUnfollow(other, 2))
}
