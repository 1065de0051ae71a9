package social

import (
	"context"

	"github.com/jrsteele09/go-social-client/feed"
	"github.com/jrsteele09/go-social-client/internal/utils"
	"github.com/pkg/errors"
)

// The Apply functions fold the result of a mutation into an item the client
// already holds, so lists stay current without a reload.

func ApplyLike(p Post, like Like) Post {
	p.LikeID = utils.Ptr(like.ID)
	p.LikesCount++
	return p
}

func ApplyUnlike(p Post) Post {
	p.LikeID = nil
	if p.LikesCount > 0 {
		p.LikesCount--
	}
	return p
}

func ApplyBookmark(p Post, b Bookmark) Post {
	p.BookmarkID = utils.Ptr(b.ID)
	return p
}

func ApplyUnbookmark(p Post) Post {
	p.BookmarkID = nil
	return p
}

func ApplyCommentAdded(p Post) Post {
	p.CommentsCount++
	return p
}

func ApplyCommentRemoved(p Post) Post {
	if p.CommentsCount > 0 {
		p.CommentsCount--
	}
	return p
}

// ApplyFollow updates a held profile after the viewer followed f.Followed.
// The followed profile gains a follower; the viewer's own profile follows one
// more.
func ApplyFollow(p Profile, f Follower) Profile {
	switch {
	case p.ID == f.Followed:
		p.FollowingID = utils.Ptr(f.ID)
		p.FollowersCount++
	case p.IsOwner:
		p.FollowingCount++
	}
	return p
}

// ApplyUnfollow reverses ApplyFollow for the profile with id unfollowed.
func ApplyUnfollow(p Profile, unfollowed int) Profile {
	switch {
	case p.ID == unfollowed:
		p.FollowingID = nil
		if p.FollowersCount > 0 {
			p.FollowersCount--
		}
	case p.IsOwner:
		if p.FollowingCount > 0 {
			p.FollowingCount--
		}
	}
	return p
}

// ToggleLike likes or unlikes the held post with id and updates posts with
// the result.
func (s *Service) ToggleLike(ctx context.Context, posts *feed.List[Post], id int) error {
	post, ok := find(posts, id)
	if !ok {
		return errors.Errorf("[Service.ToggleLike] post %d not held", id)
	}
	if likeID, ok := utils.Lookup(post.LikeID); ok {
		if err := s.Unlike(ctx, likeID); err != nil {
			return err
		}
		posts.Update(id, ApplyUnlike)
		return nil
	}

	like, err := s.Like(ctx, id)
	if err != nil {
		return err
	}
	posts.Update(id, func(p Post) Post { return ApplyLike(p, like) })
	return nil
}

// ToggleBookmark bookmarks or un-bookmarks the held post with id.
func (s *Service) ToggleBookmark(ctx context.Context, posts *feed.List[Post], id int) error {
	post, ok := find(posts, id)
	if !ok {
		return errors.Errorf("[Service.ToggleBookmark] post %d not held", id)
	}
	if bookmarkID, ok := utils.Lookup(post.BookmarkID); ok {
		if err := s.RemoveBookmark(ctx, bookmarkID); err != nil {
			return err
		}
		posts.Update(id, ApplyUnbookmark)
		return nil
	}

	b, err := s.AddBookmark(ctx, id)
	if err != nil {
		return err
	}
	posts.Update(id, func(p Post) Post { return ApplyBookmark(p, b) })
	return nil
}

// ToggleFollow follows or unfollows the held profile with id. Every held
// profile is updated, so the viewer's own counts move as well.
func (s *Service) ToggleFollow(ctx context.Context, profiles *feed.List[Profile], id int) error {
	profile, ok := find(profiles, id)
	if !ok {
		return errors.Errorf("[Service.ToggleFollow] profile %d not held", id)
	}

	var apply func(Profile) Profile
	if followID, ok := utils.Lookup(profile.FollowingID); ok {
		if err := s.Unfollow(ctx, followID); err != nil {
			return err
		}
		apply = func(p Profile) Profile { return ApplyUnfollow(p, id) }
	} else {
		f, err := s.Follow(ctx, id)
		if err != nil {
			return err
		}
		apply = func(p Profile) Profile { return ApplyFollow(p, f) }
	}

	for _, p := range profiles.Snapshot().Page.Items {
		profiles.Update(p.ID, apply)
	}
	return nil
}

// AddComment creates a comment, puts it at the head of comments and bumps
// the comment count of its post in posts. Either list may be nil.
func (s *Service) AddComment(ctx context.Context, comments *feed.List[Comment], posts *feed.List[Post], in CommentInput) (Comment, error) {
	c, err := s.CreateComment(ctx, in)
	if err != nil {
		return Comment{}, err
	}
	if comments != nil {
		comments.Prepend(c)
	}
	if posts != nil {
		posts.Update(in.Post, ApplyCommentAdded)
	}
	return c, nil
}

// RemoveComment deletes a held comment and adjusts its post's count.
func (s *Service) RemoveComment(ctx context.Context, comments *feed.List[Comment], posts *feed.List[Post], id int) error {
	c, ok := find(comments, id)
	if !ok {
		return errors.Errorf("[Service.RemoveComment] comment %d not held", id)
	}
	if err := s.DeleteComment(ctx, id); err != nil {
		return err
	}
	comments.Remove(id)
	if posts != nil {
		posts.Update(c.Post, ApplyCommentRemoved)
	}
	return nil
}

func find[T feed.Keyed](l *feed.List[T], id int) (T, bool) {
	for _, item := range l.Snapshot().Page.Items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
