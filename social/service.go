package social

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-social-client/api"
	"github.com/jrsteele09/go-social-client/feed"
	"github.com/jrsteele09/go-social-client/internal/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	PostsPath          = "/posts/"
	CommentsPath       = "/comments/"
	LikesPath          = "/likes/"
	FollowersPath      = "/followers/"
	ProfilesPath       = "/profiles/"
	BookmarksPath      = "/bookmarks/"
	UserPath           = "/dj-rest-auth/user/"
	PasswordChangePath = "/dj-rest-auth/password/change/"
)

// Transport is the slice of *api.Client the service needs.
type Transport interface {
	feed.Getter
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
	PostMultipart(ctx context.Context, path string, form api.Form, out any) error
	PutMultipart(ctx context.Context, path string, form api.Form, out any) error
}

type Service struct {
	transport Transport
	log       zerolog.Logger
	metrics   *metrics.Client
	listOpts  []feed.Option
}

type ServiceOption func(*Service)

func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = l
	}
}

func WithMetrics(m *metrics.Client) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithListOptions adds feed options to every list the service creates.
func WithListOptions(opts ...feed.Option) ServiceOption {
	return func(s *Service) {
		s.listOpts = append(s.listOpts, opts...)
	}
}

func NewService(transport Transport, opts ...ServiceOption) (*Service, error) {
	if transport == nil {
		return nil, errors.New("[NewService] transport is required")
	}
	s := &Service{
		transport: transport,
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func detail(path string, id int) string {
	return fmt.Sprintf("%s%d/", path, id)
}

func (s *Service) listOptions(name string) []feed.Option {
	opts := []feed.Option{feed.WithLogger(s.log), feed.WithMetrics(s.metrics), feed.WithName(name)}
	return append(opts, s.listOpts...)
}

// Lists. Each returns an unloaded feed.List; call Reload to fetch page one.

func (s *Service) Posts(q Query) *feed.List[Post] {
	return feed.NewList[Post](s.transport, PostsPath, q.Values(), s.listOptions("posts")...)
}

func (s *Service) Comments(postID int) *feed.List[Comment] {
	return feed.NewList[Comment](s.transport, CommentsPath, Query{Post: postID}.Values(), s.listOptions("comments")...)
}

func (s *Service) Profiles(q Query) *feed.List[Profile] {
	return feed.NewList[Profile](s.transport, ProfilesPath, q.Values(), s.listOptions("profiles")...)
}

func (s *Service) Bookmarks(q Query) *feed.List[Bookmark] {
	return feed.NewList[Bookmark](s.transport, BookmarksPath, q.Values(), s.listOptions("bookmarks")...)
}

// Single page fetches.

func (s *Service) ListPosts(ctx context.Context, q Query) (feed.Page[Post], error) {
	return listPage[Post](ctx, s, PostsPath, q.Values())
}

func (s *Service) ListComments(ctx context.Context, postID int) (feed.Page[Comment], error) {
	return listPage[Comment](ctx, s, CommentsPath, Query{Post: postID}.Values())
}

func (s *Service) ListProfiles(ctx context.Context, q Query) (feed.Page[Profile], error) {
	return listPage[Profile](ctx, s, ProfilesPath, q.Values())
}

func (s *Service) ListBookmarks(ctx context.Context, q Query) (feed.Page[Bookmark], error) {
	return listPage[Bookmark](ctx, s, BookmarksPath, q.Values())
}

func listPage[T feed.Keyed](ctx context.Context, s *Service, path string, query url.Values) (feed.Page[T], error) {
	var page feed.Page[T]
	err := s.transport.Get(ctx, path, query, &page)
	s.metrics.Page("first", err)
	if err != nil {
		return feed.Page[T]{}, errors.Wrapf(err, "[Service.List] %s", path)
	}
	return page, nil
}

// Posts

func (s *Service) GetPost(ctx context.Context, id int) (Post, error) {
	var post Post
	if err := s.transport.Get(ctx, detail(PostsPath, id), nil, &post); err != nil {
		return Post{}, errors.Wrap(err, "[Service.GetPost]")
	}
	return post, nil
}

func (s *Service) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	var post Post
	if err := s.transport.PostMultipart(ctx, PostsPath, in.form(), &post); err != nil {
		return Post{}, errors.Wrap(err, "[Service.CreatePost]")
	}
	s.log.Info().Int("post", post.ID).Msg("post created")
	return post, nil
}

func (s *Service) UpdatePost(ctx context.Context, id int, in PostInput) (Post, error) {
	var post Post
	if err := s.transport.PutMultipart(ctx, detail(PostsPath, id), in.form(), &post); err != nil {
		return Post{}, errors.Wrap(err, "[Service.UpdatePost]")
	}
	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, id int) error {
	return errors.Wrap(s.transport.Delete(ctx, detail(PostsPath, id)), "[Service.DeletePost]")
}

func (in PostInput) form() api.Form {
	form := api.Form{Fields: map[string]string{"title": in.Title, "content": in.Content}}
	if len(in.Image) > 0 {
		form.Files = append(form.Files, api.FilePart{Field: "image", Filename: in.ImageName, Content: bytes.NewReader(in.Image)})
	}
	return form
}

// Comments

func (s *Service) CreateComment(ctx context.Context, in CommentInput) (Comment, error) {
	var comment Comment
	if err := s.transport.Post(ctx, CommentsPath, in, &comment); err != nil {
		return Comment{}, errors.Wrap(err, "[Service.CreateComment]")
	}
	return comment, nil
}

func (s *Service) UpdateComment(ctx context.Context, id int, content string) (Comment, error) {
	var comment Comment
	body := map[string]string{"content": content}
	if err := s.transport.Put(ctx, detail(CommentsPath, id), body, &comment); err != nil {
		return Comment{}, errors.Wrap(err, "[Service.UpdateComment]")
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, id int) error {
	return errors.Wrap(s.transport.Delete(ctx, detail(CommentsPath, id)), "[Service.DeleteComment]")
}

// Likes, follows and bookmarks

func (s *Service) Like(ctx context.Context, postID int) (Like, error) {
	var like Like
	if err := s.transport.Post(ctx, LikesPath, map[string]int{"post": postID}, &like); err != nil {
		return Like{}, errors.Wrap(err, "[Service.Like]")
	}
	return like, nil
}

func (s *Service) Unlike(ctx context.Context, likeID int) error {
	return errors.Wrap(s.transport.Delete(ctx, detail(LikesPath, likeID)), "[Service.Unlike]")
}

func (s *Service) Follow(ctx context.Context, profileID int) (Follower, error) {
	var f Follower
	if err := s.transport.Post(ctx, FollowersPath, map[string]int{"followed": profileID}, &f); err != nil {
		return Follower{}, errors.Wrap(err, "[Service.Follow]")
	}
	return f, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID int) error {
	return errors.Wrap(s.transport.Delete(ctx, detail(FollowersPath, followerID)), "[Service.Unfollow]")
}

func (s *Service) AddBookmark(ctx context.Context, postID int) (Bookmark, error) {
	var b Bookmark
	if err := s.transport.Post(ctx, BookmarksPath, map[string]int{"post": postID}, &b); err != nil {
		return Bookmark{}, errors.Wrap(err, "[Service.AddBookmark]")
	}
	return b, nil
}

func (s *Service) RemoveBookmark(ctx context.Context, bookmarkID int) error {
	return errors.Wrap(s.transport.Delete(ctx, detail(BookmarksPath, bookmarkID)), "[Service.RemoveBookmark]")
}

// Profiles and account

func (s *Service) GetProfile(ctx context.Context, id int) (Profile, error) {
	var p Profile
	if err := s.transport.Get(ctx, detail(ProfilesPath, id), nil, &p); err != nil {
		return Profile{}, errors.Wrap(err, "[Service.GetProfile]")
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int, in ProfileInput) (Profile, error) {
	form := api.Form{Fields: map[string]string{"name": in.Name, "content": in.Content}}
	if len(in.Image) > 0 {
		form.Files = append(form.Files, api.FilePart{Field: "image", Filename: in.ImageName, Content: bytes.NewReader(in.Image)})
	}
	var p Profile
	if err := s.transport.PutMultipart(ctx, detail(ProfilesPath, id), form, &p); err != nil {
		return Profile{}, errors.Wrap(err, "[Service.UpdateProfile]")
	}
	return p, nil
}

// ChangeUsername renames the signed-in user. The session store is not touched;
// callers re-probe to pick up the new name.
func (s *Service) ChangeUsername(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return errors.Wrap(s.transport.Put(ctx, UserPath, body, nil), "[Service.ChangeUsername]")
}

func (s *Service) ChangePassword(ctx context.Context, newPassword, confirm string) error {
	body := map[string]string{"new_password1": newPassword, "new_password2": confirm}
	return errors.Wrap(s.transport.Post(ctx, PasswordChangePath, body, nil), "[Service.ChangePassword]")
}
