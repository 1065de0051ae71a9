package social_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-social-client/api"
	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/jrsteele09/go-social-client/server"
	"github.com/jrsteele09/go-social-client/session"
	"github.com/jrsteele09/go-social-client/social"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	alicePassword = "wonderland42"
	bobPassword   = "builder4you"
)

type testFixture struct {
	sandbox *server.Server
	baseURL string
	ids     map[string]int
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	sandbox, err := server.New(config.New(), server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	ids, err := sandbox.Seed(
		server.SeedUser{Username: "alice", Password: alicePassword, Name: "Alice"},
		server.SeedUser{Username: "bob", Password: bobPassword, Name: "Bob"},
	)
	require.NoError(t, err)

	ts := httptest.NewServer(sandbox)
	t.Cleanup(ts.Close)
	return &testFixture{
		sandbox: sandbox,
		baseURL: ts.URL,
		ids:     map[string]int{"alice": ids[0], "bob": ids[1]},
	}
}

// actor is one signed-in client of the sandbox.
type actor struct {
	client  *api.Client
	manager *session.Manager
	social  *social.Service
}

func (f *testFixture) signIn(t *testing.T, username, password string) *actor {
	t.Helper()
	client, err := api.New(f.baseURL, api.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	manager, err := session.NewManager(client, session.NewStore(session.WithStoreLogger(zerolog.Nop())), session.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	binding := session.Bind(client, manager)
	t.Cleanup(binding.Close)

	_, err = manager.Login(context.Background(), username, password)
	require.NoError(t, err)

	svc, err := social.NewService(client, social.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return &actor{client: client, manager: manager, social: svc}
}

func TestNewServiceRequiresTransport(t *testing.T) {
	_, err := social.NewService(nil)
	require.Error(t, err)
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	alice := f.signIn(t, "alice", alicePassword)
	bob := f.signIn(t, "bob", bobPassword)

	post, err := alice.social.CreatePost(ctx, social.PostInput{
		Title:     "Sunset",
		Content:   "over the bay",
		Image:     []byte("\x89PNG\r\n\x1a\nfake"),
		ImageName: "sunset.png",
	})
	require.NoError(t, err)
	require.Equal(t, "Sunset", post.Title)
	require.Equal(t, "alice", post.Owner)
	require.True(t, post.IsOwner)
	require.Equal(t, f.ids["alice"], post.ProfileID)
	require.NotEmpty(t, post.Image)

	resp, err := http.Get(post.Image)
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "\x89PNG\r\n\x1a\nfake", string(data))

	t.Run("others see it but do not own it", func(t *testing.T) {
		seen, err := bob.social.GetPost(ctx, post.ID)
		require.NoError(t, err)
		require.False(t, seen.IsOwner)
		require.Equal(t, post.Image, seen.Image)
	})

	t.Run("only the owner may edit", func(t *testing.T) {
		_, err := bob.social.UpdatePost(ctx, post.ID, social.PostInput{Title: "mine now"})
		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

		updated, err := alice.social.UpdatePost(ctx, post.ID, social.PostInput{Title: "Sunrise", Content: "over the bay"})
		require.NoError(t, err)
		require.Equal(t, "Sunrise", updated.Title)
		require.Equal(t, post.Image, updated.Image, "no new image keeps the old one")
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		_, err := alice.social.CreatePost(ctx, social.PostInput{Title: "  "})
		fields, ok := api.ValidationErrors(err)
		require.True(t, ok)
		require.Contains(t, fields, "title")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, alice.social.DeletePost(ctx, post.ID))
		_, err := bob.social.GetPost(ctx, post.ID)
		require.True(t, api.IsNotFound(err))
	})
}

func TestListsFilterAndPaginate(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	alice := f.signIn(t, "alice", alicePassword)
	bob := f.signIn(t, "bob", bobPassword)

	for i := 0; i < 12; i++ {
		_, err := alice.social.CreatePost(ctx, social.PostInput{Title: "alice post"})
		require.NoError(t, err)
	}
	bobPost, err := bob.social.CreatePost(ctx, social.PostInput{Title: "bob's cats"})
	require.NoError(t, err)

	posts := bob.social.Posts(social.Query{OwnerProfile: f.ids["alice"]})
	defer posts.Close()
	require.NoError(t, posts.Reload(ctx, nil))
	snap := posts.Snapshot()
	require.Equal(t, 12, snap.Page.Count)
	require.Len(t, snap.Page.Items, 10)
	require.True(t, snap.Page.HasMore())

	require.NoError(t, posts.LoadMore(ctx))
	snap = posts.Snapshot()
	require.Len(t, snap.Page.Items, 12)
	require.False(t, snap.Page.HasMore())

	page, err := alice.social.ListPosts(ctx, social.Query{Search: "cats"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, bobPost.ID, page.Items[0].ID)

	t.Run("personal feed follows the followed", func(t *testing.T) {
		_, err := bob.social.Follow(ctx, f.ids["alice"])
		require.NoError(t, err)

		feed, err := bob.social.ListPosts(ctx, social.Query{FollowedBy: f.ids["bob"]})
		require.NoError(t, err)
		require.Equal(t, 12, feed.Count)

		empty, err := alice.social.ListPosts(ctx, social.Query{FollowedBy: f.ids["alice"]})
		require.NoError(t, err)
		require.Zero(t, empty.Count)
		require.NotNil(t, empty.Items)
	})

	t.Run("profiles ordered by followers", func(t *testing.T) {
		profiles, err := bob.social.ListProfiles(ctx, social.Query{Ordering: "-followers_count"})
		require.NoError(t, err)
		require.Len(t, profiles.Items, 2)
		require.Equal(t, f.ids["alice"], profiles.Items[0].ID)
		require.Equal(t, 1, profiles.Items[0].FollowersCount)
	})
}

func TestToggleHelpers(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	alice := f.signIn(t, "alice", alicePassword)
	bob := f.signIn(t, "bob", bobPassword)

	post, err := alice.social.CreatePost(ctx, social.PostInput{Title: "hello"})
	require.NoError(t, err)

	posts := bob.social.Posts(social.Query{})
	defer posts.Close()
	require.NoError(t, posts.Reload(ctx, nil))

	held := func() social.Post {
		for _, p := range posts.Snapshot().Page.Items {
			if p.ID == post.ID {
				return p
			}
		}
		t.Fatalf("post %d not held", post.ID)
		return social.Post{}
	}

	t.Run("like and unlike", func(t *testing.T) {
		require.NoError(t, bob.social.ToggleLike(ctx, posts, post.ID))
		require.NotNil(t, held().LikeID)
		require.Equal(t, 1, held().LikesCount)

		fresh, err := bob.social.GetPost(ctx, post.ID)
		require.NoError(t, err)
		require.Equal(t, held().LikeID, fresh.LikeID, "local state matches the server")

		require.NoError(t, bob.social.ToggleLike(ctx, posts, post.ID))
		require.Nil(t, held().LikeID)
		require.Zero(t, held().LikesCount)
	})

	t.Run("duplicate like is rejected", func(t *testing.T) {
		_, err := bob.social.Like(ctx, post.ID)
		require.NoError(t, err)
		_, err = bob.social.Like(ctx, post.ID)
		require.Error(t, err)
	})

	t.Run("bookmark", func(t *testing.T) {
		require.NoError(t, bob.social.ToggleBookmark(ctx, posts, post.ID))
		require.NotNil(t, held().BookmarkID)

		saved, err := bob.social.ListBookmarks(ctx, social.Query{})
		require.NoError(t, err)
		require.Len(t, saved.Items, 1)
		require.Equal(t, post.ID, saved.Items[0].Post)

		none, err := alice.social.ListBookmarks(ctx, social.Query{})
		require.NoError(t, err)
		require.Empty(t, none.Items, "bookmarks are private")

		require.NoError(t, bob.social.ToggleBookmark(ctx, posts, post.ID))
		require.Nil(t, held().BookmarkID)
	})

	t.Run("comments keep the post count in step", func(t *testing.T) {
		comments := bob.social.Comments(post.ID)
		defer comments.Close()
		require.NoError(t, comments.Reload(ctx, nil))

		c, err := bob.social.AddComment(ctx, comments, posts, social.CommentInput{Post: post.ID, Content: "nice"})
		require.NoError(t, err)
		require.Equal(t, 1, held().CommentsCount)
		require.Equal(t, []int{c.ID}, commentIDs(comments.Snapshot().Page.Items))

		edited, err := bob.social.UpdateComment(ctx, c.ID, "very nice")
		require.NoError(t, err)
		require.Equal(t, "very nice", edited.Content)

		_, err = alice.social.UpdateComment(ctx, c.ID, "not yours")
		require.Error(t, err)

		require.NoError(t, bob.social.RemoveComment(ctx, comments, posts, c.ID))
		require.Zero(t, held().CommentsCount)
		require.Empty(t, comments.Snapshot().Page.Items)
	})

	t.Run("toggle needs the item held", func(t *testing.T) {
		require.Error(t, bob.social.ToggleLike(ctx, posts, 99999))
	})
}

func TestToggleFollowUpdatesBothProfiles(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	bob := f.signIn(t, "bob", bobPassword)

	profiles := bob.social.Profiles(social.Query{})
	defer profiles.Close()
	require.NoError(t, profiles.Reload(ctx, nil))

	profile := func(id int) social.Profile {
		for _, p := range profiles.Snapshot().Page.Items {
			if p.ID == id {
				return p
			}
		}
		t.Fatalf("profile %d not held", id)
		return social.Profile{}
	}

	require.NoError(t, bob.social.ToggleFollow(ctx, profiles, f.ids["alice"]))
	require.NotNil(t, profile(f.ids["alice"]).FollowingID)
	require.Equal(t, 1, profile(f.ids["alice"]).FollowersCount)
	require.Equal(t, 1, profile(f.ids["bob"]).FollowingCount)

	fresh, err := bob.social.GetProfile(ctx, f.ids["bob"])
	require.NoError(t, err)
	require.Equal(t, 1, fresh.FollowingCount)

	require.NoError(t, bob.social.ToggleFollow(ctx, profiles, f.ids["alice"]))
	require.Nil(t, profile(f.ids["alice"]).FollowingID)
	require.Zero(t, profile(f.ids["alice"]).FollowersCount)
	require.Zero(t, profile(f.ids["bob"]).FollowingCount)
}

func TestProfileAndAccount(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t)
	alice := f.signIn(t, "alice", alicePassword)

	updated, err := alice.social.UpdateProfile(ctx, f.ids["alice"], social.ProfileInput{
		Name:      "Alice L.",
		Content:   "curiouser and curiouser",
		Image:     []byte("GIF89a"),
		ImageName: "me.gif",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice L.", updated.Name)
	require.NotEmpty(t, updated.Image)

	_, err = alice.social.UpdateProfile(ctx, f.ids["bob"], social.ProfileInput{Name: "hacked"})
	require.Error(t, err)

	require.NoError(t, alice.social.ChangeUsername(ctx, "alice2"))
	s, ok := alice.manager.Probe(ctx)
	require.True(t, ok)
	require.Equal(t, "alice2", s.Username)

	err = alice.social.ChangePassword(ctx, "newpassword1", "newpassword2")
	_, ok = api.ValidationErrors(err)
	require.True(t, ok)

	require.NoError(t, alice.social.ChangePassword(ctx, "looking4glass", "looking4glass"))
	_, ok = alice.manager.Probe(ctx)
	require.True(t, ok, "the caller keeps a working session")

	again := f.signIn(t, "alice2", "looking4glass")
	_, ok = again.manager.Probe(ctx)
	require.True(t, ok)
}

func commentIDs(comments []social.Comment) []int {
	out := make([]int, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}
