package content

import (
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
)

type Store struct {
	mu        sync.RWMutex
	nextID    int
	profiles  map[int]*Profile
	posts     map[int]*Post
	comments  map[int]*Comment
	likes     map[int]*Like
	follows   map[int]*Follow
	bookmarks map[int]*Bookmark
	nowFunc   func() time.Time
}

type StoreOption func(*Store)

func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

func New(opts ...StoreOption) *Store {
	s := &Store{
		profiles:  make(map[int]*Profile),
		posts:     make(map[int]*Post),
		comments:  make(map[int]*Comment),
		likes:     make(map[int]*Like),
		follows:   make(map[int]*Follow),
		bookmarks: make(map[int]*Bookmark),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// id returns the next identifier. Every kind shares one sequence. Callers hold mu.
func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// Profiles

func (s *Store) CreateProfile(userID int, owner string) *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	p := &Profile{ID: userID, Owner: owner, CreatedAt: now, UpdatedAt: now}
	s.profiles[userID] = p
	copied := *p
	return &copied
}

func (s *Store) GetProfile(id int) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// UpdateProfile replaces the editable fields of the profile owned by ownerID.
func (s *Store) UpdateProfile(ownerID, id int, name, text, image string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if p.ID != ownerID {
		return nil, apperrors.ErrForbidden
	}
	p.Name = name
	p.Content = text
	if image != "" {
		p.Image = image
	}
	p.UpdatedAt = s.nowFunc()
	copied := *p
	return &copied, nil
}

// RenameOwner follows a username change onto the user's profile.
func (s *Store) RenameOwner(userID int, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		p.Owner = owner
	}
}

func (s *Store) ListProfiles(f ProfileFilter) []*Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if f.FollowedBy != 0 && s.findFollow(f.FollowedBy, p.ID) == nil {
			continue
		}
		if f.Following != 0 && s.findFollow(p.ID, f.Following) == nil {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func (s *Store) owner(id int) string {
	if p, ok := s.profiles[id]; ok {
		return p.Owner
	}
	return ""
}

// Owner returns the username behind profile id.
func (s *Store) Owner(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner(id)
}

// Posts

func (s *Store) CreatePost(ownerID int, title, text, image string) *Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	p := &Post{ID: s.id(), OwnerID: ownerID, Title: title, Content: text, Image: image, CreatedAt: now, UpdatedAt: now}
	s.posts[p.ID] = p
	copied := *p
	return &copied
}

func (s *Store) GetPost(id int) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *Store) UpdatePost(ownerID, id int, title, text, image string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if p.OwnerID != ownerID {
		return nil, apperrors.ErrForbidden
	}
	p.Title = title
	p.Content = text
	if image != "" {
		p.Image = image
	}
	p.UpdatedAt = s.nowFunc()
	copied := *p
	return &copied, nil
}

// DeletePost removes the post with its comments, likes and bookmarks.
func (s *Store) DeletePost(ownerID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if p.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	delete(s.posts, id)
	for k, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, k)
		}
	}
	for k, l := range s.likes {
		if l.PostID == id {
			delete(s.likes, k)
		}
	}
	for k, b := range s.bookmarks {
		if b.PostID == id {
			delete(s.bookmarks, k)
		}
	}
	return nil
}

func (s *Store) ListPosts(f PostFilter) []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.OwnerProfile != 0 && p.OwnerID != f.OwnerProfile {
			continue
		}
		if f.LikedBy != 0 && s.findLike(f.LikedBy, p.ID) == nil {
			continue
		}
		if f.FollowedBy != 0 && s.findFollow(f.FollowedBy, p.OwnerID) == nil {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(s.owner(p.OwnerID)), search) {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

// Comments

func (s *Store) CreateComment(ownerID, postID int, text string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	now := s.nowFunc()
	c := &Comment{ID: s.id(), OwnerID: ownerID, PostID: postID, Content: text, CreatedAt: now, UpdatedAt: now}
	s.comments[c.ID] = c
	copied := *c
	return &copied, nil
}

func (s *Store) GetComment(id int) (*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Store) UpdateComment(ownerID, id int, text string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if c.OwnerID != ownerID {
		return nil, apperrors.ErrForbidden
	}
	c.Content = text
	c.UpdatedAt = s.nowFunc()
	copied := *c
	return &copied, nil
}

func (s *Store) DeleteComment(ownerID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if c.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	delete(s.comments, id)
	return nil
}

// ListComments returns the comments of postID, or every comment when postID is 0.
func (s *Store) ListComments(postID int) []*Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Comment, 0)
	for _, c := range s.comments {
		if postID != 0 && c.PostID != postID {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

// Likes

func (s *Store) CreateLike(ownerID, postID int) (*Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	if s.findLike(ownerID, postID) != nil {
		return nil, apperrors.ErrConflict
	}
	l := &Like{ID: s.id(), OwnerID: ownerID, PostID: postID, CreatedAt: s.nowFunc()}
	s.likes[l.ID] = l
	copied := *l
	return &copied, nil
}

func (s *Store) DeleteLike(ownerID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.likes[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if l.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	delete(s.likes, id)
	return nil
}

func (s *Store) findLike(ownerID, postID int) *Like {
	for _, l := range s.likes {
		if l.OwnerID == ownerID && l.PostID == postID {
			return l
		}
	}
	return nil
}

// Follows

func (s *Store) CreateFollow(ownerID, followedID int) (*Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[followedID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	if ownerID == followedID || s.findFollow(ownerID, followedID) != nil {
		return nil, apperrors.ErrConflict
	}
	f := &Follow{ID: s.id(), OwnerID: ownerID, FollowedID: followedID, CreatedAt: s.nowFunc()}
	s.follows[f.ID] = f
	copied := *f
	return &copied, nil
}

func (s *Store) DeleteFollow(ownerID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.follows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if f.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	delete(s.follows, id)
	return nil
}

func (s *Store) findFollow(ownerID, followedID int) *Follow {
	for _, f := range s.follows {
		if f.OwnerID == ownerID && f.FollowedID == followedID {
			return f
		}
	}
	return nil
}

// Bookmarks

func (s *Store) CreateBookmark(ownerID, postID int) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	if s.findBookmark(ownerID, postID) != nil {
		return nil, apperrors.ErrConflict
	}
	b := &Bookmark{ID: s.id(), OwnerID: ownerID, PostID: postID, CreatedAt: s.nowFunc()}
	s.bookmarks[b.ID] = b
	copied := *b
	return &copied, nil
}

func (s *Store) DeleteBookmark(ownerID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if b.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	delete(s.bookmarks, id)
	return nil
}

// ListBookmarks returns the bookmarks of ownerID, newest first.
func (s *Store) ListBookmarks(ownerID int) []*Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.OwnerID != ownerID {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func (s *Store) findBookmark(ownerID, postID int) *Bookmark {
	for _, b := range s.bookmarks {
		if b.OwnerID == ownerID && b.PostID == postID {
			return b
		}
	}
	return nil
}

// newer orders by creation time, newest first, then by id.
func newer(a, b time.Time, aID, bID int) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}

func (s *Store) GetLike(id int) (*Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.likes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *Store) ListLikes() []*Like {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Like, 0, len(s.likes))
	for _, l := range s.likes {
		copied := *l
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func (s *Store) GetFollow(id int) (*Follow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.follows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (s *Store) ListFollows() []*Follow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Follow, 0, len(s.follows))
	for _, f := range s.follows {
		copied := *f
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func (s *Store) GetBookmark(id int) (*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}
