// Package content is the sandbox's in-memory store of posts, comments, likes,
// follows, profiles and bookmarks.
package content

import "time"

// Profile is created alongside its user and shares the user's id.
type Profile struct {
	ID        int
	Owner     string // username
	Name      string
	Content   string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Post struct {
	ID        int
	OwnerID   int
	Title     string
	Content   string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        int
	OwnerID   int
	PostID    int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Like struct {
	ID        int
	OwnerID   int
	PostID    int
	CreatedAt time.Time
}

// Follow means OwnerID follows FollowedID.
type Follow struct {
	ID         int
	OwnerID    int
	FollowedID int
	CreatedAt  time.Time
}

type Bookmark struct {
	ID        int
	OwnerID   int
	PostID    int
	CreatedAt time.Time
}

// PostFilter narrows ListPosts. Zero fields are ignored.
type PostFilter struct {
	Search       string // Case-insensitive match on title or owner username
	OwnerProfile int
	LikedBy      int // Posts liked by this profile
	FollowedBy   int // Posts whose owner this profile follows
}

// ProfileFilter narrows ListProfiles. Zero fields are ignored.
type ProfileFilter struct {
	FollowedBy int // Profiles this profile follows
	Following  int // Profiles that follow this profile
}
