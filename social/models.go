// Package social is the typed resource layer over the social API: posts,
// comments, likes, follows, profiles and bookmarks.
package social

import "time"

type Post struct {
	ID            int       `json:"id"`
	Owner         string    `json:"owner"`
	IsOwner       bool      `json:"is_owner"`
	ProfileID     int       `json:"profile_id"`
	ProfileImage  string    `json:"profile_image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Image         string    `json:"image"`
	LikeID        *int      `json:"like_id"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	BookmarkID    *int      `json:"bookmark_id"`
}

func (p Post) Key() int { return p.ID }

type Comment struct {
	ID           int       `json:"id"`
	Owner        string    `json:"owner"`
	IsOwner      bool      `json:"is_owner"`
	ProfileID    int       `json:"profile_id"`
	ProfileImage string    `json:"profile_image"`
	Post         int       `json:"post"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Content      string    `json:"content"`
}

func (c Comment) Key() int { return c.ID }

type Profile struct {
	ID             int       `json:"id"`
	Owner          string    `json:"owner"`
	IsOwner        bool      `json:"is_owner"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Name           string    `json:"name"`
	Content        string    `json:"content"`
	Image          string    `json:"image"`
	FollowingID    *int      `json:"following_id"`
	PostsCount     int       `json:"posts_count"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
}

func (p Profile) Key() int { return p.ID }

type Like struct {
	ID        int       `json:"id"`
	Owner     string    `json:"owner"`
	Post      int       `json:"post"`
	CreatedAt time.Time `json:"created_at"`
}

// Follower is one follow relation: Owner follows the profile Followed.
type Follower struct {
	ID           int       `json:"id"`
	Owner        string    `json:"owner"`
	Followed     int       `json:"followed"`
	FollowedName string    `json:"followed_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Bookmark struct {
	ID        int       `json:"id"`
	Owner     string    `json:"owner"`
	Post      int       `json:"post"`
	CreatedAt time.Time `json:"created_at"`
}

func (b Bookmark) Key() int { return b.ID }

// PostInput is the editable part of a post. Image is optional.
type PostInput struct {
	Title     string
	Content   string
	Image     []byte
	ImageName string
}

type CommentInput struct {
	Post    int    `json:"post"`
	Content string `json:"content"`
}

// ProfileInput is the editable part of a profile. Image is optional.
type ProfileInput struct {
	Name      string
	Content   string
	Image     []byte
	ImageName string
}
