package server

import (
	"github.com/jrsteele09/go-social-client/content"
	"github.com/jrsteele09/go-social-client/session"
	"github.com/jrsteele09/go-social-client/social"
	"github.com/jrsteele09/go-social-client/users"
)

// The render helpers turn stored records into the wire types the client
// decodes, filling in the fields that depend on who is asking.

func (s *Server) renderUser(u *users.User) session.Session {
	sess := session.Session{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ProfileID: u.ID,
	}
	if p, err := s.content.GetProfile(u.ID); err == nil {
		sess.ProfileImage = p.Image
	}
	return sess
}

func (s *Server) renderPost(p *content.Post, viewerID int) social.Post {
	st := s.content.PostStats(p.ID, viewerID)
	out := social.Post{
		ID:            p.ID,
		Owner:         s.content.Owner(p.OwnerID),
		IsOwner:       viewerID != 0 && viewerID == p.OwnerID,
		ProfileID:     p.OwnerID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Title:         p.Title,
		Content:       p.Content,
		Image:         p.Image,
		LikeID:        st.LikeID,
		LikesCount:    st.Likes,
		CommentsCount: st.Comments,
		BookmarkID:    st.BookmarkID,
	}
	if owner, err := s.content.GetProfile(p.OwnerID); err == nil {
		out.ProfileImage = owner.Image
	}
	return out
}

func (s *Server) renderPosts(posts []*content.Post, viewerID int) []social.Post {
	out := make([]social.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, s.renderPost(p, viewerID))
	}
	return out
}

func (s *Server) renderComment(c *content.Comment, viewerID int) social.Comment {
	out := social.Comment{
		ID:        c.ID,
		Owner:     s.content.Owner(c.OwnerID),
		IsOwner:   viewerID != 0 && viewerID == c.OwnerID,
		ProfileID: c.OwnerID,
		Post:      c.PostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Content:   c.Content,
	}
	if owner, err := s.content.GetProfile(c.OwnerID); err == nil {
		out.ProfileImage = owner.Image
	}
	return out
}

func (s *Server) renderComments(comments []*content.Comment, viewerID int) []social.Comment {
	out := make([]social.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, s.renderComment(c, viewerID))
	}
	return out
}

func (s *Server) renderProfile(p *content.Profile, viewerID int) social.Profile {
	st := s.content.ProfileStats(p.ID, viewerID)
	return social.Profile{
		ID:             p.ID,
		Owner:          p.Owner,
		IsOwner:        viewerID != 0 && viewerID == p.ID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Name:           p.Name,
		Content:        p.Content,
		Image:          p.Image,
		FollowingID:    st.FollowingID,
		PostsCount:     st.Posts,
		FollowersCount: st.Followers,
		FollowingCount: st.Following,
	}
}

func (s *Server) renderProfiles(profiles []*content.Profile, viewerID int) []social.Profile {
	out := make([]social.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, s.renderProfile(p, viewerID))
	}
	return out
}

func (s *Server) renderLike(l *content.Like) social.Like {
	return social.Like{ID: l.ID, Owner: s.content.Owner(l.OwnerID), Post: l.PostID, CreatedAt: l.CreatedAt}
}

func (s *Server) renderFollow(f *content.Follow) social.Follower {
	return social.Follower{
		ID:           f.ID,
		Owner:        s.content.Owner(f.OwnerID),
		Followed:     f.FollowedID,
		FollowedName: s.content.Owner(f.FollowedID),
		CreatedAt:    f.CreatedAt,
	}
}

func (s *Server) renderBookmark(b *content.Bookmark) social.Bookmark {
	return social.Bookmark{ID: b.ID, Owner: s.content.Owner(b.OwnerID), Post: b.PostID, CreatedAt: b.CreatedAt}
}

func (s *Server) renderBookmarks(bookmarks []*content.Bookmark) []social.Bookmark {
	out := make([]social.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, s.renderBookmark(b))
	}
	return out
}
