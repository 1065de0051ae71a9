package content

import "github.com/jrsteele09/go-social-client/internal/utils"

// PostStats is the viewer-dependent part of a rendered post.
type PostStats struct {
	Likes      int
	Comments   int
	LikeID     *int // Viewer's like, if any
	BookmarkID *int // Viewer's bookmark, if any
}

// ProfileStats is the viewer-dependent part of a rendered profile.
type ProfileStats struct {
	Posts       int
	Followers   int
	Following   int
	FollowingID *int // Viewer's follow of this profile, if any
}

// PostStats counts likes and comments of postID and finds viewerID's like and
// bookmark. viewerID 0 is anonymous.
func (s *Store) PostStats(postID, viewerID int) PostStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st PostStats
	for _, l := range s.likes {
		if l.PostID == postID {
			st.Likes++
			if viewerID != 0 && l.OwnerID == viewerID {
				st.LikeID = utils.Ptr(l.ID)
			}
		}
	}
	for _, c := range s.comments {
		if c.PostID == postID {
			st.Comments++
		}
	}
	if viewerID != 0 {
		if b := s.findBookmark(viewerID, postID); b != nil {
			st.BookmarkID = utils.Ptr(b.ID)
		}
	}
	return st
}

func (s *Store) ProfileStats(profileID, viewerID int) ProfileStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st ProfileStats
	for _, p := range s.posts {
		if p.OwnerID == profileID {
			st.Posts++
		}
	}
	for _, f := range s.follows {
		if f.FollowedID == profileID {
			st.Followers++
			if viewerID != 0 && f.OwnerID == viewerID {
				st.FollowingID = utils.Ptr(f.ID)
			}
		}
		if f.OwnerID == profileID {
			st.Following++
		}
	}
	return st
}
