package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-social-client/content"
)

func (s *Server) pageSize() int {
	return s.config.GetPageSize()
}

// Posts

func (s *Server) PostsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		posts := s.content.ListPosts(content.PostFilter{
			Search:       q.Get("search"),
			OwnerProfile: queryInt(r, "owner__profile"),
			LikedBy:      queryInt(r, "likes__owner__profile"),
			FollowedBy:   queryInt(r, "owner__followed__owner__profile"),
		})
		rendered := s.renderPosts(posts, viewerID(r))
		order(rendered, q.Get("ordering"), postOrderings)
		writePage(w, r, rendered, s.pageSize())
	}
}

func (s *Server) PostCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		title := strings.TrimSpace(f.get("title"))
		if title == "" {
			writeFieldErrors(w, fieldErrors{"title": {msgBlank}})
			return
		}
		post := s.content.CreatePost(viewerID(r), title, f.get("content"), s.imageFrom(r, f))
		writeJSON(w, http.StatusCreated, s.renderPost(post, viewerID(r)))
	}
}

func (s *Server) PostDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := s.content.GetPost(pathID(r))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderPost(post, viewerID(r)))
	}
}

func (s *Server) PostUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		title := strings.TrimSpace(f.get("title"))
		if title == "" {
			writeFieldErrors(w, fieldErrors{"title": {msgBlank}})
			return
		}
		post, err := s.content.UpdatePost(viewerID(r), pathID(r), title, f.get("content"), s.imageFrom(r, f))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderPost(post, viewerID(r)))
	}
}

func (s *Server) PostDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.DeletePost(viewerID(r), pathID(r)); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Comments

func (s *Server) CommentsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments := s.content.ListComments(queryInt(r, "post"))
		writePage(w, r, s.renderComments(comments, viewerID(r)), s.pageSize())
	}
}

func (s *Server) CommentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		errs := fieldErrors{}
		postID, hasPost := f.intValue("post")
		if !hasPost {
			errs.add("post", msgRequired)
		}
		text := strings.TrimSpace(f.get("content"))
		if text == "" {
			errs.add("content", msgBlank)
		}
		if len(errs) > 0 {
			writeFieldErrors(w, errs)
			return
		}

		comment, err := s.content.CreateComment(viewerID(r), postID, text)
		if err != nil {
			writeFieldErrors(w, fieldErrors{"post": {"Invalid pk - object does not exist."}})
			return
		}
		writeJSON(w, http.StatusCreated, s.renderComment(comment, viewerID(r)))
	}
}

func (s *Server) CommentDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, err := s.content.GetComment(pathID(r))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderComment(comment, viewerID(r)))
	}
}

func (s *Server) CommentUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		text := strings.TrimSpace(f.get("content"))
		if text == "" {
			writeFieldErrors(w, fieldErrors{"content": {msgBlank}})
			return
		}
		comment, err := s.content.UpdateComment(viewerID(r), pathID(r), text)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderComment(comment, viewerID(r)))
	}
}

func (s *Server) CommentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.DeleteComment(viewerID(r), pathID(r)); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Likes

func (s *Server) LikesListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		likes := s.content.ListLikes()
		out := make([]any, 0, len(likes))
		for _, l := range likes {
			out = append(out, s.renderLike(l))
		}
		writePage(w, r, out, s.pageSize())
	}
}

func (s *Server) LikeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		postID, hasPost := f.intValue("post")
		if !hasPost {
			writeFieldErrors(w, fieldErrors{"post": {msgRequired}})
			return
		}
		like, err := s.content.CreateLike(viewerID(r), postID)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.renderLike(like))
	}
}

func (s *Server) LikeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		like, err := s.content.GetLike(pathID(r))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderLike(like))
	}
}

func (s *Server) LikeDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.DeleteLike(viewerID(r), pathID(r)); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Followers

func (s *Server) FollowersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		follows := s.content.ListFollows()
		out := make([]any, 0, len(follows))
		for _, f := range follows {
			out = append(out, s.renderFollow(f))
		}
		writePage(w, r, out, s.pageSize())
	}
}

func (s *Server) FollowCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		followed, hasFollowed := f.intValue("followed")
		if !hasFollowed {
			writeFieldErrors(w, fieldErrors{"followed": {msgRequired}})
			return
		}
		follow, err := s.content.CreateFollow(viewerID(r), followed)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.renderFollow(follow))
	}
}

func (s *Server) FollowDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		follow, err := s.content.GetFollow(pathID(r))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderFollow(follow))
	}
}

func (s *Server) FollowDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.DeleteFollow(viewerID(r), pathID(r)); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Profiles

func (s *Server) ProfilesListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles := s.content.ListProfiles(content.ProfileFilter{
			FollowedBy: queryInt(r, "owner__followed__owner__profile"),
			Following:  queryInt(r, "owner__following__followed__profile"),
		})
		rendered := s.renderProfiles(profiles, viewerID(r))
		order(rendered, r.URL.Query().Get("ordering"), profileOrderings)
		writePage(w, r, rendered, s.pageSize())
	}
}

func (s *Server) ProfileDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.content.GetProfile(pathID(r))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderProfile(profile, viewerID(r)))
	}
}

func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		profile, err := s.content.UpdateProfile(viewerID(r), pathID(r), f.get("name"), f.get("content"), s.imageFrom(r, f))
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.renderProfile(profile, viewerID(r)))
	}
}

// Bookmarks are private to their owner

func (s *Server) BookmarksListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writePage(w, r, s.renderBookmarks(s.content.ListBookmarks(viewerID(r))), s.pageSize())
	}
}

func (s *Server) BookmarkCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		postID, hasPost := f.intValue("post")
		if !hasPost {
			writeFieldErrors(w, fieldErrors{"post": {msgRequired}})
			return
		}
		bookmark, err := s.content.CreateBookmark(viewerID(r), postID)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.renderBookmark(bookmark))
	}
}

func (s *Server) BookmarkDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookmark, err := s.content.GetBookmark(pathID(r))
		if err != nil || bookmark.OwnerID != viewerID(r) {
			writeJSONError(w, "Not found.", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, s.renderBookmark(bookmark))
	}
}

func (s *Server) BookmarkDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.DeleteBookmark(viewerID(r), pathID(r)); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
