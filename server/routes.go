package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	public := s.APIMiddleware(s.Authenticate)
	private := s.APIMiddleware(s.RequireAuth)

	// AUTH
	s.RegisterRouteFunc(http.MethodGet, RouteUser, ChainMiddleware(s.UserHandler(), private...))
	s.RegisterRouteFunc(http.MethodPut, RouteUser, ChainMiddleware(s.UserUpdateHandler(), private...))
	s.RegisterRouteFunc(http.MethodPatch, RouteUser, ChainMiddleware(s.UserUpdateHandler(), private...))
	s.RegisterRouteFunc(http.MethodPost, RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteRegistration, ChainMiddleware(s.RegistrationHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteTokenRefresh, ChainMiddleware(s.TokenRefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, RouteChangePassword, ChainMiddleware(s.ChangePasswordHandler(), private...))

	// POSTS
	s.RegisterRouteFunc(http.MethodGet, RoutePosts, ChainMiddleware(s.PostsListHandler(), public...))
	s.RegisterRouteFunc(http.MethodPost, RoutePosts, ChainMiddleware(s.PostCreateHandler(), private...))
	s.RegisterRouteFunc(http.MethodGet, RoutePostDetail, ChainMiddleware(s.PostDetailHandler(), public...))
	s.RegisterRouteFunc(http.MethodPut, RoutePostDetail, ChainMiddleware(s.PostUpdateHandler(), private...))
	s.RegisterRouteFunc(http.MethodDelete, RoutePostDetail, ChainMiddleware(s.PostDeleteHandler(), private...))

	// COMMENTS
	s.RegisterRouteFunc(http.MethodGet, RouteComments, ChainMiddleware(s.CommentsListHandler(), public...))
	s.RegisterRouteFunc(http.MethodPost, RouteComments, ChainMiddleware(s.CommentCreateHandler(), private...))
	s.RegisterRouteFunc(http.MethodGet, RouteCommentDetail, ChainMiddleware(s.CommentDetailHandler(), public...))
	s.RegisterRouteFunc(http.MethodPut, RouteCommentDetail, ChainMiddleware(s.CommentUpdateHandler(), private...))
	s.RegisterRouteFunc(http.MethodDelete, RouteCommentDetail, ChainMiddleware(s.CommentDeleteHandler(), private...))

	// LIKES
	s.RegisterRouteFunc(http.MethodGet, RouteLikes, ChainMiddleware(s.LikesListHandler(), public...))
	s.RegisterRouteFunc(http.MethodPost, RouteLikes, ChainMiddleware(s.LikeCreateHandler(), private...))
	s.RegisterRouteFunc(http.MethodGet, RouteLikeDetail, ChainMiddleware(s.LikeDetailHandler(), public...))
	s.RegisterRouteFunc(http.MethodDelete, RouteLikeDetail, ChainMiddleware(s.LikeDeleteHandler(), private...))

	// FOLLOWERS
	s.RegisterRouteFunc(http.MethodGet, RouteFollowers, ChainMiddleware(s.FollowersListHandler(), public...))
	s.RegisterRouteFunc(http.MethodPost, RouteFollowers, ChainMiddleware(s.FollowCreateHandler(), private...))
	s.RegisterRouteFunc(http.MethodGet, RouteFollowerDetail, ChainMiddleware(s.FollowDetailHandler(), public...))
	s.RegisterRouteFunc(http.MethodDelete, RouteFollowerDetail, ChainMiddleware(s.FollowDeleteHandler(), private...))

	// PROFILES
	s.RegisterRouteFunc(http.MethodGet, RouteProfiles, ChainMiddleware(s.ProfilesListHandler(), public...))
	s.RegisterRouteFunc(http.MethodGet, RouteProfileDetail, ChainMiddleware(s.ProfileDetailHandler(), public...))
	s.RegisterRouteFunc(http.MethodPut, RouteProfileDetail, ChainMiddleware(s.ProfileUpdateHandler(), private...))

	// BOOKMARKS
	s.RegisterRouteFunc(http.MethodGet, RouteBookmarks, ChainMiddleware(s.BookmarksListHandler(), private...))
	s.RegisterRouteFunc(http.MethodPost, RouteBookmarks, ChainMiddleware(s.BookmarkCreateHandler(), private...))
	s.RegisterRouteFunc(http.MethodGet, RouteBookmarkDetail, ChainMiddleware(s.BookmarkDetailHandler(), private...))
	s.RegisterRouteFunc(http.MethodDelete, RouteBookmarkDetail, ChainMiddleware(s.BookmarkDeleteHandler(), private...))

	// MEDIA & OPS
	s.RegisterRouteFunc(http.MethodGet, RouteMedia, ChainMiddleware(s.MediaHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodGet, RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusOK, "ok")
	})
	s.routes = append(s.routes, http.MethodGet+" "+RouteMetrics)
	s.router.Handle(RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}
