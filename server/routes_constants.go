package server

// Route path constants
// All sandbox routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteUser           = "/dj-rest-auth/user/"
	RouteLogin          = "/dj-rest-auth/login/"
	RouteLogout         = "/dj-rest-auth/logout/"
	RouteRegistration   = "/dj-rest-auth/registration/"
	RouteTokenRefresh   = "/dj-rest-auth/token/refresh/"
	RouteChangePassword = "/dj-rest-auth/password/change/"

	// Resource Routes
	RoutePosts          = "/posts/"
	RoutePostDetail     = "/posts/{id:[0-9]+}/"
	RouteComments       = "/comments/"
	RouteCommentDetail  = "/comments/{id:[0-9]+}/"
	RouteLikes          = "/likes/"
	RouteLikeDetail     = "/likes/{id:[0-9]+}/"
	RouteFollowers      = "/followers/"
	RouteFollowerDetail = "/followers/{id:[0-9]+}/"
	RouteProfiles       = "/profiles/"
	RouteProfileDetail  = "/profiles/{id:[0-9]+}/"
	RouteBookmarks      = "/bookmarks/"
	RouteBookmarkDetail = "/bookmarks/{id:[0-9]+}/"
	RouteMedia          = "/media/{name}"
	RouteMediaPrefix    = "/media/"
	RouteMetrics        = "/metrics"
	RouteHealth         = "/health"
)
