// Package session owns the authenticated-user state of the client.
//
// Store holds the single current Session and is only mutated through a
// Manager. Everything else reads it through the View interface. The Manager
// talks to the auth endpoints, and Binding installs the credential refresh
// hooks on an api.Client for as long as the owner needs them.
package session

// Session is the signed-in user as reported by the auth endpoints.
type Session struct {
	UserID        int    `json:"pk"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	ProfileID     int    `json:"profile_id"`
	ProfileImage  string `json:"profile_image"`
	Authenticated bool   `json:"-"`
}

// State is the position in the Anonymous/Authenticated state machine.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Endpoints are the server-owned auth paths.
type Endpoints struct {
	User         string
	Login        string
	Logout       string
	Registration string
	Refresh      string
}

// DefaultEndpoints are the dj-rest-auth paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		User:         "/dj-rest-auth/user/",
		Login:        "/dj-rest-auth/login/",
		Logout:       "/dj-rest-auth/logout/",
		Registration: "/dj-rest-auth/registration/",
		Refresh:      "/dj-rest-auth/token/refresh/",
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User Session `json:"user"`
}

type registrationRequest struct {
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}
