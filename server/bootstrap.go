package server

import (
	"github.com/jrsteele09/go-social-client/users"
	"github.com/pkg/errors"
)

// SeedUser is an account created at startup
type SeedUser struct {
	Username string
	Password string
	Email    string
	Name     string
}

// Seed creates users with profiles, skipping usernames that already exist.
// It returns the ids of the accounts, in order.
func (s *Server) Seed(seed ...SeedUser) ([]int, error) {
	ids := make([]int, 0, len(seed))
	for _, su := range seed {
		if existing, err := s.users.GetByUsername(su.Username); err == nil {
			ids = append(ids, existing.ID)
			continue
		}

		user := &users.User{Username: su.Username, Email: su.Email, DateJoined: s.now()}
		if err := user.SetPassword(su.Password); err != nil {
			return nil, errors.Wrapf(err, "[Server.Seed] hash password for %s", su.Username)
		}
		if err := s.users.Create(user); err != nil {
			return nil, errors.Wrapf(err, "[Server.Seed] create %s", su.Username)
		}
		profile := s.content.CreateProfile(user.ID, user.Username)
		if su.Name != "" {
			if _, err := s.content.UpdateProfile(user.ID, profile.ID, su.Name, "", ""); err != nil {
				return nil, errors.Wrapf(err, "[Server.Seed] profile for %s", su.Username)
			}
		}
		s.log.Info().Int("user", user.ID).Str("username", user.Username).Msg("seeded user")
		ids = append(ids, user.ID)
	}
	return ids, nil
}
