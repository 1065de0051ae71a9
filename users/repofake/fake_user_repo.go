package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int]*users.User
	usernames map[string]int // lower-cased username to user id
	nextID    int
	lock      sync.RWMutex
}

func NewFakeUserRepo() users.UserRepo {
	return &FakeUserRepo{
		users:     make(map[int]*users.User),
		usernames: make(map[string]int),
	}
}

func (ur *FakeUserRepo) Create(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	name := strings.ToLower(user.Username)
	if _, taken := ur.usernames[name]; taken {
		return apperrors.ErrUsernameTaken
	}
	ur.nextID++
	user.ID = ur.nextID
	stored := *user
	ur.users[user.ID] = &stored
	ur.usernames[name] = user.ID
	return nil
}

func (ur *FakeUserRepo) Update(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	oldName := strings.ToLower(existing.Username)
	newName := strings.ToLower(user.Username)
	if oldName != newName {
		if _, taken := ur.usernames[newName]; taken {
			return apperrors.ErrUsernameTaken
		}
		delete(ur.usernames, oldName)
		ur.usernames[newName] = user.ID
	}
	stored := *user
	ur.users[user.ID] = &stored
	return nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.usernames[strings.ToLower(username)]
	ur.lock.RUnlock()
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return ur.GetByID(id)
}

func (ur *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		copied := *v
		userList = append(userList, &copied)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})

	if offset >= len(userList) {
		return nil, nil
	}
	end := offset + limit
	if end > len(userList) {
		end = len(userList)
	}
	return userList[offset:end], nil
}
