package users

type UserRepo interface {
	// Create stores a new user and assigns its ID. Usernames are unique.
	Create(user *User) error
	Update(user *User) error
	GetByID(id int) (*User, error)
	GetByUsername(username string) (*User, error)
	List(offset, limit int) ([]*User, error)
}
