package domain

type User struct {
	ID               string
	DisplayName      string
	BusinessVerified bool
	CompletedOrders  int64
	OpenDisputes     int64
}

type UserRepository interface {
	GetUserByID(userID string) (*User, error)
	// FindEligibleJurors samples users with at least one completed
	// transaction and no open disputes of their own, skipping excluded ids.
	FindEligibleJurors(excludeUserIDs []string, limit int) ([]*User, error)
	IncrementCompletedOrders(userIDs ...string) error
	IncrementOpenDisputes(userID string) error
	DecrementOpenDisputes(userID string) error
}
