package sandbox

import (
	"errors"
	"sync"
)

var ErrUsernameTaken = errors.New("username already taken")

// Account is a registered sandbox user.
type Account struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Telefono     string
	Direccion    string
	PasswordHash string
}

// Accounts is an in-memory user table keyed by id and username.
type Accounts struct {
	mu         sync.RWMutex
	byID       map[int64]Account
	byUsername map[string]int64
	nextID     int64
}

func NewAccounts() *Accounts {
	return &Accounts{
		byID:       make(map[int64]Account),
		byUsername: make(map[string]int64),
		nextID:     1,
	}
}

// Create assigns an id and stores a. Usernames are unique.
func (a *Accounts) Create(acc Account) (Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byUsername[acc.Username]; exists {
		return Account{}, ErrUsernameTaken
	}
	acc.ID = a.nextID
	a.nextID++
	a.byID[acc.ID] = acc
	a.byUsername[acc.Username] = acc.ID
	return acc, nil
}

func (a *Accounts) ByUsername(username string) (Account, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.byUsername[username]
	if !ok {
		return Account{}, false
	}
	return a.byID[id], true
}

func (a *Accounts) ByID(id int64) (Account, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acc, ok := a.byID[id]
	return acc, ok
}

func (a *Accounts) Exists(username string) bool {
	_, ok := a.ByUsername(username)
	return ok
}
