package session

import (
	"strings"
)

// User is the locally cached record of the logged-in user.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Nombre is the display name derived from first and last name.
	Nombre string `json:"nombre"`
}

// Registration is the sign-up form as the user fills it in.
type Registration struct {
	Nombre          string
	Email           string
	Password        string
	ConfirmPassword string
}

// DisplayName joins first and last name, trimmed.
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(firstName + " " + lastName)
}

// SplitName splits a single full-name field into first name (first word) and
// last name (the remaining words joined by single spaces).
func SplitName(full string) (first, last string) {
	words := strings.Fields(full)
	if len(words) == 0 {
		return strings.TrimSpace(full), ""
	}
	return words[0], strings.Join(words[1:], " ")
}

// userPayload is the user object as the backend serializes it.
type userPayload struct {
	ID        *int64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// loginResponse accepts the user either nested under "user" or at top level.
type loginResponse struct {
	User *userPayload `json:"user"`
	userPayload
	Error string `json:"error"`
}

// normalize picks each field from the nested user first, then from the top level.
func (r loginResponse) normalize() User {
	nested := userPayload{}
	if r.User != nil {
		nested = *r.User
	}

	u := User{
		Username:  firstNonEmpty(nested.Username, r.Username),
		Email:     firstNonEmpty(nested.Email, r.Email),
		FirstName: firstNonEmpty(nested.FirstName, r.FirstName),
		LastName:  firstNonEmpty(nested.LastName, r.LastName),
	}
	switch {
	case nested.ID != nil:
		u.ID = *nested.ID
	case r.ID != nil:
		u.ID = *r.ID
	}
	u.Nombre = DisplayName(u.FirstName, u.LastName)
	return u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
