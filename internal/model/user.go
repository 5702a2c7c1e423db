package model

import (
	"errors"
)

// User is a platform member as returned by the users resource.
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Bio             string `json:"bio,omitempty"`
	ContactNumber   string `json:"contactNumber,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Address         string `json:"address,omitempty"`
	Birthday        string `json:"birthday,omitempty"` // YYYY-MM-DD
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	PublicStatus    bool   `json:"publicStatus"`
}

// UserSummary is the embedded author/owner reference carried by other entities.
type UserSummary struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Summary reduces a full user to its embedded reference.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfileImageURL: u.ProfileImageURL}
}

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

// UpdateUserRequest is the body of PUT /users/{id}.
type UpdateUserRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Bio             string `json:"bio"`
	ContactNumber   string `json:"contactNumber"`
	Gender          string `json:"gender"`
	Address         string `json:"address"`
	Birthday        string `json:"birthday"`
	ProfileImageURL string `json:"profileImageUrl"`
	PublicStatus    bool   `json:"publicStatus"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the two values persisted as the client session.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotAccountOwner = errors.New("you can only change your own account")
)
