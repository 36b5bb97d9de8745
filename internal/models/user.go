package models

import "time"

// User represents a user record in DB (internal use only).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest holds the data for creating a new user.
type RegisterRequest struct {
	Username FlexString `json:"username"`
	Password FlexString `json:"password"`
}

// RegisterResponse confirms a registration. ID is only filled in the path
// variant, where clients need it to address their exercises.
type RegisterResponse struct {
	Msg string `json:"msg"`
	ID  int64  `json:"id,omitempty"`
}
