package model

import "time"

type UserID string

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type CreateUserParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID                     UserID     `db:"ID" json:"id"`
	CreatedAt              time.Time  `db:"CreatedAt" json:"createdAt"`
	UpdatedAt              *time.Time `db:"UpdatedAt" json:"updatedAt,omitempty"`
	Username               string     `db:"Username" json:"username"`
	Email                  string     `db:"Email" json:"email"`
	PasswordHash           string     `db:"PasswordHash" json:"-"`
	Role                   Role       `db:"Role" json:"role"`
	IsEmailVerified        bool       `db:"IsEmailVerified" json:"isEmailVerified"`
	EmailVerificationToken *string    `db:"EmailVerificationToken" json:"-"`
	PasswordResetToken     *string    `db:"PasswordResetToken" json:"-"`
	PasswordResetExpires   *time.Time `db:"PasswordResetExpires" json:"-"`
}
