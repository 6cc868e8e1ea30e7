package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	FullName       *string
	Phone          *string
	Building       *string
	MailboxNumber  *string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
