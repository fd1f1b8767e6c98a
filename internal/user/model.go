package user

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID             uint
	Email          string
	Username       string
	HashedPassword string
	Role           Role
	FullName       *string
	Phone          *string
	Address        *string
	IsActive       bool
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName *string
	Phone    *string
	Address  *string
}
