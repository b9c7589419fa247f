package model

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDonor     Role = "DONOR"
	RoleRecipient Role = "RECIPIENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDonor, RoleRecipient:
		return true
	}
	return false
}

// User represents a registered account
type User struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,oneof=ADMIN DONOR RECIPIENT"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=120"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *Role   `json:"role" binding:"omitempty,oneof=ADMIN DONOR RECIPIENT"`
}

type UserFilter struct {
	Role Role `form:"role" binding:"omitempty,oneof=ADMIN DONOR RECIPIENT"`
}

type UserCounts struct {
	Total      int `json:"total" db:"total"`
	Admins     int `json:"admins" db:"admins"`
	Donors     int `json:"donors" db:"donors"`
	Recipients int `json:"recipients" db:"recipients"`
}
