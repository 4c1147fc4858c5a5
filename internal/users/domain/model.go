package domain

import "time"

// Role codes.
const (
	RoleConsultant     = "ROLE_CONSULTANT"
	RoleProjectManager = "ROLE_PROJECTMANAGER"
	RoleReport         = "ROLE_REPORT"
	RoleManager        = "ROLE_MANAGER"
	RoleAdmin          = "ROLE_ADMIN"
)

type Role struct {
	Role string `json:"role" yaml:"role"`
	Name string `json:"name" yaml:"name"`
}

type Department struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// User is the read model of an account. The password hash never leaves the
// repository layer.
type User struct {
	ID         int64       `json:"id"`
	Username   string      `json:"username"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Active     bool        `json:"active"`
	Department *Department `json:"department,omitempty"`
	Roles      []string    `json:"roles"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Deletable  bool        `json:"deletable"`
}

// FullName renders "Last, First" the way reports and the audit trail show it.
func (u User) FullName() string {
	switch {
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	default:
		return u.LastName + ", " + u.FirstName
	}
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserInput carries the writable fields of a user. Password is only applied
// on create; updates go through ChangePassword.
type UserInput struct {
	Username     string   `json:"username"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	Active       bool     `json:"active"`
	DepartmentID *int64   `json:"department_id"`
	Roles        []string `json:"roles"`
	Password     string   `json:"password,omitempty"`
}
