package entities

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the identity held by a session. A fresh ID is minted on every login,
// even for a returning customer.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

func NewUser(id, name, phone string, role Role) *User {
	return &User{
		ID:    id,
		Name:  name,
		Phone: phone,
		Role:  role,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
