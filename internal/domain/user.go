package domain

type Role string

const (
	RoleOwner Role = "owner"
	RoleSale  Role = "sale"
)

type User struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Hash      string `db:"password_hash"`
	CreatedAt string `db:"created_at"`
}

// Principal is the authenticated identity bound to a session or token.
type Principal struct {
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Role  Role   `db:"role" json:"role"`
}

func (p *Principal) IsOwner() bool { return p != nil && p.Role == RoleOwner }

func (p *Principal) Cashier() Cashier { return Cashier{Email: p.Email, Name: p.Name} }
