package entity

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt digest and is never serialized.
type User struct {
	Base
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Age            int    `json:"age"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	PasswordHash   string `json:"-"`
	Role           Role   `json:"role"`
	EmailValidated bool   `json:"email_validated"`
}

// MarkEmailValidated is the only transition of the verification flag: it moves
// false->true and never back. It reports whether the state changed.
func (u *User) MarkEmailValidated() bool {
	if u.EmailValidated {
		return false
	}
	u.EmailValidated = true
	return true
}

// UserPatch lists the fields a partial update may touch; nil means unchanged.
type UserPatch struct {
	FirstName    *string
	LastName     *string
	Age          *int
	Email        *string
	Username     *string
	PasswordHash *string
	Role         *Role
}

func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Age == nil && p.Email == nil &&
		p.Username == nil && p.PasswordHash == nil && p.Role == nil
}

// Apply copies the supplied fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
