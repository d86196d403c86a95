package entity

// Membership joins a user and a project by identifier. Neither side owns it:
// removing a user or project leaves its memberships in place.
type Membership struct {
	Base
	UserID      string      `json:"user_id"`
	ProjectID   string      `json:"project_id"`
	AccessLevel AccessLevel `json:"access_level"`
}
