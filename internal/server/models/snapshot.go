package models

// UserSnapshot is a copy of a user's identity taken when a task or event
// is written. It is a value, not a reference: later profile changes (name,
// email, avatar) are not propagated, so readers must treat every snapshot as
// possibly stale. The ID is the only field safe to compare against live users.
type UserSnapshot struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Avatar Avatar `json:"avatar" bson:"avatar"`
}

// Snapshot copies the identity fields of u.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
