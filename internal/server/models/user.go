// Package models defines the server-side documents persisted by the stores
// and the shapes returned to API clients.
package models

import "time"

// AvatarImage is one rendered size of a profile picture. AssetID is the
// storage handle used to release the object later; empty for the default image.
type AvatarImage struct {
	URL     string `json:"url" bson:"url"`
	AssetID string `json:"assetId,omitempty" bson:"asset_id,omitempty"`
}

// Avatar holds the two rendered sizes of a profile picture.
type Avatar struct {
	Small AvatarImage `json:"64" bson:"small"`
	Large AvatarImage `json:"200" bson:"large"`
}

// Avatar sizes in pixels.
const (
	AvatarSmallSize = 64
	AvatarLargeSize = 200
)

// AssetIDs lists the non-empty storage handles of both sizes.
func (a Avatar) AssetIDs() []string {
	var ids []string
	for _, id := range []string{a.Small.AssetID, a.Large.AssetID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// DefaultAvatar returns an avatar pointing both sizes at url.
func DefaultAvatar(url string) Avatar {
	return Avatar{Small: AvatarImage{URL: url}, Large: AvatarImage{URL: url}}
}

// User is the account document. Tags are only populated when the embedded
// tag strategy is configured; Contacts holds user ids with set semantics.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Verified     bool      `json:"verified" bson:"verified"`
	Avatar       Avatar    `json:"avatar" bson:"avatar"`
	Tags         []Tag     `json:"-" bson:"tags"`
	Contacts     []string  `json:"-" bson:"contacts"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// PublicUser is the only view of an account shown to other users.
type PublicUser struct {
	ID     string `json:"id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Avatar Avatar `json:"avatar" bson:"avatar"`
}

// Profile is the caller's own view of their account.
type Profile struct {
	PublicUser
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

func (u *User) Profile() Profile {
	return Profile{PublicUser: u.Public(), Verified: u.Verified, CreatedAt: u.CreatedAt}
}

// HasContact reports whether id is already in the contact set.
func (u *User) HasContact(id string) bool {
	for _, c := range u.Contacts {
		if c == id {
			return true
		}
	}
	return false
}
