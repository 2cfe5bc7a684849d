package models

// Tag is a user-owned label. When stored standalone, UserID names the owner;
// embedded tags leave it empty.
type Tag struct {
	ID     string `json:"id" bson:"id"`
	UserID string `json:"-" bson:"user_id,omitempty"`
	Name   string `json:"name" bson:"name"`
	Color  string `json:"color" bson:"color"`
}
