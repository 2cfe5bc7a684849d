package models

import "time"

type RefreshToken struct {
	UserID    string    `bson:"user_id"`
	Token     string    `bson:"_id"`
	Expires   time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
