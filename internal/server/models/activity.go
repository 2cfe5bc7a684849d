package models

import "time"

// Activity types.
const (
	ActivityTypeLogin = "login"
	ActivityTypeEvent = "event"
)

// Segment is one run of feed text; Bold runs are emphasised by clients.
type Segment struct {
	Bold bool   `json:"bold" bson:"bold"`
	Text string `json:"text" bson:"text"`
}

// Activity is an append-only feed entry. RelatedID points at the entity
// that triggered it, when there is one.
type Activity struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Type      string    `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Segments  []Segment `json:"dis" bson:"segments"`
	RelatedID string    `json:"activateId,omitempty" bson:"related_id,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
