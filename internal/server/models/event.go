package models

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int `json:"hour" bson:"hour"`
	Minute int `json:"minute" bson:"minute"`
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Event is a calendar entry. AttendeeIDs is what is stored; Attendees is
// filled from the user store on read and never persisted.
type Event struct {
	ID          string         `json:"id" bson:"_id"`
	UserID      string         `json:"userId" bson:"user_id"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Date        string         `json:"date" bson:"date"`
	StartTime   ClockTime      `json:"starttime" bson:"start_time"`
	EndTime     ClockTime      `json:"endtime" bson:"end_time"`
	AttendeeIDs []string       `json:"-" bson:"attendees"`
	Attendees   []UserSnapshot `json:"sleipner" bson:"-"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updated_at"`
}
