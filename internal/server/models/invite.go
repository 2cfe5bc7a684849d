package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

// Valid reports whether s is one of the fixed statuses.
func (s InviteStatus) Valid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusRejected:
		return true
	}
	return false
}

type Invite struct {
	ID             string       `json:"id" bson:"_id"`
	SenderEmail    string       `json:"senderEmail" bson:"sender_email"`
	RecipientEmail string       `json:"recipientEmail" bson:"recipient_email"`
	Message        string       `json:"message" bson:"message"`
	Status         InviteStatus `json:"status" bson:"status"`
	CreatedAt      time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updated_at"`
}
