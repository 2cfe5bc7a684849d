package models

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusStart     TaskStatus = "Start"
	TaskStatusInProcess TaskStatus = "In Process"
	TaskStatusOnHold    TaskStatus = "On Hold"
	TaskStatusDone      TaskStatus = "Done"
)

// Valid reports whether s is one of the fixed statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusStart, TaskStatusInProcess, TaskStatusOnHold, TaskStatusDone:
		return true
	}
	return false
}

// BlockTypeParagraph is the only block type the server seeds.
const BlockTypeParagraph = "paragraph"

// Block is one entry of a rich-text description.
type Block struct {
	ID   string    `json:"id" bson:"id"`
	Type string    `json:"type" bson:"type"`
	Data BlockData `json:"data" bson:"data"`
}

type BlockData struct {
	Text string `json:"text" bson:"text"`
}

// Task carries denormalized owner, assignee, and tag copies so that reads
// never join. See UserSnapshot for the staleness contract.
type Task struct {
	ID          string         `json:"id" bson:"_id"`
	Owner       UserSnapshot   `json:"owner" bson:"owner"`
	Name        string         `json:"name" bson:"name"`
	Description []Block        `json:"description" bson:"description"`
	Tags        []Tag          `json:"tags" bson:"tags"`
	Assignees   []UserSnapshot `json:"assignees" bson:"assignees"`
	Status      TaskStatus     `json:"status" bson:"status"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updated_at"`
}
